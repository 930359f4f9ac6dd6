package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"unibook/config"
	"unibook/infras/otel"
	"unibook/internal/domains/holiday/model"
	"unibook/internal/domains/holiday/model/dto"
	"unibook/internal/domains/holiday/repository"
	"unibook/shared"
	"unibook/shared/cache"
	"unibook/shared/constant"
	"unibook/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheHolidayRange = "holiday:range"

// Calendar answers which blackout dates fall inside a period.
type Calendar interface {
	// Between returns the holidays on any calendar day from start's date to end's date inclusive,
	// with dates taken in the application timezone. Results are ordered by date.
	Between(ctx context.Context, start, end time.Time) ([]model.Holiday, error)
	List(ctx context.Context, start, end time.Time) (dto.GetHolidaysResponse, error)
}

type serviceImpl struct {
	repo  repository.Holiday
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Holiday, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Calendar {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Between(ctx context.Context, start, end time.Time) (res []model.Holiday, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".holiday.Between")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	startDay := timezone.Format(start, constant.DayFormat)
	endDay := timezone.Format(end, constant.DayFormat)
	cacheKey := shared.BuildCacheKey(cacheHolidayRange, startDay, endDay)

	return cache.Remember(ctx, s.cache, cacheKey, s.cfg.Cache.TTL, func(ctx context.Context) ([]model.Holiday, error) {
		holidays, err := s.repo.FindByDateRange(ctx, startDay, endDay)
		if err != nil {
			log.Error().Err(err).Msg("failed to load holidays")

			return nil, fmt.Errorf("failed to load holidays: %w", err)
		}

		return holidays, nil
	})
}

func (s *serviceImpl) List(ctx context.Context, start, end time.Time) (res dto.GetHolidaysResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".holiday.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	holidays, err := s.Between(ctx, start, end)
	if err != nil {
		return res, err
	}

	res.FromModels(holidays, timezone.Format(start, constant.DayFormat), timezone.Format(end, constant.DayFormat))

	return res, nil
}
