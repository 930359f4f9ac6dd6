package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"unibook/config"
	"unibook/infras/otel"
	"unibook/internal/domains/room/model"
	"unibook/internal/domains/room/model/dto"
	"unibook/internal/domains/room/repository"
	"unibook/shared"
	"unibook/shared/cache"
	"unibook/shared/constant"
	gDto "unibook/shared/dto"
	"unibook/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

// Room is the read-only room catalogue. Results are cached for Cache.TTL seconds.
type Room interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
}

type serviceImpl struct {
	repo  repository.Room
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Room {
	return &serviceImpl{repo: repo, cfg: cfg, cache: cache, otel: otel}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (page dto.GetRoomsResponse, err error) {
		total, err := s.Count(ctx, req, filter)
		if err != nil {
			return page, err
		}

		rooms, err := s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to list rooms")

			return page, fmt.Errorf("failed to list rooms: %w", err)
		}

		page.FromModels(rooms, total, req.Limit)

		return page, nil
	})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (int, error) {
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count rooms")

			return 0, fmt.Errorf("failed to count rooms: %w", err)
		}

		return total, nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetRoom, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (found dto.RoomResponse, err error) {
			room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
			if err != nil {
				log.Error().Err(err).Str("roomID", id).Msg("failed to get room")

				return found, fmt.Errorf("failed to get room: %w", err)
			}

			if room.ID == constant.Empty {
				return found, failure.NotFound("room not found") //nolint:wrapcheck
			}

			found.FromModel(room)

			return found, nil
		})
}
