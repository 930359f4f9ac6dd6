package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"unibook/infras/otel"
	"unibook/infras/postgres"
	"unibook/internal/domains/holiday/model"
	"unibook/shared/constant"
	gDto "unibook/shared/dto"
	gRepo "unibook/shared/repository"

	"github.com/rs/zerolog/log"
)

type Holiday interface {
	// FindByDateRange returns holidays whose date falls in [startDay, endDay] (YYYY-MM-DD), by date ascending.
	FindByDateRange(ctx context.Context, startDay, endDay string) ([]model.Holiday, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Holiday]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Holiday {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Holiday](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (repo *repositoryImpl) FindByDateRange(ctx context.Context, startDay, endDay string) (res []model.Holiday, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".holiday.FindByDateRange")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "start_day",
				Field:    model.FieldDate,
				Value:    startDay,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "end_day",
				Field:    model.FieldDate,
				Value:    endDay,
				Operator: gDto.FilterOperatorLessEq,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldDate, SortDir: gDto.SortDirAsc}

	res, err = repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Str("start", startDay).Str("end", endDay).Msg("failed to find holidays by date range")

		return nil, fmt.Errorf("failed to find holidays by date range: %w", err)
	}

	return res, nil
}
