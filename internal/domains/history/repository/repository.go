package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"unibook/infras/otel"
	"unibook/infras/postgres"
	"unibook/internal/domains/history/model"
	"unibook/shared"
	"unibook/shared/constant"
	gDto "unibook/shared/dto"
	gRepo "unibook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type History interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, entry model.Entry) error
	FindByBooking(ctx context.Context, bookingID string) ([]model.Entry, error)
	FindByUser(ctx context.Context, userID string) ([]model.Entry, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]model.Entry, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Entry]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) History {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Entry](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

var chronological = gDto.QueryParams{SortBy: model.FieldActionTime, SortDir: gDto.SortDirAsc}

func (repo *repositoryImpl) FindByBooking(ctx context.Context, bookingID string) (res []model.Entry, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".history.FindByBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = repo.GetAll(ctx, chronological, shared.FilterByID(bookingID, model.FieldBookingID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to find history by booking")

		return nil, fmt.Errorf("failed to find history by booking: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) FindByUser(ctx context.Context, userID string) (res []model.Entry, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".history.FindByUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = repo.GetAll(ctx, chronological, shared.FilterByID(userID, model.FieldUserID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to find history by user")

		return nil, fmt.Errorf("failed to find history by user: %w", err)
	}

	return res, nil
}

// FindByDateRange returns entries with from <= action_time <= to.
func (repo *repositoryImpl) FindByDateRange(ctx context.Context, from, to time.Time) (res []model.Entry, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".history.FindByDateRange")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "action_from",
				Field:    model.FieldActionTime,
				Value:    from,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "action_to",
				Field:    model.FieldActionTime,
				Value:    to,
				Operator: gDto.FilterOperatorLessEq,
				Table:    model.TableName,
			},
		},
	}

	res, err = repo.GetAll(ctx, chronological, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to find history by date range")

		return nil, fmt.Errorf("failed to find history by date range: %w", err)
	}

	return res, nil
}
