package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"unibook/infras/otel"
	"unibook/infras/postgres"
	bookingModel "unibook/internal/domains/booking/model"
	historyModel "unibook/internal/domains/history/model"
	"unibook/internal/domains/report/model"
	roomModel "unibook/internal/domains/room/model"
	userModel "unibook/internal/domains/user/model"
	"unibook/shared/constant"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog/log"
)

type Report interface {
	// HistoryRows returns entries with from <= action_time <= to, oldest first.
	HistoryRows(ctx context.Context, from, to time.Time) ([]model.Row, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Report {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func historyRowsQuery(from, to time.Time) (string, []any, error) {
	return psql.Select(
		"h.id AS entry_id",
		"h.booking_id",
		"h.action",
		"h.reason",
		"h.action_time",
		"h.user_id",
		"u.name AS user_name",
		"b.room_id",
		"r.name AS room_name",
		"b.start_time",
		"b.end_time",
		"b.status",
	).
		From(historyModel.TableName + " h").
		Join(bookingModel.TableName + " b ON b.id = h.booking_id").
		LeftJoin(userModel.TableName + " u ON u.id = h.user_id").
		LeftJoin(roomModel.TableName + " r ON r.id = b.room_id").
		Where(squirrel.GtOrEq{"h.action_time": from}).
		Where(squirrel.LtOrEq{"h.action_time": to}).
		OrderBy("h.action_time ASC", "h.id ASC").
		ToSql()
}

func (repo *repositoryImpl) HistoryRows(ctx context.Context, from, to time.Time) (res []model.Row, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.HistoryRows")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query, args, err := historyRowsQuery(from, to)
	if err != nil {
		log.Error().Err(err).Msg("failed to build history report query")

		return nil, fmt.Errorf("failed to build history report query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res = []model.Row{}
	if err = repo.db.Read.SelectContext(ctx, &res, query, args...); err != nil {
		log.Error().Err(err).Msg("failed to query history report")

		return nil, fmt.Errorf("failed to query history report: %w", err)
	}

	return res, nil
}
