package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"unibook/infras/otel"
	"unibook/internal/domains/history/model"
	"unibook/internal/domains/history/repository"
	"unibook/shared/clock"
	"unibook/shared/constant"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Ledger is the append-only audit log of booking transitions.
type Ledger interface {
	// Append records one transition inside the caller's transaction. ID and ActionTime are assigned
	// when left empty.
	Append(ctx context.Context, tx *sqlx.Tx, entry model.Entry) error
	FindByBooking(ctx context.Context, bookingID string) ([]model.Entry, error)
	FindByUser(ctx context.Context, userID string) ([]model.Entry, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]model.Entry, error)
}

type serviceImpl struct {
	repo  repository.History
	clock clock.Clock
	otel  otel.Otel
}

func New(repo repository.History, clock clock.Clock, otel otel.Otel) Ledger {
	return &serviceImpl{
		repo:  repo,
		clock: clock,
		otel:  otel,
	}
}

func (s *serviceImpl) Append(ctx context.Context, tx *sqlx.Tx, entry model.Entry) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".history.Append")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if entry.ID == constant.Empty {
		entry.ID = uuid.NewString()
	}

	if entry.ActionTime.IsZero() {
		entry.ActionTime = s.clock.Now()
	}

	if err = s.repo.InsertTx(ctx, tx, entry); err != nil {
		log.Error().Err(err).Str("booking_id", entry.BookingID).Str("action", entry.Action.String()).Msg("failed to append history")

		return fmt.Errorf("failed to append history: %w", err)
	}

	return nil
}

func (s *serviceImpl) FindByBooking(ctx context.Context, bookingID string) (res []model.Entry, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".history.FindByBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.repo.FindByBooking(ctx, bookingID) //nolint:wrapcheck
}

func (s *serviceImpl) FindByUser(ctx context.Context, userID string) (res []model.Entry, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".history.FindByUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.repo.FindByUser(ctx, userID) //nolint:wrapcheck
}

func (s *serviceImpl) FindByDateRange(ctx context.Context, from, to time.Time) (res []model.Entry, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".history.FindByDateRange")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.repo.FindByDateRange(ctx, from, to) //nolint:wrapcheck
}
