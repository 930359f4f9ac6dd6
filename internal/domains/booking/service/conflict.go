package service

import (
	"context"
	"fmt"
	"time"

	"unibook/infras/otel"
	"unibook/internal/domains/booking/model"
	"unibook/internal/domains/booking/repository"
	"unibook/shared/constant"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// ConflictDetector compares a slot with the PENDING and APPROVED bookings of a room. It always reads
// live state.
type ConflictDetector interface {
	// HasConflict runs inside tx so it sees the transaction's own writes. excludeBookingID may be empty.
	HasConflict(ctx context.Context, tx *sqlx.Tx, roomID string, start, end time.Time, excludeBookingID string) (bool, error)
	// Available reports whether the slot is free against committed state.
	Available(ctx context.Context, roomID string, start, end time.Time) (bool, error)
	Conflicts(ctx context.Context, roomID string, start, end time.Time) ([]model.Booking, error)
}

type conflictDetector struct {
	repo repository.Booking
	otel otel.Otel
}

func NewConflictDetector(repo repository.Booking, otel otel.Otel) ConflictDetector {
	return &conflictDetector{
		repo: repo,
		otel: otel,
	}
}

func (d *conflictDetector) HasConflict(ctx context.Context, tx *sqlx.Tx, roomID string, start, end time.Time, excludeBookingID string) (conflict bool, err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.HasConflict")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	conflict, err = d.repo.HasOverlapTx(ctx, tx, roomID, model.Slot{Start: start, End: end}, excludeBookingID)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to detect booking conflicts")

		return false, fmt.Errorf("failed to detect booking conflicts: %w", err)
	}

	return conflict, nil
}

func (d *conflictDetector) Available(ctx context.Context, roomID string, start, end time.Time) (available bool, err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Available")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	conflict, err := d.repo.HasOverlap(ctx, roomID, model.Slot{Start: start, End: end}, constant.Empty)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to detect booking conflicts")

		return false, fmt.Errorf("failed to detect booking conflicts: %w", err)
	}

	return !conflict, nil
}

func (d *conflictDetector) Conflicts(ctx context.Context, roomID string, start, end time.Time) (res []model.Booking, err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Conflicts")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = d.repo.FindOverlapping(ctx, roomID, model.Slot{Start: start, End: end})
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to list conflicting bookings")

		return nil, fmt.Errorf("failed to list conflicting bookings: %w", err)
	}

	return res, nil
}
