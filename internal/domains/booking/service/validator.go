package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"unibook/config"
	"unibook/infras/otel"
	holidayService "unibook/internal/domains/holiday/service"
	"unibook/shared/clock"
	"unibook/shared/constant"
	"unibook/shared/failure"

	"github.com/rs/zerolog/log"
)

// Validator decides whether a candidate slot may be booked. The first failing rule wins.
type Validator interface {
	// ValidateDates checks the slot is in the future, well-formed and inside the booking window.
	ValidateDates(start, end time.Time) error
	// ValidateHolidays rejects a slot touching any holiday between start's date and end's date.
	ValidateHolidays(ctx context.Context, start, end time.Time) error
	Validate(ctx context.Context, start, end time.Time) error
}

type validatorImpl struct {
	calendar holidayService.Calendar
	clock    clock.Clock
	cfg      *config.Config
	otel     otel.Otel
}

func NewValidator(calendar holidayService.Calendar, clock clock.Clock, cfg *config.Config, otel otel.Otel) Validator {
	return &validatorImpl{
		calendar: calendar,
		clock:    clock,
		cfg:      cfg,
		otel:     otel,
	}
}

func (v *validatorImpl) ValidateDates(start, end time.Time) error {
	now := v.clock.Now()

	if start.Before(now) {
		return failure.InvalidDate("start time cannot be in the past") //nolint:wrapcheck
	}

	if !end.After(start) {
		return failure.InvalidDate("end time must be after start time") //nolint:wrapcheck
	}

	maxDays := v.cfg.BookingMaxWindowDays()
	if start.After(now.AddDate(0, 0, maxDays)) {
		return failure.InvalidDate(fmt.Sprintf("booking cannot be made more than %d days in advance", maxDays)) //nolint:wrapcheck
	}

	return nil
}

func (v *validatorImpl) ValidateHolidays(ctx context.Context, start, end time.Time) (err error) {
	ctx, scope := v.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ValidateHolidays")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	holidays, err := v.calendar.Between(ctx, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to check holidays")

		return fmt.Errorf("failed to check holidays: %w", err)
	}

	if len(holidays) == 0 {
		return nil
	}

	names := make([]string, len(holidays))
	for i, holiday := range holidays {
		names[i] = holiday.Name
	}

	return failure.InvalidDate("cannot book on holidays: " + strings.Join(names, ", ")) //nolint:wrapcheck
}

func (v *validatorImpl) Validate(ctx context.Context, start, end time.Time) error {
	if err := v.ValidateDates(start, end); err != nil {
		return err
	}

	return v.ValidateHolidays(ctx, start, end)
}
