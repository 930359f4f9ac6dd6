package dto

import (
	"fmt"
	"net/http"
	"time"

	"unibook/shared/constant"
	"unibook/shared/timezone"
)

// TimeRange is a half-open [Start, End) window read from query parameters.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// FromRequest parses the start and end query parameters using the given names and layout.
// Both parameters are required and the end must come after the start.
func (t *TimeRange) FromRequest(r *http.Request, startParam, endParam, layout string) error {
	if err := t.parse(r, startParam, endParam, layout); err != nil {
		return err
	}

	if !t.End.After(t.Start) {
		return fmt.Errorf("%s must be after %s", endParam, startParam)
	}

	return nil
}

// FromDayRequest parses an inclusive calendar-day range; start and end may be the same day.
func (t *TimeRange) FromDayRequest(r *http.Request, startParam, endParam string) error {
	if err := t.parse(r, startParam, endParam, constant.DayFormat); err != nil {
		return err
	}

	if t.End.Before(t.Start) {
		return fmt.Errorf("%s must not be before %s", endParam, startParam)
	}

	return nil
}

func (t *TimeRange) parse(r *http.Request, startParam, endParam, layout string) error {
	query := r.URL.Query()

	rawStart := query.Get(startParam)
	rawEnd := query.Get(endParam)

	if rawStart == constant.Empty || rawEnd == constant.Empty {
		return fmt.Errorf("%s and %s are required", startParam, endParam)
	}

	start, err := timezone.Parse(layout, rawStart)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", startParam, err)
	}

	end, err := timezone.Parse(layout, rawEnd)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", endParam, err)
	}

	t.Start = start
	t.End = end

	return nil
}
