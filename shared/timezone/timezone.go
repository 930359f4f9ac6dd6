// Package timezone holds the application time zone used to render and parse wall-clock values.
// It is UTC until Init is called with APP_TIMEZONE.
package timezone

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultZone = "UTC"

var location atomic.Pointer[time.Location]

// Init loads an IANA zone name. An empty name selects UTC; an unknown one keeps UTC and returns the error.
func Init(name string) error {
	if name == "" {
		name = defaultZone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		location.Store(time.UTC)

		return fmt.Errorf("failed to load timezone %q: %w", name, err)
	}

	location.Store(loc)

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return nil
}

// Location returns the application zone.
func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

func Now() time.Time {
	return time.Now().In(Location())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(Location())
}

// Parse reads value in the application zone unless the layout carries its own offset.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, Location()) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

