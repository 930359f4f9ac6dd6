package clock_test

import (
	"testing"
	"time"

	"unibook/shared/clock"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	before := time.Now()
	now := clock.New().Now()

	assert.False(t, now.Before(before.Add(-time.Second)))
	assert.False(t, now.After(time.Now().Add(time.Second)))
}

func TestFixed(t *testing.T) {
	at := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	fixed := clock.Fixed{At: at}

	assert.Equal(t, at, fixed.Now())
	assert.Equal(t, fixed.Now(), fixed.Now())
}
