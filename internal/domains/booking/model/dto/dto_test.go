package dto_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"unibook/internal/domains/booking/model"
	"unibook/internal/domains/booking/model/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		RoomID:    "5c4a3a52-3c59-4e0a-9f25-0c6f9d9f3b11",
		StartTime: "2025-03-01T09:00:00Z",
		EndTime:   "2025-03-01T10:30:00Z",
		Purpose:   "  Thesis defense  ",
	}

	slot, err := req.Slot()
	require.NoError(t, err)
	assert.True(t, slot.Start.Equal(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)))
	assert.True(t, slot.End.Equal(time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)))

	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	booking := req.ToModel("u1", slot, now)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, "Thesis defense", booking.Purpose)
	assert.Equal(t, "u1", booking.UserID)
	assert.Equal(t, now, booking.CreatedAt)
	assert.Equal(t, "u1", booking.CreatedBy)
}

func TestCreateBookingRequest_SlotRejectsMalformedTimes(t *testing.T) {
	req := dto.CreateBookingRequest{StartTime: "2025-03-01 09:00", EndTime: "2025-03-01T10:00:00Z"}

	_, err := req.Slot()
	assert.ErrorContains(t, err, "start_time must be an RFC3339 timestamp")

	req = dto.CreateBookingRequest{StartTime: "2025-03-01T09:00:00Z", EndTime: "tomorrow"}

	_, err = req.Slot()
	assert.ErrorContains(t, err, "end_time must be an RFC3339 timestamp")
}

func TestListFilter(t *testing.T) {
	t.Run("active status and window", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/bookings?room_id=r1&status=active&start_time=2025-03-01T00:00:00Z&end_time=2025-03-02T00:00:00Z", nil)

		var filter dto.ListFilter
		require.NoError(t, filter.FromRequest(r))

		where, args := filter.FilterGroup().GetWhereClause()
		assert.Contains(t, where, "room_bookings.room_id = :room_id")
		assert.Contains(t, where, "room_bookings.status IN (:status_0, :status_1)")
		assert.Contains(t, where, "room_bookings.start_time < :window_end")
		assert.Contains(t, where, "room_bookings.end_time > :window_start")
		assert.Equal(t, "r1", args["room_id"])
	})

	t.Run("single status is normalised", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/bookings?status=pending&user_id=u1", nil)

		var filter dto.ListFilter
		require.NoError(t, filter.FromRequest(r))

		where, args := filter.FilterGroup().GetWhereClause()
		assert.Contains(t, where, "room_bookings.status = :status")
		assert.Equal(t, "PENDING", args["status"])
		assert.Equal(t, "u1", args["user_id"])
	})

	t.Run("unknown status", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/bookings?status=archived", nil)

		var filter dto.ListFilter
		assert.Error(t, filter.FromRequest(r))
	})

	t.Run("half window", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/bookings?start_time=2025-03-01T00:00:00Z", nil)

		var filter dto.ListFilter
		assert.Error(t, filter.FromRequest(r))
	})

	t.Run("no filters", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/bookings", nil)

		var filter dto.ListFilter
		require.NoError(t, filter.FromRequest(r))

		where, _ := filter.FilterGroup().GetWhereClause()
		assert.Empty(t, where)
	})
}
