package service_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"unibook/config"
	otelMocks "unibook/infras/otel/mocks"
	postgresMocks "unibook/infras/postgres/mocks"
	"unibook/internal/domains/booking/model"
	"unibook/internal/domains/booking/model/dto"
	"unibook/internal/domains/booking/service"
	historyMocks "unibook/internal/domains/history/service/mocks"
	holidayMocks "unibook/internal/domains/holiday/service/mocks"
	roomMocks "unibook/internal/domains/room/mocks"
	roomModel "unibook/internal/domains/room/model"
	userMocks "unibook/internal/domains/user/mocks"
	userModel "unibook/internal/domains/user/model"
	cacheMocks "unibook/shared/cache/mocks"
	"unibook/shared/clock"
	"unibook/shared/constant"
	gDto "unibook/shared/dto"
	"unibook/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// memStore is an in-memory calendar store sharing the production overlap predicate.
type memStore struct {
	bookings []model.Booking
}

func idFrom(filter gDto.FilterGroup) string {
	id, _ := filter.Filters[0].(gDto.Filter).Value.(string)

	return id
}

func (m *memStore) find(id string) int {
	for i, booking := range m.bookings {
		if booking.ID == id {
			return i
		}
	}

	return -1
}

func (m *memStore) overlapping(roomID string, slot model.Slot, excludeID string) []model.Booking {
	res := []model.Booking{}

	for _, booking := range m.bookings {
		if booking.RoomID == roomID && booking.Status.IsActive() && booking.ID != excludeID && booking.Slot().Overlaps(slot) {
			res = append(res, booking)
		}
	}

	return res
}

func (m *memStore) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
	if i := m.find(idFrom(filter)); i >= 0 {
		return m.bookings[i], nil
	}

	return model.Booking{}, nil
}

func (m *memStore) GetAll(context.Context, gDto.QueryParams, gDto.FilterGroup, ...string) ([]model.Booking, error) {
	return m.bookings, nil
}

func (m *memStore) Count(context.Context, gDto.FilterGroup) (int, error) {
	return len(m.bookings), nil
}

func (m *memStore) GetTx(ctx context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error) {
	return m.Get(ctx, filter, columns...)
}

func (m *memStore) GetForUpdateTx(ctx context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error) {
	return m.Get(ctx, filter, columns...)
}

func (m *memStore) InsertTx(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
	m.bookings = append(m.bookings, booking)

	return nil
}

func (m *memStore) UpdateTx(_ context.Context, _ *sqlx.Tx, mod map[string]any, filter gDto.FilterGroup) error {
	i := m.find(idFrom(filter))
	if i < 0 {
		return fmt.Errorf("booking %s not stored", idFrom(filter))
	}

	if status, ok := mod[model.FieldStatus].(model.Status); ok {
		m.bookings[i].Status = status
	}

	if start, ok := mod[model.FieldStartTime].(time.Time); ok {
		m.bookings[i].StartTime = start
	}

	if end, ok := mod[model.FieldEndTime].(time.Time); ok {
		m.bookings[i].EndTime = end
	}

	return nil
}

func (m *memStore) HasOverlapTx(_ context.Context, _ *sqlx.Tx, roomID string, slot model.Slot, excludeID string) (bool, error) {
	return len(m.overlapping(roomID, slot, excludeID)) > 0, nil
}

func (m *memStore) HasOverlap(_ context.Context, roomID string, slot model.Slot, excludeID string) (bool, error) {
	return len(m.overlapping(roomID, slot, excludeID)) > 0, nil
}

func (m *memStore) FindOverlapping(_ context.Context, roomID string, slot model.Slot) ([]model.Booking, error) {
	return m.overlapping(roomID, slot, constant.Empty), nil
}

func (m *memStore) LockRoomTimelineTx(context.Context, *sqlx.Tx, string) error {
	return nil
}

// bruteForceConflict is the reference answer computed without the shared predicate.
func bruteForceConflict(bookings []model.Booking, roomID string, start, end time.Time) bool {
	for _, booking := range bookings {
		if booking.RoomID != roomID {
			continue
		}

		if booking.Status != model.StatusPending && booking.Status != model.StatusApproved {
			continue
		}

		if start.Before(booking.EndTime) && booking.StartTime.Before(end) {
			return true
		}
	}

	return false
}

func TestBookingService_NoActiveOverlapUnderRandomOperations(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := &memStore{}
	users := userMocks.NewMockUser(ctrl)
	rooms := roomMocks.NewMockRoom(ctrl)
	ledger := historyMocks.NewMockLedger(ctrl)
	calendar := holidayMocks.NewMockCalendar(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, id string) (userModel.User, error) {
			if id == adminID {
				return admin, nil
			}

			return userModel.User{ID: id, Name: id, Role: userModel.RoleStudent, Active: true}, nil
		}).AnyTimes()
	rooms.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (roomModel.Room, error) {
			return roomModel.Room{ID: idFrom(filter), Name: idFrom(filter), Active: true}, nil
		}).AnyTimes()
	ledger.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	calendar.EXPECT().Between(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	fixed := clock.Fixed{At: now}
	otl := otelMocks.NewOtel()

	svc := service.New(store, users, rooms, ledger,
		service.NewValidator(calendar, fixed, cfg, otl),
		service.NewConflictDetector(store, otl),
		postgresMocks.NewTransactor(), cfg, cache, fixed, otl)

	rng := rand.New(rand.NewPCG(20250303, 1))
	roomIDs := []string{"room-a", "room-b"}
	requesters := []string{"student-1", "student-2", "student-3"}

	ctx := context.Background()

	for step := range 400 {
		switch op := rng.IntN(100); {
		case op < 60 || len(store.bookings) == 0:
			roomID := roomIDs[rng.IntN(len(roomIDs))]
			start := now.Add(time.Duration(1+rng.IntN(200)) * 15 * time.Minute)
			end := start.Add(time.Duration(1+rng.IntN(12)) * 15 * time.Minute)

			expectConflict := bruteForceConflict(store.bookings, roomID, start, end)
			before := len(store.bookings)

			_, err := svc.Create(ctx, createRequestFor(roomID, start, end), requesters[rng.IntN(len(requesters))])

			if expectConflict {
				require.Error(t, err, "step %d", step)
				assert.Equal(t, failure.KindConflict, failure.GetKind(err), "step %d", step)
				assert.Len(t, store.bookings, before, "step %d: rejected create must not write", step)
			} else {
				require.NoError(t, err, "step %d", step)
				assert.Len(t, store.bookings, before+1, "step %d", step)
			}
		case op < 75:
			target := store.bookings[rng.IntN(len(store.bookings))]

			_, err := svc.Approve(ctx, target.ID, adminID)
			if target.Status == model.StatusPending {
				require.NoError(t, err, "step %d", step)
			} else {
				assert.Equal(t, failure.KindInvalidState, failure.GetKind(err), "step %d", step)
			}
		case op < 85:
			target := store.bookings[rng.IntN(len(store.bookings))]

			_, err := svc.Reject(ctx, target.ID, adminID, "schedule change")
			if target.Status == model.StatusPending {
				require.NoError(t, err, "step %d", step)
			} else {
				assert.Equal(t, failure.KindInvalidState, failure.GetKind(err), "step %d", step)
			}
		default:
			target := store.bookings[rng.IntN(len(store.bookings))]

			_, err := svc.Cancel(ctx, target.ID, adminID, true)
			if target.Status.IsCancellable() {
				require.NoError(t, err, "step %d", step)
			} else {
				assert.Equal(t, failure.KindInvalidState, failure.GetKind(err), "step %d", step)
			}
		}

		assertNoActiveOverlap(t, store.bookings, step)
	}
}

func createRequestFor(roomID string, start, end time.Time) dto.CreateBookingRequest {
	req := createRequest(start, end)
	req.RoomID = roomID

	return req
}

func assertNoActiveOverlap(t *testing.T, bookings []model.Booking, step int) {
	t.Helper()

	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			a, b := bookings[i], bookings[j]
			if a.RoomID != b.RoomID || !a.Status.IsActive() || !b.Status.IsActive() {
				continue
			}

			require.False(t, a.Slot().Overlaps(b.Slot()), "step %d: %s and %s overlap", step, a.ID, b.ID)
		}
	}
}
