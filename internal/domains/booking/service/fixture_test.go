package service_test

import (
	"testing"
	"time"

	"unibook/config"
	otelMocks "unibook/infras/otel/mocks"
	postgresMocks "unibook/infras/postgres/mocks"
	bookingMocks "unibook/internal/domains/booking/mocks"
	"unibook/internal/domains/booking/model"
	"unibook/internal/domains/booking/service"
	historyMocks "unibook/internal/domains/history/service/mocks"
	holidayMocks "unibook/internal/domains/holiday/service/mocks"
	roomMocks "unibook/internal/domains/room/mocks"
	roomModel "unibook/internal/domains/room/model"
	userMocks "unibook/internal/domains/user/mocks"
	userModel "unibook/internal/domains/user/model"
	cacheMocks "unibook/shared/cache/mocks"
	"unibook/shared/clock"
	gModel "unibook/shared/model"

	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

const (
	roomID    = "9b2f6f0e-8a4c-4d7e-9d1e-3a5b7c9d1e2f"
	studentID = "student-1"
	otherID   = "student-2"
	adminID   = "admin-1"
	bookingID = "booking-1"
)

var (
	student = userModel.User{ID: studentID, Name: "Sam Student", Role: userModel.RoleStudent, Active: true}
	faculty = userModel.User{ID: otherID, Name: "Fran Faculty", Role: userModel.RoleFaculty, Active: true}
	admin   = userModel.User{ID: adminID, Name: "Ada Admin", Role: userModel.RoleAdmin, Active: true}
	lab     = roomModel.Room{ID: roomID, Name: "Lab 101", Active: true}
)

type fixture struct {
	svc       service.Booking
	validator service.Validator
	repo      *bookingMocks.MockBooking
	users     *userMocks.MockUser
	rooms     *roomMocks.MockRoom
	ledger    *historyMocks.MockLedger
	calendar  *holidayMocks.MockCalendar
	cache     *cacheMocks.MockRedisCache
	cfg       *config.Config
}

func newFixture(t *testing.T, at time.Time) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:     bookingMocks.NewMockBooking(ctrl),
		users:    userMocks.NewMockUser(ctrl),
		rooms:    roomMocks.NewMockRoom(ctrl),
		ledger:   historyMocks.NewMockLedger(ctrl),
		calendar: holidayMocks.NewMockCalendar(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		cfg:      &config.Config{},
	}

	f.cfg.Cache.TTL = 60

	fixed := clock.Fixed{At: at}
	otl := otelMocks.NewOtel()

	f.validator = service.NewValidator(f.calendar, fixed, f.cfg, otl)
	detector := service.NewConflictDetector(f.repo, otl)

	f.svc = service.New(f.repo, f.users, f.rooms, f.ledger, f.validator, detector, postgresMocks.NewTransactor(), f.cfg, f.cache, fixed, otl)

	return f
}

// allowInvalidation accepts the post-commit cache eviction of any write.
func (f *fixture) allowInvalidation() {
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (f *fixture) noHolidays() {
	f.calendar.EXPECT().Between(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
}

func hoursFromNow(h int) time.Time {
	return now.Add(time.Duration(h) * time.Hour)
}

func pendingBooking(owner string, start, end time.Time) model.Booking {
	return model.Booking{
		ID:        bookingID,
		RoomID:    roomID,
		UserID:    owner,
		StartTime: start,
		EndTime:   end,
		Purpose:   "Study group",
		Status:    model.StatusPending,
		Metadata:  gModel.NewMetadata(owner, now.Add(-time.Hour)),
	}
}
