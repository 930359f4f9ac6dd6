package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"unibook/internal/domains/booking/model"
	"unibook/internal/domains/booking/model/dto"
	historyModel "unibook/internal/domains/history/model"
	holidayModel "unibook/internal/domains/holiday/model"
	roomModel "unibook/internal/domains/room/model"
	userModel "unibook/internal/domains/user/model"
	"unibook/shared"
	"unibook/shared/constant"
	"unibook/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func createRequest(start, end time.Time) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:    roomID,
		StartTime: start.Format(constant.DateFormat),
		EndTime:   end.Format(constant.DateFormat),
		Purpose:   "Study group",
	}
}

func expectEntry(t *testing.T, action historyModel.Action, actor, reason string) func(context.Context, *sqlx.Tx, historyModel.Entry) error {
	t.Helper()

	return func(_ context.Context, _ *sqlx.Tx, entry historyModel.Entry) error {
		assert.NotEmpty(t, entry.BookingID)
		assert.Equal(t, action, entry.Action)
		assert.Equal(t, actor, entry.UserID)
		require.NotNil(t, entry.Reason)
		assert.Equal(t, reason, *entry.Reason)

		return nil
	}
}

func TestBookingService_Create(t *testing.T) {
	start, end := hoursFromNow(24), hoursFromNow(26)

	t.Run("creates a pending booking and records it", func(t *testing.T) {
		f := newFixture(t, now)
		f.allowInvalidation()

		var inserted model.Booking

		gomock.InOrder(
			f.repo.EXPECT().LockRoomTimelineTx(gomock.Any(), gomock.Nil(), roomID).Return(nil),
			f.repo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Nil(), roomID, gomock.Any(), "").Return(false, nil),
			f.calendar.EXPECT().Between(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil),
			f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Nil(), studentID).Return(student, nil),
			f.rooms.EXPECT().GetTx(gomock.Any(), gomock.Nil(), shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName)).Return(lab, nil),
			f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Nil(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
				inserted = booking

				return nil
			}),
			f.ledger.EXPECT().Append(gomock.Any(), gomock.Nil(), gomock.Any()).DoAndReturn(expectEntry(t, historyModel.ActionCreated, studentID, "Booking created")),
		)

		res, err := f.svc.Create(context.Background(), createRequest(start, end), studentID)

		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, inserted.Status)
		assert.Equal(t, studentID, inserted.UserID)
		assert.Equal(t, now, inserted.CreatedAt)
		assert.True(t, inserted.StartTime.Equal(start))
		assert.True(t, inserted.EndTime.Equal(end))
		assert.Equal(t, inserted.ID, res.ID)
		assert.Equal(t, "PENDING", res.Status)
		assert.Equal(t, "Lab 101", res.RoomName)
		assert.Equal(t, "Sam Student", res.UserName)
	})

	t.Run("overlapping active booking is a conflict", func(t *testing.T) {
		f := newFixture(t, now)

		f.repo.EXPECT().LockRoomTimelineTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").Return(true, nil)

		_, err := f.svc.Create(context.Background(), createRequest(start, end), studentID)

		require.Error(t, err)
		assert.Equal(t, failure.KindConflict, failure.GetKind(err))
		assert.Equal(t, "room is not available for the specified time period", err.Error())
	})

	t.Run("invalid dates never reach the store", func(t *testing.T) {
		f := newFixture(t, now)

		_, err := f.svc.Create(context.Background(), createRequest(now.Add(-time.Hour), now.Add(time.Hour)), studentID)

		require.Error(t, err)
		assert.Equal(t, failure.KindInvalidDate, failure.GetKind(err))
		assert.Equal(t, "start time cannot be in the past", err.Error())
	})

	t.Run("malformed timestamp is a bad request", func(t *testing.T) {
		f := newFixture(t, now)

		req := createRequest(start, end)
		req.StartTime = "next monday"

		_, err := f.svc.Create(context.Background(), req, studentID)

		assert.Equal(t, failure.KindBadRequest, failure.GetKind(err))
	})

	t.Run("holiday inside the slot", func(t *testing.T) {
		f := newFixture(t, now)

		f.repo.EXPECT().LockRoomTimelineTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").Return(false, nil)
		f.calendar.EXPECT().Between(gomock.Any(), gomock.Any(), gomock.Any()).Return([]holidayModel.Holiday{{ID: "h1", Name: "Founders Day"}}, nil)

		_, err := f.svc.Create(context.Background(), createRequest(start, end), studentID)

		require.Error(t, err)
		assert.Equal(t, failure.KindInvalidDate, failure.GetKind(err))
		assert.Equal(t, "cannot book on holidays: Founders Day", err.Error())
	})

	t.Run("unknown requester", func(t *testing.T) {
		f := newFixture(t, now)
		f.noHolidays()

		f.repo.EXPECT().LockRoomTimelineTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").Return(false, nil)
		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		_, err := f.svc.Create(context.Background(), createRequest(start, end), studentID)

		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
		assert.Equal(t, "user not found", err.Error())
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newFixture(t, now)
		f.noHolidays()

		f.repo.EXPECT().LockRoomTimelineTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").Return(false, nil)
		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(student, nil)
		f.rooms.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)

		_, err := f.svc.Create(context.Background(), createRequest(start, end), studentID)

		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
		assert.Equal(t, "room not found", err.Error())
	})

	t.Run("inactive room", func(t *testing.T) {
		f := newFixture(t, now)
		f.noHolidays()

		closed := lab
		closed.Active = false

		f.repo.EXPECT().LockRoomTimelineTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").Return(false, nil)
		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(student, nil)
		f.rooms.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(closed, nil)

		_, err := f.svc.Create(context.Background(), createRequest(start, end), studentID)

		assert.Equal(t, failure.KindInvalidState, failure.GetKind(err))
		assert.Equal(t, "room is not active", err.Error())
	})

	t.Run("exclusion constraint surfaces as a conflict", func(t *testing.T) {
		f := newFixture(t, now)
		f.noHolidays()

		f.repo.EXPECT().LockRoomTimelineTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").Return(false, nil)
		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(student, nil)
		f.rooms.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(lab, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(failure.Conflict("room is not available for the specified time period"))

		_, err := f.svc.Create(context.Background(), createRequest(start, end), studentID)

		assert.Equal(t, failure.KindConflict, failure.GetKind(err))
	})

	t.Run("history failure aborts the create", func(t *testing.T) {
		f := newFixture(t, now)
		f.noHolidays()

		f.repo.EXPECT().LockRoomTimelineTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "").Return(false, nil)
		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(student, nil)
		f.rooms.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(lab, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.ledger.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err := f.svc.Create(context.Background(), createRequest(start, end), studentID)

		require.Error(t, err)
		assert.Equal(t, failure.KindInternal, failure.GetKind(err))
	})
}

func TestBookingService_Update(t *testing.T) {
	start, end := hoursFromNow(24), hoursFromNow(26)
	newStart, newEnd := hoursFromNow(30), hoursFromNow(31)

	req := dto.UpdateBookingRequest{
		StartTime: newStart.Format(constant.DateFormat),
		EndTime:   newEnd.Format(constant.DateFormat),
		Purpose:   " Thesis rehearsal ",
	}

	t.Run("moves a pending booking excluding itself from the conflict check", func(t *testing.T) {
		f := newFixture(t, now)
		f.allowInvalidation()
		f.noHolidays()

		gomock.InOrder(
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Nil(), shared.FilterByID(bookingID, model.FieldID, model.TableName)).Return(pendingBooking(studentID, start, end), nil),
			f.repo.EXPECT().LockRoomTimelineTx(gomock.Any(), gomock.Nil(), roomID).Return(nil),
			f.repo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Nil(), roomID, gomock.Any(), bookingID).Return(false, nil),
			f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Nil(), gomock.Any(), shared.FilterByID(bookingID, model.FieldID, model.TableName)).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod map[string]any, _ any) error {
					assert.True(t, newStart.Equal(mod[model.FieldStartTime].(time.Time)))
					assert.True(t, newEnd.Equal(mod[model.FieldEndTime].(time.Time)))
					assert.Equal(t, "Thesis rehearsal", mod[model.FieldPurpose])
					assert.Equal(t, studentID, mod[model.FieldModifiedBy])
					assert.NotContains(t, mod, model.FieldStatus)
					assert.NotContains(t, mod, model.FieldCreatedAt)

					return nil
				}),
			f.ledger.EXPECT().Append(gomock.Any(), gomock.Nil(), gomock.Any()).DoAndReturn(expectEntry(t, historyModel.ActionUpdated, studentID, "Booking updated")),
		)

		res, err := f.svc.Update(context.Background(), bookingID, req, studentID)

		require.NoError(t, err)
		assert.Equal(t, "PENDING", res.Status)
		assert.Equal(t, "Thesis rehearsal", res.Purpose)
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newFixture(t, now)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Update(context.Background(), bookingID, req, studentID)

		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})

	t.Run("someone else's booking", func(t *testing.T) {
		f := newFixture(t, now)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pendingBooking(studentID, start, end), nil)

		_, err := f.svc.Update(context.Background(), bookingID, req, otherID)

		assert.Equal(t, failure.KindForbidden, failure.GetKind(err))
		assert.Equal(t, "user can only update their own bookings", err.Error())
	})

	t.Run("approved bookings are frozen", func(t *testing.T) {
		f := newFixture(t, now)

		approved := pendingBooking(studentID, start, end)
		approved.Status = model.StatusApproved

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(approved, nil)

		_, err := f.svc.Update(context.Background(), bookingID, req, studentID)

		assert.Equal(t, failure.KindForbidden, failure.GetKind(err))
		assert.Equal(t, "only pending bookings can be updated", err.Error())
	})

	t.Run("new slot in the past", func(t *testing.T) {
		f := newFixture(t, now)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pendingBooking(studentID, start, end), nil)

		past := dto.UpdateBookingRequest{
			StartTime: now.Add(-time.Hour).Format(constant.DateFormat),
			EndTime:   now.Format(constant.DateFormat),
			Purpose:   "Study group",
		}

		_, err := f.svc.Update(context.Background(), bookingID, past, studentID)

		assert.Equal(t, failure.KindInvalidDate, failure.GetKind(err))
	})

	t.Run("new slot collides with another booking", func(t *testing.T) {
		f := newFixture(t, now)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pendingBooking(studentID, start, end), nil)
		f.repo.EXPECT().LockRoomTimelineTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), bookingID).Return(true, nil)

		_, err := f.svc.Update(context.Background(), bookingID, req, studentID)

		assert.Equal(t, failure.KindConflict, failure.GetKind(err))
	})
}

func TestBookingService_Approve(t *testing.T) {
	start, end := hoursFromNow(24), hoursFromNow(26)

	t.Run("approves a pending booking", func(t *testing.T) {
		f := newFixture(t, now)
		f.allowInvalidation()

		gomock.InOrder(
			f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Nil(), adminID).Return(admin, nil),
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(pendingBooking(studentID, start, end), nil),
			f.repo.EXPECT().LockRoomTimelineTx(gomock.Any(), gomock.Nil(), roomID).Return(nil),
			f.repo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Nil(), roomID, model.Slot{Start: start, End: end}, bookingID).Return(false, nil),
			f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod map[string]any, _ any) error {
					assert.Equal(t, model.StatusApproved, mod[model.FieldStatus])
					assert.Equal(t, adminID, mod[model.FieldModifiedBy])

					return nil
				}),
			f.ledger.EXPECT().Append(gomock.Any(), gomock.Nil(), gomock.Any()).DoAndReturn(expectEntry(t, historyModel.ActionApproved, adminID, "Booking approved by admin")),
		)

		res, err := f.svc.Approve(context.Background(), bookingID, adminID)

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", res.Status)
	})

	t.Run("unknown admin", func(t *testing.T) {
		f := newFixture(t, now)
		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), adminID).Return(userModel.User{}, nil)

		_, err := f.svc.Approve(context.Background(), bookingID, adminID)

		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
		assert.Equal(t, "admin user not found", err.Error())
	})

	t.Run("faculty cannot approve", func(t *testing.T) {
		f := newFixture(t, now)
		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(faculty, nil)

		_, err := f.svc.Approve(context.Background(), bookingID, otherID)

		assert.Equal(t, failure.KindForbidden, failure.GetKind(err))
		assert.Equal(t, "only admins can approve bookings", err.Error())
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newFixture(t, now)
		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(admin, nil)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Approve(context.Background(), bookingID, adminID)

		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
		assert.Equal(t, "booking not found", err.Error())
	})

	t.Run("second approval is refused without a history entry", func(t *testing.T) {
		f := newFixture(t, now)

		approved := pendingBooking(studentID, start, end)
		approved.Status = model.StatusApproved

		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(admin, nil)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(approved, nil)

		_, err := f.svc.Approve(context.Background(), bookingID, adminID)

		assert.Equal(t, failure.KindInvalidState, failure.GetKind(err))
		assert.Equal(t, "only pending bookings can be approved", err.Error())
	})

	t.Run("slot taken since the request", func(t *testing.T) {
		f := newFixture(t, now)
		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(admin, nil)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pendingBooking(studentID, start, end), nil)
		f.repo.EXPECT().LockRoomTimelineTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().HasOverlapTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), bookingID).Return(true, nil)

		_, err := f.svc.Approve(context.Background(), bookingID, adminID)

		assert.Equal(t, failure.KindConflict, failure.GetKind(err))
		assert.Equal(t, "room is no longer available for the specified time period", err.Error())
	})
}

func TestBookingService_Reject(t *testing.T) {
	start, end := hoursFromNow(24), hoursFromNow(26)

	t.Run("rejects with the admin's reason", func(t *testing.T) {
		f := newFixture(t, now)
		f.allowInvalidation()

		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(admin, nil)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pendingBooking(studentID, start, end), nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod map[string]any, _ any) error {
				assert.Equal(t, model.StatusRejected, mod[model.FieldStatus])

				return nil
			})
		f.ledger.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(expectEntry(t, historyModel.ActionRejected, adminID, "Booking rejected: Room under maintenance"))

		res, err := f.svc.Reject(context.Background(), bookingID, adminID, "Room under maintenance")

		require.NoError(t, err)
		assert.Equal(t, "REJECTED", res.Status)
	})

	t.Run("student cannot reject", func(t *testing.T) {
		f := newFixture(t, now)
		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(student, nil)

		_, err := f.svc.Reject(context.Background(), bookingID, studentID, "no")

		assert.Equal(t, failure.KindForbidden, failure.GetKind(err))
	})

	t.Run("only pending bookings", func(t *testing.T) {
		f := newFixture(t, now)

		cancelled := pendingBooking(studentID, start, end)
		cancelled.Status = model.StatusCancelled

		f.users.EXPECT().GetByIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(admin, nil)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(cancelled, nil)

		_, err := f.svc.Reject(context.Background(), bookingID, adminID, "late")

		assert.Equal(t, failure.KindInvalidState, failure.GetKind(err))
		assert.Equal(t, "only pending bookings can be rejected", err.Error())
	})
}

func TestBookingService_Cancel(t *testing.T) {
	start, end := hoursFromNow(24), hoursFromNow(26)

	tests := []struct {
		name       string
		at         time.Time
		status     model.Status
		actor      string
		isAdmin    bool
		wantKind   failure.Kind
		wantErrMsg string
		wantReason string
	}{
		{
			name:       "owner cancels a pending booking",
			at:         now,
			status:     model.StatusPending,
			actor:      studentID,
			wantReason: "cancelled by user",
		},
		{
			name:       "owner cancels an approved booking",
			at:         now,
			status:     model.StatusApproved,
			actor:      studentID,
			wantReason: "cancelled by user",
		},
		{
			name:       "owner cancels exactly at start",
			at:         start,
			status:     model.StatusApproved,
			actor:      studentID,
			wantReason: "cancelled by user",
		},
		{
			name:       "owner one nanosecond after start",
			at:         start.Add(time.Nanosecond),
			status:     model.StatusApproved,
			actor:      studentID,
			wantKind:   failure.KindForbidden,
			wantErrMsg: "cannot cancel after start time",
		},
		{
			name:       "admin cancels after start",
			at:         end,
			status:     model.StatusApproved,
			actor:      adminID,
			isAdmin:    true,
			wantReason: "cancelled by admin",
		},
		{
			name:       "stranger",
			at:         now,
			status:     model.StatusPending,
			actor:      otherID,
			wantKind:   failure.KindForbidden,
			wantErrMsg: "user can only cancel their own bookings",
		},
		{
			name:       "already rejected",
			at:         now,
			status:     model.StatusRejected,
			actor:      studentID,
			wantKind:   failure.KindInvalidState,
			wantErrMsg: "booking cannot be cancelled in current status: REJECTED",
		},
		{
			name:       "admin cannot revive a cancelled booking",
			at:         now,
			status:     model.StatusCancelled,
			actor:      adminID,
			isAdmin:    true,
			wantKind:   failure.KindInvalidState,
			wantErrMsg: "booking cannot be cancelled in current status: CANCELLED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.at)

			booking := pendingBooking(studentID, start, end)
			booking.Status = tt.status

			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)

			if tt.wantErrMsg == "" {
				f.allowInvalidation()
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod map[string]any, _ any) error {
						assert.Equal(t, model.StatusCancelled, mod[model.FieldStatus])

						return nil
					})
				f.ledger.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(expectEntry(t, historyModel.ActionCancelled, tt.actor, tt.wantReason))
			}

			res, err := f.svc.Cancel(context.Background(), bookingID, tt.actor, tt.isAdmin)

			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
				assert.Equal(t, tt.wantErrMsg, err.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "CANCELLED", res.Status)
		})
	}
}

func TestBookingService_IsRoomAvailable(t *testing.T) {
	start, end := hoursFromNow(24), hoursFromNow(26)

	t.Run("free room", func(t *testing.T) {
		f := newFixture(t, now)
		f.rooms.EXPECT().Get(gomock.Any(), shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName)).Return(lab, nil)
		f.repo.EXPECT().HasOverlap(gomock.Any(), roomID, model.Slot{Start: start, End: end}, "").Return(false, nil)

		available, err := f.svc.IsRoomAvailable(context.Background(), roomID, start, end)

		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("booked room", func(t *testing.T) {
		f := newFixture(t, now)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(lab, nil)
		f.repo.EXPECT().HasOverlap(gomock.Any(), roomID, gomock.Any(), "").Return(true, nil)

		available, err := f.svc.IsRoomAvailable(context.Background(), roomID, start, end)

		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("missing room is unavailable, not an error", func(t *testing.T) {
		f := newFixture(t, now)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)

		available, err := f.svc.IsRoomAvailable(context.Background(), roomID, start, end)

		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("inactive room", func(t *testing.T) {
		f := newFixture(t, now)

		closed := lab
		closed.Active = false

		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(closed, nil)

		available, err := f.svc.IsRoomAvailable(context.Background(), roomID, start, end)

		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("inverted window", func(t *testing.T) {
		f := newFixture(t, now)

		_, err := f.svc.IsRoomAvailable(context.Background(), roomID, end, start)

		assert.Equal(t, failure.KindInvalidDate, failure.GetKind(err))
	})
}

func TestBookingService_GetHistory(t *testing.T) {
	t.Run("returns entries in ledger order", func(t *testing.T) {
		f := newFixture(t, now)

		created, approved := "Booking created", "Booking approved by admin"

		f.repo.EXPECT().Get(gomock.Any(), shared.FilterByID(bookingID, model.FieldID, model.TableName), model.FieldID, model.FieldUserID).
			Return(model.Booking{ID: bookingID, UserID: studentID}, nil)
		f.ledger.EXPECT().FindByBooking(gomock.Any(), bookingID).Return([]historyModel.Entry{
			{Action: historyModel.ActionCreated, Reason: &created, UserName: "Sam Student", ActionTime: now},
			{Action: historyModel.ActionApproved, Reason: &approved, UserName: "Ada Admin", ActionTime: now.Add(time.Hour)},
		}, nil)

		res, err := f.svc.GetHistory(context.Background(), bookingID)

		require.NoError(t, err)
		assert.Equal(t, studentID, res.UserID)
		require.Len(t, res.Entries, 2)
		assert.Equal(t, "CREATED", res.Entries[0].Action)
		assert.Equal(t, "Sam Student", res.Entries[0].User)
		assert.Equal(t, "APPROVED", res.Entries[1].Action)
		assert.Equal(t, approved, *res.Entries[1].Reason)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t, now)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.GetHistory(context.Background(), bookingID)

		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})

	t.Run("no entries encode as an empty list", func(t *testing.T) {
		f := newFixture(t, now)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{ID: bookingID}, nil)
		f.ledger.EXPECT().FindByBooking(gomock.Any(), bookingID).Return(nil, nil)

		res, err := f.svc.GetHistory(context.Background(), bookingID)

		require.NoError(t, err)
		assert.NotNil(t, res.Entries)
		assert.Empty(t, res.Entries)
	})
}

func TestBookingService_Get(t *testing.T) {
	cacheKey := "booking:get:" + bookingID

	t.Run("cache hit skips the store", func(t *testing.T) {
		f := newFixture(t, now)
		f.cache.EXPECT().Get(gomock.Any(), cacheKey, gomock.Any()).Return(nil)

		_, err := f.svc.Get(context.Background(), bookingID)

		assert.NoError(t, err)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		f := newFixture(t, now)

		booking := pendingBooking(studentID, hoursFromNow(1), hoursFromNow(2))
		booking.RoomName = "Lab 101"

		f.cache.EXPECT().Get(gomock.Any(), cacheKey, gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.cache.EXPECT().Save(gomock.Any(), cacheKey, gomock.Any(), 60).Return(nil)

		res, err := f.svc.Get(context.Background(), bookingID)

		require.NoError(t, err)
		assert.Equal(t, bookingID, res.ID)
		assert.Equal(t, "Lab 101", res.RoomName)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t, now)
		f.cache.EXPECT().Get(gomock.Any(), cacheKey, gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Get(context.Background(), bookingID)

		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})
}

func TestBookingService_RoomSchedule(t *testing.T) {
	start, end := hoursFromNow(0), hoursFromNow(48)

	t.Run("lists active bookings in the window", func(t *testing.T) {
		f := newFixture(t, now)

		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any(), roomModel.FieldID).Return(roomModel.Room{ID: roomID}, nil)
		f.repo.EXPECT().FindOverlapping(gomock.Any(), roomID, model.Slot{Start: start, End: end}).Return([]model.Booking{
			pendingBooking(studentID, hoursFromNow(1), hoursFromNow(2)),
		}, nil)

		res, err := f.svc.RoomSchedule(context.Background(), roomID, start, end)

		require.NoError(t, err)
		assert.Equal(t, roomID, res.RoomID)
		assert.Len(t, res.Bookings, 1)
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newFixture(t, now)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any(), roomModel.FieldID).Return(roomModel.Room{}, nil)

		_, err := f.svc.RoomSchedule(context.Background(), roomID, start, end)

		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})
}
