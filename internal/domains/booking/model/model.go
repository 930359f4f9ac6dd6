package model

import (
	"time"

	roomModel "unibook/internal/domains/room/model"
	userModel "unibook/internal/domains/user/model"
	"unibook/shared/model"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldRoomID     = "room_id"
	FieldUserID     = "user_id"
	FieldStartTime  = "start_time"
	FieldEndTime    = "end_time"
	FieldPurpose    = "purpose"
	FieldStatus     = "status"
	FieldCreatedAt  = "created_at"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus accepts the canonical upper-case names only.
func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return Status(value), true
	default:
		return "", false
	}
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports a state with no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// IsMutable reports whether time and purpose may still be edited.
func (s Status) IsMutable() bool {
	return s == StatusPending
}

func (s Status) IsCancellable() bool {
	return s == StatusPending || s == StatusApproved
}

// IsActive reports whether the booking occupies its room's timeline.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

type Booking struct {
	ID        string    `db:"id"`
	RoomID    string    `db:"room_id"`
	RoomName  string    `db:"room_name" table:"rooms" column:"name"`
	UserID    string    `db:"user_id"`
	UserName  string    `db:"user_name" table:"users" column:"name"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Purpose   string    `db:"purpose"`
	Status    Status    `db:"status"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN " + roomModel.TableName + " ON " + roomModel.TableName + ".id = " + TableName + ".room_id " +
		"LEFT JOIN " + userModel.TableName + " ON " + userModel.TableName + ".id = " + TableName + ".user_id"
}

func (b Booking) Slot() Slot {
	return Slot{Start: b.StartTime, End: b.EndTime}
}

func (b Booking) IsOwnedBy(userID string) bool {
	return b.UserID == userID
}

// Schedule is the editable part of a pending booking.
type Schedule struct {
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Purpose   string    `db:"purpose"`
}

// Transition is a status change.
type Transition struct {
	Status Status `db:"status"`
}
