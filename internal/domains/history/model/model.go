package model

import (
	"time"

	userModel "unibook/internal/domains/user/model"
)

const (
	TableName  = "booking_history"
	EntityName = "booking_history"

	FieldID         = "id"
	FieldBookingID  = "booking_id"
	FieldUserID     = "user_id"
	FieldAction     = "action"
	FieldReason     = "reason"
	FieldActionTime = "action_time"
)

// Action tags one lifecycle transition of a booking.
type Action string

const (
	ActionCreated   Action = "CREATED"
	ActionUpdated   Action = "UPDATED"
	ActionApproved  Action = "APPROVED"
	ActionRejected  Action = "REJECTED"
	ActionCancelled Action = "CANCELLED"
)

func (a Action) String() string {
	return string(a)
}

// Entry is an immutable audit record. UserName is joined from users on read and never written.
type Entry struct {
	ID         string    `db:"id"`
	BookingID  string    `db:"booking_id"`
	UserID     string    `db:"user_id"`
	UserName   string    `db:"user_name" table:"users" column:"name"`
	Action     Action    `db:"action"`
	Reason     *string   `db:"reason"`
	ActionTime time.Time `db:"action_time"`
}

func (Entry) GetJoinQuery() string {
	return "LEFT JOIN " + userModel.TableName + " ON " + userModel.TableName + ".id = " + TableName + ".user_id"
}

// ReasonText returns the reason or "" when none was recorded.
func (e Entry) ReasonText() string {
	if e.Reason == nil {
		return ""
	}

	return *e.Reason
}
