package model

import (
	"time"
)

const (
	EntityName = "report"

	// ExportDirectory is the object storage prefix for generated exports.
	ExportDirectory = "reports"
)

// Row is one history entry flattened with the booking, room and actor it refers to.
type Row struct {
	EntryID    string    `db:"entry_id"`
	BookingID  string    `db:"booking_id"`
	Action     string    `db:"action"`
	Reason     *string   `db:"reason"`
	ActionTime time.Time `db:"action_time"`
	UserID     string    `db:"user_id"`
	UserName   *string   `db:"user_name"`
	RoomID     string    `db:"room_id"`
	RoomName   *string   `db:"room_name"`
	StartTime  time.Time `db:"start_time"`
	EndTime    time.Time `db:"end_time"`
	Status     string    `db:"status"`
}

// CSVHeader lists the export columns in the order Record writes them.
var CSVHeader = []string{
	"entry_id", "booking_id", "room", "user", "action", "reason",
	"action_time", "booking_start", "booking_end", "booking_status",
}

// Record renders the row as CSV fields in CSVHeader order.
func (r Row) Record(format func(time.Time) string) []string {
	return []string{
		r.EntryID,
		r.BookingID,
		deref(r.RoomName),
		deref(r.UserName),
		r.Action,
		deref(r.Reason),
		format(r.ActionTime),
		format(r.StartTime),
		format(r.EndTime),
		r.Status,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
