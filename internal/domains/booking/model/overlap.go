package model

import (
	"time"

	gDto "unibook/shared/dto"
)

// Slot is a half-open interval [Start, End).
type Slot struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two slots share any instant. Slots that only touch do not overlap.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// ActiveStatuses are the states that hold a room's timeline.
func ActiveStatuses() []string {
	return []string{StatusPending.String(), StatusApproved.String()}
}

// OverlapFilter selects the active bookings of roomID that overlap slot, the SQL form of Slot.Overlaps.
// A non-empty excludeID removes that booking from the comparison set.
func OverlapFilter(roomID string, slot Slot, excludeID string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{
			Field:    FieldRoomID,
			Value:    roomID,
			Operator: gDto.FilterOperatorEq,
			Table:    TableName,
		},
		gDto.Filter{
			Field:    FieldStatus,
			Value:    ActiveStatuses(),
			Operator: gDto.FilterOperatorIn,
			Table:    TableName,
		},
		gDto.Filter{
			ArgName:  "slot_end",
			Field:    FieldStartTime,
			Value:    slot.End,
			Operator: gDto.FilterOperatorLess,
			Table:    TableName,
		},
		gDto.Filter{
			ArgName:  "slot_start",
			Field:    FieldEndTime,
			Value:    slot.Start,
			Operator: gDto.FilterOperatorGreater,
			Table:    TableName,
		},
	}

	if excludeID != "" {
		filters = append(filters, gDto.Filter{
			ArgName:  "exclude_id",
			Field:    FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    TableName,
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}
