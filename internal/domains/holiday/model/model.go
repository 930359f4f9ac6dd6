package model

import (
	"time"

	"unibook/shared/constant"
	"unibook/shared/model"
)

const (
	TableName  = "holidays"
	EntityName = "holiday"

	FieldID   = "id"
	FieldDate = "date"
	FieldName = "name"
)

// Holiday is a calendar date on which rooms cannot be booked.
type Holiday struct {
	ID   string    `db:"id"   json:"id"`
	Date time.Time `db:"date" json:"date"`
	Name string    `db:"name" json:"name"`
	model.Metadata
}

// Day returns the holiday's calendar date as stored, without timezone conversion.
func (h Holiday) Day() string {
	return h.Date.Format(constant.DayFormat)
}
