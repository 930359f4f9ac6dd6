package dto

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"unibook/internal/domains/booking/model"
	historyDto "unibook/internal/domains/history/model/dto"
	"unibook/shared"
	"unibook/shared/constant"
	gDto "unibook/shared/dto"
	"unibook/shared/failure"
	gModel "unibook/shared/model"
	"unibook/shared/timezone"

	"github.com/google/uuid"
)

// StatusActive is a list filter value matching every status that holds the timeline.
const StatusActive = "active"

type CreateBookingRequest struct {
	RoomID    string `json:"room_id"    validate:"required,uuid"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time"   validate:"required"`
	Purpose   string `json:"purpose"    validate:"required,notblank,max=500"`
}

// Slot parses the requested window. Times are RFC3339; a missing offset is not accepted.
func (c *CreateBookingRequest) Slot() (model.Slot, error) {
	return parseSlot(c.StartTime, c.EndTime)
}

func (c *CreateBookingRequest) ToModel(userID string, slot model.Slot, now time.Time) model.Booking {
	return model.Booking{
		ID:        uuid.NewString(),
		RoomID:    c.RoomID,
		UserID:    userID,
		StartTime: slot.Start,
		EndTime:   slot.End,
		Purpose:   strings.TrimSpace(c.Purpose),
		Status:    model.StatusPending,
		Metadata:  gModel.NewMetadata(userID, now),
	}
}

// UpdateBookingRequest replaces the time window and purpose of a pending booking.
type UpdateBookingRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time"   validate:"required"`
	Purpose   string `json:"purpose"    validate:"required,notblank,max=500"`
}

func (u *UpdateBookingRequest) Slot() (model.Slot, error) {
	return parseSlot(u.StartTime, u.EndTime)
}

type RejectBookingRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=500"`
}

func parseSlot(rawStart, rawEnd string) (model.Slot, error) {
	start, err := timezone.Parse(constant.DateFormat, rawStart)
	if err != nil {
		return model.Slot{}, failure.BadRequestFromString(fmt.Sprintf("start_time must be an RFC3339 timestamp: %s", rawStart)) //nolint:wrapcheck
	}

	end, err := timezone.Parse(constant.DateFormat, rawEnd)
	if err != nil {
		return model.Slot{}, failure.BadRequestFromString(fmt.Sprintf("end_time must be an RFC3339 timestamp: %s", rawEnd)) //nolint:wrapcheck
	}

	return model.Slot{Start: start, End: end}, nil
}

type BookingResponse struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	RoomName  string `json:"room_name,omitempty"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Purpose   string `json:"purpose"`
	Status    string `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.RoomName = model.RoomName
	r.UserID = model.UserID
	r.UserName = model.UserName
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.Purpose = model.Purpose
	r.Status = model.Status.String()
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.TotalPages(totalData, limit)

	r.Bookings = FromModels(models)
}

func FromModels(models []model.Booking) []BookingResponse {
	res := make([]BookingResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

type HistoryResponse struct {
	BookingID string                     `json:"booking_id"`
	UserID    string                     `json:"user_id"`
	Entries   []historyDto.EntryResponse `json:"entries"`
}

// RoomScheduleResponse lists the active bookings of a room inside a window.
type RoomScheduleResponse struct {
	RoomID    string            `json:"room_id"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	Bookings  []BookingResponse `json:"bookings"`
}

// ListFilter carries the optional booking list filters read from the query string.
type ListFilter struct {
	RoomID string
	UserID string
	Status string
	Window *model.Slot
}

// FromRequest reads room_id, user_id, status and an optional start_time/end_time window.
// Status accepts a BookingStatus name or "active".
func (l *ListFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	l.RoomID = query.Get(constant.RequestParamRoomID)
	l.UserID = query.Get(constant.RequestParamUserID)

	if status := query.Get(constant.RequestParamStatus); status != constant.Empty {
		if _, ok := model.ParseStatus(strings.ToUpper(status)); !ok && !strings.EqualFold(status, StatusActive) {
			return failure.BadRequestFromString(fmt.Sprintf("invalid status: %s", status)) //nolint:wrapcheck
		}

		l.Status = strings.ToUpper(status)
	}

	if query.Has(constant.RequestParamStartTime) || query.Has(constant.RequestParamEndTime) {
		var window gDto.TimeRange
		if err := window.FromRequest(r, constant.RequestParamStartTime, constant.RequestParamEndTime, constant.DateFormat); err != nil {
			return failure.BadRequest(err) //nolint:wrapcheck
		}

		l.Window = &model.Slot{Start: window.Start, End: window.End}
	}

	return nil
}

// FilterGroup converts the filter into the repository where-clause form.
func (l *ListFilter) FilterGroup() gDto.FilterGroup {
	filters := []any{}

	if l.RoomID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldRoomID, Value: l.RoomID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if l.UserID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldUserID, Value: l.UserID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	switch {
	case strings.EqualFold(l.Status, StatusActive):
		filters = append(filters, gDto.Filter{Field: model.FieldStatus, Value: model.ActiveStatuses(), Operator: gDto.FilterOperatorIn, Table: model.TableName})
	case l.Status != constant.Empty:
		filters = append(filters, gDto.Filter{Field: model.FieldStatus, Value: l.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if l.Window != nil {
		filters = append(filters,
			gDto.Filter{ArgName: "window_end", Field: model.FieldStartTime, Value: l.Window.End, Operator: gDto.FilterOperatorLess, Table: model.TableName},
			gDto.Filter{ArgName: "window_start", Field: model.FieldEndTime, Value: l.Window.Start, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
		)
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}
