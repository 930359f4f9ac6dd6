package dto

import (
	"net/http"
	"strconv"

	bookingDto "unibook/internal/domains/booking/model/dto"
	"unibook/internal/domains/room/model"
	"unibook/shared"
	"unibook/shared/constant"
	gDto "unibook/shared/dto"
	"unibook/shared/failure"
)

type RoomResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	BuildingID   string   `json:"building_id"`
	BuildingName string   `json:"building_name"`
	FloorNumber  int      `json:"floor_number"`
	Capacity     int      `json:"capacity"`
	Active       bool     `json:"active"`
	Features     []string `json:"features"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.BuildingID = model.BuildingID
	r.BuildingName = model.BuildingName
	r.FloorNumber = model.FloorNumber
	r.Capacity = model.Capacity
	r.Active = model.Active

	r.Features = []string{}
	if model.Features != nil {
		r.Features = append(r.Features, model.Features...)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.TotalPages(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// ScheduleResponse is the booking engine's schedule view served under /rooms/{id}/bookings.
type ScheduleResponse = bookingDto.RoomScheduleResponse

// AvailabilityResponse answers whether a room can take a booking for a window.
type AvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

const (
	requestParamName        = "name"
	requestParamBuildingID  = "building_id"
	requestParamActive      = "active"
	requestParamMinCapacity = "min_capacity"
)

// ListFilter carries the optional room list filters read from the query string.
type ListFilter struct {
	Name        string
	BuildingID  string
	Active      *bool
	MinCapacity int
}

func (l *ListFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	l.Name = query.Get(requestParamName)
	l.BuildingID = query.Get(requestParamBuildingID)
	l.Active = shared.OptionalBool(query.Get(requestParamActive))

	if raw := query.Get(requestParamMinCapacity); raw != constant.Empty {
		capacity, err := strconv.Atoi(raw)
		if err != nil || capacity < 0 {
			return failure.BadRequestFromString("min_capacity must be a non-negative integer") //nolint:wrapcheck
		}

		l.MinCapacity = capacity
	}

	return nil
}

func (l *ListFilter) FilterGroup() gDto.FilterGroup {
	filters := []any{}

	if l.Name != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldName, Value: l.Name, Operator: gDto.FilterOperatorLike, Table: model.TableName})
	}

	if l.BuildingID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldBuildingID, Value: l.BuildingID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if l.Active != nil {
		filters = append(filters, gDto.Filter{Field: model.FieldActive, Value: *l.Active, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if l.MinCapacity > 0 {
		filters = append(filters, gDto.Filter{Field: model.FieldCapacity, Value: l.MinCapacity, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}
