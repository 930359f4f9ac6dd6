package room

import (
	"net/http"

	"unibook/infras/otel"
	bookingService "unibook/internal/domains/booking/service"
	"unibook/internal/domains/room/model/dto"
	"unibook/internal/domains/room/service"
	"unibook/shared/constant"
	gDto "unibook/shared/dto"
	"unibook/shared/failure"
	"unibook/shared/timezone"
	"unibook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service  service.Room
	bookings bookingService.Booking
	otel     otel.Otel
}

func New(service service.Room, bookings bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		bookings: bookings,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/rooms", handler.GetRooms)
	router.Get("/rooms/availability", handler.GetAvailability)
	router.Get("/rooms/{id}", handler.GetRoomByID)
	router.Get("/rooms/{id}/bookings", handler.GetRoomSchedule)
}

// GetRooms retrieves all rooms based on query parameters.
// @Summary Get all rooms
// @Description Retrieve rooms with optional filtering and pagination.
// @Tags Room
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param building_id query string false "Filter by building"
// @Param active query boolean false "Filter by active status"
// @Param min_capacity query integer false "Minimum capacity"
// @Success 200 {object} response.Data[dto.GetRoomsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
// @Security BearerAuth
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.ListFilter{}
	if err := filter.FromRequest(r); err != nil {
		scope.TraceError(err)
		response.WithError(w, r, err)

		return
	}

	rooms, err := handler.service.GetAll(ctx, queryParams, filter.FilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rooms")

		response.WithError(w, r, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	room, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room by ID")

		response.WithError(w, r, err)

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// GetRoomSchedule lists the active bookings of a room inside a window.
// @Summary Get a room's schedule
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Param start_time query string true "Window start (RFC3339)"
// @Param end_time query string true "Window end (RFC3339)"
// @Success 200 {object} response.Data[dto.ScheduleResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetRoomSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomSchedule")
	defer scope.End()

	var window gDto.TimeRange
	if err := window.FromRequest(r, constant.RequestParamStartTime, constant.RequestParamEndTime, constant.DateFormat); err != nil {
		err = failure.BadRequest(err)
		scope.TraceError(err)
		response.WithError(w, r, err)

		return
	}

	schedule, err := handler.bookings.RoomSchedule(ctx, chi.URLParam(r, constant.RequestParamID), window.Start, window.End)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room schedule")

		response.WithError(w, r, err)

		return
	}

	response.WithJSON(w, http.StatusOK, schedule)
}

// GetAvailability answers whether a room can take a booking for a window.
// @Summary Check room availability
// @Description A missing or inactive room is reported as unavailable.
// @Tags Room
// @Produce json
// @Param room_id query string true "Room ID"
// @Param start_time query string true "Window start (RFC3339)"
// @Param end_time query string true "Window end (RFC3339)"
// @Success 200 {object} response.Data[dto.AvailabilityResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/availability [get]
// @Security BearerAuth
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	roomID := r.URL.Query().Get(constant.RequestParamRoomID)
	if roomID == constant.Empty {
		err := failure.BadRequestFromString("room_id is required")
		scope.TraceError(err)
		response.WithError(w, r, err)

		return
	}

	var window gDto.TimeRange
	if err := window.FromRequest(r, constant.RequestParamStartTime, constant.RequestParamEndTime, constant.DateFormat); err != nil {
		err = failure.BadRequest(err)
		scope.TraceError(err)
		response.WithError(w, r, err)

		return
	}

	available, err := handler.bookings.IsRoomAvailable(ctx, roomID, window.Start, window.End)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check room availability")

		response.WithError(w, r, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.AvailabilityResponse{
		RoomID:    roomID,
		StartTime: timezone.Format(window.Start, constant.DateFormat),
		EndTime:   timezone.Format(window.End, constant.DateFormat),
		Available: available,
	})
}
