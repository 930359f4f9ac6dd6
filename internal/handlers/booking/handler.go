package booking

import (
	"net/http"

	"unibook/infras/otel"
	"unibook/internal/domains/booking/model/dto"
	"unibook/internal/domains/booking/service"
	"unibook/shared/constant"
	gDto "unibook/shared/dto"
	"unibook/shared/failure"
	"unibook/shared/principal"
	"unibook/shared/validator"
	"unibook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/bookings", handler.CreateBooking)
	router.Get("/bookings", handler.GetBookings)
	router.Get("/bookings/mybookings", handler.GetMyBookings)
	router.Get("/bookings/history/{id}", handler.GetBookingHistory)
	router.Get("/bookings/{id}", handler.GetBookingByID)
	router.Patch("/bookings/{id}", handler.UpdateBooking)
	router.Patch("/bookings/{id}/approve", handler.ApproveBooking)
	router.Patch("/bookings/{id}/reject", handler.RejectBooking)
	router.Delete("/bookings/{id}", handler.CancelBooking)
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Request a room for a time slot. The booking starts PENDING and waits for admin approval.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	caller, err := principal.Require(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, request, err)

		return
	}

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, request, err)

		return
	}

	booking, err := handler.service.Create(ctx, req, caller.UserID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, request, err)

		return
	}

	scope.AddEvent("Booking created successfully by user " + caller.UserID)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings lists every booking.
// @Summary Get all bookings
// @Description Admin listing with optional room, user, status and time window filters.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room ID"
// @Param user_id query string false "Filter by requester ID"
// @Param status query string false "PENDING, APPROVED, REJECTED, CANCELLED or active"
// @Param start_time query string false "Window start (RFC3339)"
// @Param end_time query string false "Window end (RFC3339)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filter := dto.ListFilter{}
	if err := filter.FromRequest(request); err != nil {
		scope.TraceError(err)
		response.WithError(writer, request, err)

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filter.FilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, request, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetMyBookings lists the caller's bookings.
// @Summary Get my bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room ID"
// @Param status query string false "PENDING, APPROVED, REJECTED, CANCELLED or active"
// @Param start_time query string false "Window start (RFC3339)"
// @Param end_time query string false "Window end (RFC3339)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/mybookings [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	caller, err := principal.Require(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, request, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filter := dto.ListFilter{}
	if err := filter.FromRequest(request); err != nil {
		scope.TraceError(err)
		response.WithError(writer, request, err)

		return
	}

	filter.UserID = caller.UserID

	bookings, err := handler.service.GetAll(ctx, queryParams, filter.FilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user bookings")

		response.WithError(writer, request, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Description Owners see their own bookings; admins see any.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	caller, err := principal.Require(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, request, err)

		return
	}

	booking, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(writer, request, err)

		return
	}

	if !caller.IsAdmin() && booking.UserID != caller.UserID {
		err := failure.Forbidden("user can only view their own bookings")
		scope.TraceError(err)
		response.WithError(writer, request, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// UpdateBooking reschedules a pending booking.
// @Summary Update a booking
// @Description Owner-only; the booking must still be PENDING.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	caller, err := principal.Require(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, request, err)

		return
	}

	req := dto.UpdateBookingRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, request, err)

		return
	}

	booking, err := handler.service.Update(ctx, chi.URLParam(request, constant.RequestParamID), req, caller.UserID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking")

		response.WithError(writer, request, err)

		return
	}

	scope.AddEvent("Booking updated successfully by user " + caller.UserID)

	response.WithJSON(writer, http.StatusOK, booking)
}

// ApproveBooking approves a pending booking.
// @Summary Approve a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/approve [patch]
// @Security BearerAuth
func (handler *Handler) ApproveBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveBooking")
	defer scope.End()

	caller, err := principal.Require(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, request, err)

		return
	}

	booking, err := handler.service.Approve(ctx, chi.URLParam(request, constant.RequestParamID), caller.UserID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve booking")

		response.WithError(writer, request, err)

		return
	}

	scope.AddEvent("Booking approved by admin " + caller.UserID)

	response.WithJSON(writer, http.StatusOK, booking)
}

// RejectBooking rejects a pending booking with a reason.
// @Summary Reject a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.RejectBookingRequest true "Reject Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/reject [patch]
// @Security BearerAuth
func (handler *Handler) RejectBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectBooking")
	defer scope.End()

	caller, err := principal.Require(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, request, err)

		return
	}

	req := dto.RejectBookingRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, request, err)

		return
	}

	booking, err := handler.service.Reject(ctx, chi.URLParam(request, constant.RequestParamID), caller.UserID, req.Reason)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject booking")

		response.WithError(writer, request, err)

		return
	}

	scope.AddEvent("Booking rejected by admin " + caller.UserID)

	response.WithJSON(writer, http.StatusOK, booking)
}

// CancelBooking cancels a booking.
// @Summary Cancel a booking
// @Description Owners may cancel until the booking starts; admins may cancel at any time.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) CancelBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	caller, err := principal.Require(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, request, err)

		return
	}

	booking, err := handler.service.Cancel(ctx, chi.URLParam(request, constant.RequestParamID), caller.UserID, caller.IsAdmin())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(writer, request, err)

		return
	}

	scope.AddEvent("Booking cancelled by user " + caller.UserID)

	response.WithJSON(writer, http.StatusOK, booking)
}

// GetBookingHistory returns the audit trail of a booking.
// @Summary Get booking history
// @Description Owners see the trail of their own bookings; admins see any.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.HistoryResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/history/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingHistory(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingHistory")
	defer scope.End()

	caller, err := principal.Require(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, request, err)

		return
	}

	history, err := handler.service.GetHistory(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking history")

		response.WithError(writer, request, err)

		return
	}

	if !caller.IsAdmin() && history.UserID != caller.UserID {
		err := failure.Forbidden("user can only view the history of their own bookings")
		scope.TraceError(err)
		response.WithError(writer, request, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, history)
}
