package report

import (
	"net/http"

	"unibook/infras/otel"
	"unibook/internal/domains/report/model/dto"
	"unibook/internal/domains/report/service"
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
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/reports/history", handler.GetHistoryByRange)
	router.Get("/reports/history/users/{id}", handler.GetHistoryByUser)
	router.Post("/reports/history/export", handler.ExportHistory)
}

// GetHistoryByRange lists every lifecycle transition recorded inside a window.
// @Summary History report by time range
// @Tags Report
// @Produce json
// @Param start_time query string true "Window start (RFC3339)"
// @Param end_time query string true "Window end (RFC3339)"
// @Success 200 {object} response.Data[dto.HistoryReportResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/history [get]
// @Security BearerAuth
func (handler *Handler) GetHistoryByRange(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHistoryByRange")
	defer scope.End()

	var window gDto.TimeRange
	if err := window.FromRequest(r, constant.RequestParamStartTime, constant.RequestParamEndTime, constant.DateFormat); err != nil {
		err = failure.BadRequest(err)
		scope.TraceError(err)
		response.WithError(w, r, err)

		return
	}

	report, err := handler.service.HistoryByRange(ctx, window.Start, window.End)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get history report")

		response.WithError(w, r, err)

		return
	}

	response.WithJSON(w, http.StatusOK, report)
}

// GetHistoryByUser lists every transition performed by one user.
// @Summary History report by actor
// @Tags Report
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.HistoryReportResponse]
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/history/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetHistoryByUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHistoryByUser")
	defer scope.End()

	report, err := handler.service.HistoryByUser(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user history report")

		response.WithError(w, r, err)

		return
	}

	response.WithJSON(w, http.StatusOK, report)
}

// ExportHistory writes the history of a window to CSV in object storage.
// @Summary Export history as CSV
// @Tags Report
// @Accept json
// @Produce json
// @Param request body dto.ExportRequest true "Export window"
// @Success 201 {object} response.Data[dto.ExportResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/history/export [post]
// @Security BearerAuth
func (handler *Handler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportHistory")
	defer scope.End()

	caller, err := principal.Require(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, r, err)

		return
	}

	req := dto.ExportRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, r, err)

		return
	}

	export, err := handler.service.ExportHistory(ctx, req, caller.UserID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export history report")

		response.WithError(w, r, err)

		return
	}

	scope.AddEvent("History report exported by " + caller.UserID)

	response.WithJSON(w, http.StatusCreated, export)
}
