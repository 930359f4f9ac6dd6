package holiday

import (
	"net/http"

	"unibook/infras/otel"
	"unibook/internal/domains/holiday/service"
	"unibook/shared/constant"
	gDto "unibook/shared/dto"
	"unibook/shared/failure"
	"unibook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Calendar
	otel    otel.Otel
}

func New(service service.Calendar, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/holidays", handler.GetHolidays)
}

// GetHolidays lists the blackout dates of an inclusive day range.
// @Summary List holidays
// @Tags Holiday
// @Produce json
// @Param start_date query string true "First day (YYYY-MM-DD)"
// @Param end_date query string true "Last day (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetHolidaysResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/holidays [get]
// @Security BearerAuth
func (handler *Handler) GetHolidays(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHolidays")
	defer scope.End()

	var days gDto.TimeRange
	if err := days.FromDayRequest(r, constant.RequestParamStartDate, constant.RequestParamEndDate); err != nil {
		err = failure.BadRequest(err)
		scope.TraceError(err)
		response.WithError(w, r, err)

		return
	}

	holidays, err := handler.service.List(ctx, days.Start, days.End)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list holidays")

		response.WithError(w, r, err)

		return
	}

	response.WithJSON(w, http.StatusOK, holidays)
}
