package router

import (
	"unibook/internal/handlers/booking"
	"unibook/internal/handlers/holiday"
	"unibook/internal/handlers/report"
	"unibook/internal/handlers/room"

	"github.com/go-chi/chi/v5"
)

const apiVersion = "/v1"

type DomainHandlers struct {
	Booking booking.Handler
	Room    room.Handler
	Holiday holiday.Handler
	Report  report.Handler
}

type mounter interface {
	Router(router chi.Router)
}

type Router struct {
	DomainHandlers DomainHandlers
}

func New(domainHandlers DomainHandlers) Router {
	return Router{DomainHandlers: domainHandlers}
}

// SetupRoutes mounts every domain under the versioned prefix. Route patterns here must match permissions.json.
func (r *Router) SetupRoutes(router chi.Router) {
	handlers := []mounter{
		&r.DomainHandlers.Booking,
		&r.DomainHandlers.Room,
		&r.DomainHandlers.Holiday,
		&r.DomainHandlers.Report,
	}

	router.Route(apiVersion, func(versioned chi.Router) {
		for _, handler := range handlers {
			handler.Router(versioned)
		}
	})
}
