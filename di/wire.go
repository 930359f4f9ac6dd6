//go:build wireinject
// +build wireinject

package di

import (
	"unibook/config"
	"unibook/infras/jwt"
	"unibook/infras/otel"
	"unibook/infras/postgres"
	"unibook/infras/redis"
	"unibook/infras/s3"
	"unibook/permissions"
	"unibook/shared/cache"
	"unibook/shared/clock"
	"unibook/transport/http"
	"unibook/transport/http/middleware"
	"unibook/transport/http/router"

	bookingRepository "unibook/internal/domains/booking/repository"
	bookingService "unibook/internal/domains/booking/service"
	historyRepository "unibook/internal/domains/history/repository"
	historyService "unibook/internal/domains/history/service"
	holidayRepository "unibook/internal/domains/holiday/repository"
	holidayService "unibook/internal/domains/holiday/service"
	reportRepository "unibook/internal/domains/report/repository"
	reportService "unibook/internal/domains/report/service"
	roomRepository "unibook/internal/domains/room/repository"
	roomService "unibook/internal/domains/room/service"
	userRepository "unibook/internal/domains/user/repository"

	bookingHandler "unibook/internal/handlers/booking"
	holidayHandler "unibook/internal/handlers/holiday"
	reportHandler "unibook/internal/handlers/report"
	roomHandler "unibook/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	clock.New,
)

var historyDomain = wire.NewSet(
	historyRepository.New,
	historyService.New,
)

var holidayDomain = wire.NewSet(
	holidayRepository.New,
	holidayService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	userRepository.New,
	bookingRepository.New,
	bookingService.NewValidator,
	bookingService.NewConflictDetector,
	bookingService.New,
)

var reportDomain = wire.NewSet(
	reportRepository.New,
	reportService.New,
)

var domains = wire.NewSet(
	historyDomain,
	holidayDomain,
	roomDomain,
	bookingDomain,
	reportDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	roomHandler.New,
	holidayHandler.New,
	reportHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
