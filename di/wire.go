//go:build wireinject
// +build wireinject

package di

import (
	"fieldbook/config"
	"fieldbook/infras/jwt"
	"fieldbook/infras/kafka"
	"fieldbook/infras/otel"
	"fieldbook/infras/postgres"
	"fieldbook/infras/redis"
	bookingHandler "fieldbook/internal/handlers/booking"
	"fieldbook/permissions"
	"fieldbook/shared/cache"
	"fieldbook/transport/http"
	"fieldbook/transport/http/middleware"
	"fieldbook/transport/http/router"

	bookingEvent "fieldbook/internal/domains/booking/event"
	bookingRepository "fieldbook/internal/domains/booking/repository"
	bookingService "fieldbook/internal/domains/booking/service"
	resourceRepository "fieldbook/internal/domains/resource/repository"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var resourceDomain = wire.NewSet(
	resourceRepository.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingEvent.NewKafkaPublisher,
	bookingService.New,
)

var domains = wire.NewSet(
	resourceDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	router.New,
)

// InitializeService builds the server. The cleanup drains background work and then flushes
// the Kafka writers; run it once the server has stopped taking requests.
func InitializeService() (*http.HTTP, func()) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return nil, nil
}
