//go:build wireinject
// +build wireinject

package di

import (
	"biblio/config"
	"biblio/infras/jwt"
	"biblio/infras/kafka"
	"biblio/infras/otel"
	"biblio/infras/postgres"
	"biblio/infras/redis"
	"biblio/infras/s3"
	"biblio/permissions"
	"biblio/shared/cache"
	"biblio/transport/http"
	"biblio/transport/http/middleware"
	"biblio/transport/http/router"

	"github.com/google/wire"

	authService "biblio/internal/domains/auth/service"
	reservationRepository "biblio/internal/domains/reservation/repository"
	reservationService "biblio/internal/domains/reservation/service"
	resourceRepository "biblio/internal/domains/resource/repository"
	resourceService "biblio/internal/domains/resource/service"
	userRepository "biblio/internal/domains/user/repository"
	userService "biblio/internal/domains/user/service"
	authHandler "biblio/internal/handlers/auth"
	reservationHandler "biblio/internal/handlers/reservation"
	resourceHandler "biblio/internal/handlers/resource"
	userHandler "biblio/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var userDomain = wire.NewSet(
	userService.New,
)

var resourceDomain = wire.NewSet(
	resourceRepository.New,
	resourceService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	resourceDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	resourceHandler.New,
	reservationHandler.New,
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
