//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"stay/config"
	"stay/infras/jwt"
	"stay/infras/kafka"
	"stay/infras/otel"
	"stay/infras/postgres"
	"stay/infras/redis"
	"stay/infras/s3"
	"stay/permissions"
	"stay/shared/cache"
	"stay/transport/http"
	"stay/transport/http/middleware"
	"stay/transport/http/router"

	authService "stay/internal/domains/auth/service"
	bookingRepository "stay/internal/domains/booking/repository"
	bookingService "stay/internal/domains/booking/service"
	postRepository "stay/internal/domains/post/repository"
	postService "stay/internal/domains/post/service"
	roomRepository "stay/internal/domains/room/repository"
	roomService "stay/internal/domains/room/service"
	userRepository "stay/internal/domains/user/repository"
	userService "stay/internal/domains/user/service"

	authHandler "stay/internal/handlers/auth"
	bookingHandler "stay/internal/handlers/booking"
	postHandler "stay/internal/handlers/post"
	roomHandler "stay/internal/handlers/room"
	userHandler "stay/internal/handlers/user"
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
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var postDomain = wire.NewSet(
	postRepository.New,
	postService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	roomDomain,
	bookingDomain,
	postDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	bookingHandler.New,
	postHandler.New,
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
