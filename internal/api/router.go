package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/securebase/auth-service/internal/api/handler"
	"github.com/securebase/auth-service/internal/api/middleware"
	"github.com/securebase/auth-service/internal/core/domain"
	"github.com/securebase/auth-service/internal/core/service"
	mongodb "github.com/securebase/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/securebase/auth-service/internal/infrastructure/db/redis"
	"github.com/securebase/auth-service/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Route authorization is declared here, next to each registration: a route is
// public unless it carries a RequireRoles middleware.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	roles := mongodb.NewRoleRepository(db)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpirationMs)
	resolver := service.NewIdentityResolver(users)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
	authService := service.NewAuthService(users, roles, tokens, resolver, throttle, log)
	authHandler := handler.NewAuthHandler(authService, log)
	testHandler := handler.NewTestHandler()

	// Runs on every request, like the original filter chain: it attaches the
	// principal when a valid token is present and never rejects by itself.
	e.Use(middleware.Authenticate(tokens, resolver, log))

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/signup", authHandler.SignUp)

	// --- Demo content routes ---
	test := e.Group("/api/test")
	test.GET("/all", testHandler.All)
	test.GET("/user", testHandler.User,
		middleware.RequireRoles(domain.RoleUser, domain.RoleModerator, domain.RoleAdmin))
	test.GET("/mod", testHandler.Mod, middleware.RequireRoles(domain.RoleModerator))
	test.GET("/admin", testHandler.Admin, middleware.RequireRoles(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
