package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/infra/config"
	"github.com/rescobars/moviGo-api/internal/infra/security"
	"github.com/rescobars/moviGo-api/internal/transport/http/handlers"
	"github.com/rescobars/moviGo-api/internal/transport/http/middleware"
	"github.com/rescobars/moviGo-api/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Sessions      *usecase.SessionService
	Users         *usecase.UserService
	Organizations *usecase.OrganizationService
	Members       *usecase.MemberService
	Orders        *usecase.OrderService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	TokenCodec  *security.TokenCodec
	Metrics     *middleware.HTTPMetrics
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.HTTP.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.TokenCodec)

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		requestLimits := buildRateLimit(deps, "auth_login_request_ip",
			deps.Config.RateLimit.LoginLimit, deps.Config.RateLimit.LoginWindow)
		verifyLimits := buildRateLimit(deps, "auth_login_verify_ip",
			deps.Config.RateLimit.VerifyLimit, deps.Config.RateLimit.VerifyWindow)

		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Sessions)
		authHandler.RegisterRoutes(api.Group("/auth"), authMiddleware, requestLimits, verifyLimits)

		sessionGroup := api.Group("/sessions")
		sessionGroup.Use(authMiddleware)
		handlers.NewSessionHandler(deps.Services.Auth, deps.Services.Sessions).RegisterRoutes(sessionGroup)

		userGroup := api.Group("/users")
		userGroup.Use(authMiddleware)
		handlers.NewUserHandler(deps.Services.Users).RegisterRoutes(userGroup)

		orgGroup := api.Group("/organizations")
		orgGroup.Use(authMiddleware)
		handlers.NewOrganizationHandler(deps.Services.Organizations).RegisterRoutes(orgGroup)

		memberGroup := api.Group("/members")
		memberGroup.Use(authMiddleware)
		handlers.NewMemberHandler(deps.Services.Members).RegisterRoutes(orgGroup, memberGroup)

		orderGroup := api.Group("/orders")
		orderGroup.Use(authMiddleware)
		handlers.NewOrderHandler(deps.Services.Orders).RegisterRoutes(orgGroup, orderGroup)
	}

	return r
}

func buildRateLimit(deps Dependencies, name string, limit int, window time.Duration) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil || !deps.Config.RateLimit.Enabled {
		return nil
	}
	if limit <= 0 {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
