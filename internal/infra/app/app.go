package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/infra/config"
	"github.com/rescobars/moviGo-api/internal/infra/database"
	kafkainfra "github.com/rescobars/moviGo-api/internal/infra/kafka"
	"github.com/rescobars/moviGo-api/internal/infra/logger"
	"github.com/rescobars/moviGo-api/internal/infra/notify"
	redisinfra "github.com/rescobars/moviGo-api/internal/infra/redis"
	"github.com/rescobars/moviGo-api/internal/infra/security"
	postgresrepo "github.com/rescobars/moviGo-api/internal/repository/postgres"
	redisrepo "github.com/rescobars/moviGo-api/internal/repository/redis"
	"github.com/rescobars/moviGo-api/internal/transport/http/middleware"
	"github.com/rescobars/moviGo-api/internal/transport/http/routes"
	"github.com/rescobars/moviGo-api/internal/usecase"
)

// Application owns the wired service graph and the HTTP server lifecycle.
type Application struct {
	cfg      *config.Config
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

// New wires configuration into a runnable application: database pool, Redis
// client, repositories, event publisher, services and the HTTP router.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	log, err := logger.Init(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(ctx, cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var producer *kafkainfra.Producer
	var events port.EventPublisher
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			events = kafkainfra.NewStubPublisher(log)
		} else {
			events = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka disabled, using stub publisher")
		events = kafkainfra.NewStubPublisher(log)
	}

	rateLimitTTL := maxDuration(cfg.RateLimit.LoginWindow, cfg.RateLimit.VerifyWindow) * 2
	if rateLimitTTL <= 0 {
		rateLimitTTL = 2 * time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitStore(redisClient.Raw(), "movigo:rate-limit", rateLimitTTL)
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	codec := security.NewTokenCodec(cfg.JWT)
	notifier := notify.NewLogNotifier(cfg.HTTP.FrontendBaseURL, log)

	sessionService := usecase.NewSessionService(repos.Users, repos.Members, repos.Sessions, codec, events, cfg.Auth.SessionTTL, log).
		WithTransactions(repos.Tx, func(tx pgx.Tx) port.SessionRepository {
			return repos.Sessions.WithTx(tx)
		})
	authService := usecase.NewAuthService(repos.Users, repos.AuthTokens, sessionService, notifier, events,
		cfg.Auth.LoginTokenTTL, cfg.Auth.VerificationTokenTTL, log)
	userService := usecase.NewUserService(repos.Users, log)
	orgService := usecase.NewOrganizationService(repos.Organizations, log)
	memberService := usecase.NewMemberService(repos.Members, repos.Organizations, repos.Users, notifier,
		cfg.HTTP.FrontendBaseURL, log)
	orderService := usecase.NewOrderService(repos.Orders, repos.Organizations, repos.Users, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		TokenCodec:  codec,
		Metrics:     metrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:          authService,
			Sessions:      sessionService,
			Users:         userService,
			Organizations: orgService,
			Members:       memberService,
			Orders:        orderService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or the
// server fails. Shutdown drains in-flight requests within the configured
// timeout.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer a.pool.Close()
	defer func() {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}()
	if a.producer != nil {
		defer func() {
			if err := a.producer.Close(); err != nil {
				a.logger.Warn("close kafka producer", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.HTTP.Host, a.cfg.HTTP.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       a.cfg.HTTP.ReadTimeout,
		WriteTimeout:      a.cfg.HTTP.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting moviGo API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownTimeout := a.cfg.HTTP.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

func maxDuration(values ...time.Duration) time.Duration {
	var max time.Duration
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}
