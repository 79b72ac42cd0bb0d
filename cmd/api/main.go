// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/crm-backend/internal/account"
	"github.com/carterperez-dev/templates/crm-backend/internal/admin"
	"github.com/carterperez-dev/templates/crm-backend/internal/auth"
	"github.com/carterperez-dev/templates/crm-backend/internal/config"
	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/customer"
	"github.com/carterperez-dev/templates/crm-backend/internal/employee"
	"github.com/carterperez-dev/templates/crm-backend/internal/health"
	"github.com/carterperez-dev/templates/crm-backend/internal/middleware"
	"github.com/carterperez-dev/templates/crm-backend/internal/permission"
	"github.com/carterperez-dev/templates/crm-backend/internal/product"
	"github.com/carterperez-dev/templates/crm-backend/internal/server"
	"github.com/carterperez-dev/templates/crm-backend/internal/task"
	"github.com/carterperez-dev/templates/crm-backend/internal/user"
)

const drainDelay = 5 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// infra is every long-lived connection the API holds.
type infra struct {
	telemetry *core.Telemetry
	db        *core.Database
	redis     *core.Redis
	jwt       *auth.JWTManager
}

func openInfra(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*infra, error) {
	in := &infra{}

	if cfg.Otel.Enabled {
		tel, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if err != nil {
			logger.Warn("telemetry disabled", "error", err)
		} else {
			in.telemetry = tel
			logger.Info("tracing enabled", "endpoint", cfg.Otel.Endpoint)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	in.db = db
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(ctx, db.DB, logger); err != nil {
			return nil, errors.Join(err, db.Close())
		}
	}

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	in.redis = rdb
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return nil, errors.Join(err, rdb.Close(), db.Close())
	}
	in.jwt = jwtManager
	logger.Info("signing key loaded", "algorithm", "ES256", "key_id", jwtManager.KeyID())

	return in, nil
}

func (in *infra) close(ctx context.Context, logger *slog.Logger) {
	if in.telemetry != nil {
		if err := in.telemetry.Shutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}
	if err := in.redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}
	if err := in.db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	trusted, err := cfg.Server.TrustedProxyPrefixes()
	if err != nil {
		return err
	}

	in, err := openInfra(ctx, cfg, logger)
	if err != nil {
		return err
	}

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: in.db},
		health.Dependency{Name: "redis", Checker: in.redis},
		health.Dependency{Name: "schema", Checker: core.SchemaChecker{DB: in.db.DB}},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	authRepo := auth.NewRepository(in.db.DB)
	mountRoutes(srv.Router(), cfg, in, authRepo, healthHandler, trusted, logger)

	if cfg.JWT.PruneInterval > 0 {
		logger.Info("refresh token sweep enabled", "interval", cfg.JWT.PruneInterval)
		go pruneRefreshTokens(ctx, authRepo, cfg.JWT.PruneInterval, logger)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err = <-errChan:
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err == nil {
		if shutdownErr := srv.Shutdown(shutdownCtx, drainDelay); shutdownErr != nil {
			logger.Error("server shutdown error", "error", shutdownErr)
		}
	}

	in.close(shutdownCtx, logger)

	logger.Info("application stopped")
	return err
}

// mountRoutes wires every CRM resource under /api behind the global
// middleware chain.
func mountRoutes(
	router chi.Router,
	cfg *config.Config,
	in *infra,
	authRepo auth.Repository,
	healthHandler *health.Handler,
	trusted []netip.Prefix,
	logger *slog.Logger,
) {
	userRepo := user.NewRepository(in.db.DB)
	userSvc := user.NewService(userRepo)

	authSvc := auth.NewService(
		authRepo,
		in.jwt,
		userSvc,
		core.NewTokenDenylist(in.redis.Client),
	)
	registrar := account.NewRegistrar(account.SQLUnitOfWork(in.db.DB))

	employeeRepo := employee.NewRepository(in.db.DB)
	taskHandler := task.NewHandler(task.NewService(task.NewRepository(in.db.DB), employeeRepo))

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP(trusted))
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.NewRateLimiter(in.redis.Client, middleware.RateLimitConfig{
		Prefix: "global:",
		Limit:  middleware.PerWindow(cfg.RateLimit.Requests, cfg.RateLimit.Burst, cfg.RateLimit.Window),
		Skip:   middleware.SkipPaths("/healthz", "/livez", "/readyz"),
	}).Handler)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	router.Get("/.well-known/jwks.json", in.jwt.GetJWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	authLimiter := middleware.NewRateLimiter(in.redis.Client, middleware.RateLimitConfig{
		Prefix:  "auth:",
		KeyFunc: middleware.KeyByRoute,
		Limit:   middleware.PerWindow(cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthBurst, cfg.RateLimit.Window),
	})

	router.Route("/api", func(r chi.Router) {
		auth.NewHandler(authSvc, registrar).RegisterRoutes(r, authenticator, authLimiter.Handler)

		customer.NewHandler(customer.NewService(customer.NewRepository(in.db.DB), userRepo)).
			RegisterRoutes(r, authenticator)
		employee.NewHandler(employee.NewService(employeeRepo, userRepo)).
			RegisterRoutes(r, authenticator, taskHandler.ListForEmployee)
		product.NewHandler(product.NewService(product.NewRepository(in.db.DB))).
			RegisterRoutes(r, middleware.OptionalAuth(authSvc))
		taskHandler.RegisterRoutes(r, authenticator)

		user.NewHandler(userSvc).RegisterAdminRoutes(r, authenticator, permission.RequireAdmin)
		admin.NewHandler(admin.HandlerConfig{
			Records:  admin.NewRecordCounter(in.db.DB),
			Database: in.db,
			Cache:    in.redis,
			Migrations: func(ctx context.Context) ([]string, error) {
				return core.PendingMigrations(ctx, in.db.DB)
			},
		}).RegisterRoutes(r, authenticator, permission.RequireAdmin)
	})
}

// pruneRefreshTokens deletes expired refresh tokens until ctx is done.
func pruneRefreshTokens(
	ctx context.Context,
	repo auth.Repository,
	every time.Duration,
	logger *slog.Logger,
) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx, time.Now())
			if err != nil {
				logger.Warn("prune refresh tokens failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("pruned refresh tokens", "count", n)
			}
		}
	}
}
