package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fitlog/fitlog/internal/cache"
	"github.com/fitlog/fitlog/internal/config"
	"github.com/fitlog/fitlog/internal/metrics"
	"github.com/fitlog/fitlog/internal/middleware"
	"github.com/fitlog/fitlog/internal/repository"
	"github.com/fitlog/fitlog/internal/server"
	"github.com/fitlog/fitlog/internal/service"
	"github.com/fitlog/fitlog/internal/session"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if err := migrate(ctx, cfg, logger); err != nil {
		return err
	}

	// Initialize database
	dsn := cfg.DSN()
	repo, err := repository.New(ctx, dsn)
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, dsn)),
			slog.String("database_url", redactURL(dsn)),
		)
		return errors.New("database unavailable")
	}
	logger.Info("connected to database")

	metricsRecorder := metrics.NewInMemory()

	routerCfg := server.RouterConfig{
		Logger:   logger,
		Accounts: service.NewAccountService(repo, metricsRecorder),
		Records:  service.NewRecordService(repo, metricsRecorder),
		Metrics:  metricsRecorder,
		DB:       repo,
		Security: middleware.SecurityConfig{
			IsDevelopment:      cfg.IsDevelopment(),
			MaxRequestBodySize: cfg.MaxRequestBodySize,
		},
		CORS: corsConfig(cfg),
		LoginRate: middleware.RateLimitConfig{
			Enabled: cfg.LoginRateLimitEnabled,
			RPS:     cfg.LoginRateLimitRPS,
			Burst:   cfg.LoginRateLimitBurst,
		},
	}

	// Sessions live in Redis when configured, otherwise in process memory.
	var store session.Store
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			repo.Close()
			logger.Error("failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return errors.New("redis unavailable")
		}
		logger.Info("connected to Redis")
		store = cacheClient
		routerCfg.Cache = cacheClient
		routerCfg.LoginRate.Limiter = cacheClient
	} else {
		logger.Warn("REDIS_URL not set, sessions are kept in memory and login rate limiting is off")
		store = session.NewMemoryStore()
	}

	routerCfg.Sessions = session.NewManager(store, session.Config{
		Secret:       []byte(cfg.SessionSecret),
		IdleTimeout:  cfg.SessionIdleTimeout,
		MaxAge:       cfg.SessionMaxAge,
		CookieName:   cfg.SessionCookieName,
		CookieSecure: cfg.SessionCookieSecure,
		SameSite:     cfg.CookieSameSite(),
	})

	srv := server.New(server.NewRouter(routerCfg), server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"session_store", sessionStoreName(cacheClient),
	)

	return srv.Run(ctx)
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	return c
}

func sessionStoreName(c *cache.Cache) string {
	if c == nil {
		return "memory"
	}
	return "redis"
}
