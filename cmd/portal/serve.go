package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"recruitportal/internal/app"
	apphttp "recruitportal/internal/http"
	"recruitportal/internal/http/handlers"
	"recruitportal/internal/http/metrics"
	httpmw "recruitportal/internal/http/middleware"
	"recruitportal/internal/http/response"
	"recruitportal/internal/security"
)

func newServeCmd(rt *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), rt)
		},
	}
}

func serve(ctx context.Context, rt *cliState) error {
	cfg, logger := rt.cfg, rt.logger
	repo, closeStore, err := openStore(ctx, cfg, logger, storeOptions{migrate: cfg.AutoMigrate})
	if err != nil {
		return err
	}
	defer closeStore()

	limiter, closeLimiter, err := newLimiter(ctx, cfg.RedisURL, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)
	service := app.NewApplicationService(repo, collector, logger)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		ApplicationHandler: handlers.NewApplicationHandler(service),
		BulkHandler:        handlers.NewBulkHandler(service, cfg.MaxUploadBytes),
		ExportHandler:      handlers.NewExportHandler(service),
		AuthMiddleware:     httpmw.NewAuthMiddleware(security.NewTokenVerifier(cfg.JWTSecret)),
		Limiter:            limiter,
		Metrics:            collector,
		RequestTimeout:     cfg.RequestTimeout,
		MaxUploadBytes:     cfg.MaxUploadBytes,
		SubmitPerMinute:    cfg.SubmitPerMinute,
		TrackPerMinute:     cfg.TrackPerMinute,
		AllowedOrigins:     cfg.CORSAllowedOrigin,
	})
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API started", slog.String("addr", server.Addr), slog.String("driver", cfg.DBDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}

// newLimiter uses Redis when REDIS_URL is set so limits hold across replicas.
func newLimiter(ctx context.Context, redisURL string, logger *slog.Logger) (httpmw.Limiter, func(), error) {
	if redisURL == "" {
		return httpmw.NewRateLimiter(), func() {}, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis ping failed, limits will fail open until it recovers", slog.String("error", err.Error()))
	}
	closer := func() {
		if err := client.Close(); err != nil {
			logger.Error("redis close failed", slog.String("error", err.Error()))
		}
	}
	return httpmw.NewRedisLimiter(client, logger), closer, nil
}
