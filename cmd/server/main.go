// Command server runs the snowlens HTTP API: expensive-query rankings and
// AI-assisted optimization advice over a Snowflake account.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"snowlens/internal/api"
	"snowlens/internal/config"
	"snowlens/internal/middleware"
	"snowlens/internal/service"
	"snowlens/internal/sqlscan"
	"snowlens/internal/warehouse"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	client, err := warehouse.Open(cfg.Connection, logger)
	if err != nil {
		logger.Error("warehouse connection failed", "error", err)
		os.Exit(1)
	}
	defer client.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := client.Ping(pingCtx); err != nil {
		cancel()
		logger.Error("warehouse unreachable", "error", err)
		os.Exit(1)
	}
	cancel()

	history := warehouse.NewHistory(client, logger)
	metadata := warehouse.NewMetadata(client)
	cortex := warehouse.NewCortex(client, logger)

	ranker := service.NewCostRanker(history, logger)
	aggregator := service.NewMetadataAggregator(metadata, client.Session(), logger)
	optimizer := service.NewOptimizer(sqlscan.NewExtractor(), aggregator, service.NewPromptBuilder(), cortex, history, logger)

	defaults := api.Defaults{
		WindowDays:      cfg.WindowDays,
		TopNPerResource: cfg.TopNPerResource,
		Model:           cfg.CompletionModel,
	}
	handler := api.NewHandler(ranker, optimizer, history, defaults, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	handler.Routes(r)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("snowlens api listening", "addr", cfg.ListenAddr, "window_days", cfg.WindowDays, "model", cfg.CompletionModel)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
