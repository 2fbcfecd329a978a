package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vetgate/internal/platform/config"
	"vetgate/internal/platform/httpserver"
	"vetgate/internal/platform/logger"
	"vetgate/internal/platform/middleware"
	"vetgate/internal/platform/postgres"
	platformredis "vetgate/internal/platform/redis"
	"vetgate/internal/screening/gateway"
	"vetgate/internal/screening/handler"
	"vetgate/internal/screening/metrics"
	"vetgate/internal/screening/pipeline"
	"vetgate/internal/screening/store"
	"vetgate/pkg/platform/audit"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	screenClient := gateway.NewScreenClient(cfg.Screen.BaseURL, cfg.ScreenAPIKey, cfg.Screen.Timeout)
	creditClient := gateway.NewCreditClient(cfg.Credit.BaseURL, cfg.CreditToken, cfg.CreditClientRef, cfg.Credit.Timeout)
	incomeClient := gateway.NewIncomeClient(cfg.Income.BaseURL, cfg.IncomeClientID, cfg.IncomeSecret, cfg.Income.Timeout)

	caseStore, cleanup, err := buildCaseStore(ctx, cfg)
	if err != nil {
		log.Error("case store setup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var emitter pipeline.AuditPort
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka audit setup failed", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		emitter = kafka
	} else {
		emitter = audit.NewPublisher(audit.NewMemoryStore())
	}

	m := metrics.New()
	svc := pipeline.New(screenClient, screenClient, creditClient, incomeClient,
		pipeline.WithLogger(log),
		pipeline.WithStore(caseStore),
		pipeline.WithAudit(emitter),
		pipeline.WithMetrics(m),
	)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestMeta)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	handler.New(svc, log, m).Register(r)

	srv := httpserver.New(cfg.Addr, r)

	log.Info("starting vetgate", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildCaseStore picks the configured backend: Postgres, then Redis, then
// memory for local runs.
func buildCaseStore(ctx context.Context, cfg config.Config) (pipeline.CaseStore, func(), error) {
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return pg, func() { db.Close() }, nil
	}

	if cfg.RedisURL != "" {
		client, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedis(client.Client, cfg.CaseTTL), func() { client.Close() }, nil
	}

	return store.NewMemory(), func() {}, nil
}
