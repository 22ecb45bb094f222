package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	audithandler "shipcertify/internal/audit/handler"
	certhandler "shipcertify/internal/certificate/handler"
	certmetrics "shipcertify/internal/certificate/metrics"
	certservice "shipcertify/internal/certificate/service"
	certstore "shipcertify/internal/certificate/store"
	enrollhandler "shipcertify/internal/enroll/handler"
	enrollservice "shipcertify/internal/enroll/service"
	enrollstore "shipcertify/internal/enroll/store"
	"shipcertify/internal/jwtauth"
	"shipcertify/internal/ledger"
	"shipcertify/internal/platform/config"
	"shipcertify/internal/platform/httpserver"
	"shipcertify/internal/platform/logger"
	"shipcertify/internal/platform/metrics"
	"shipcertify/internal/platform/middleware"
	platformredis "shipcertify/internal/platform/redis"
	queryhandler "shipcertify/internal/query/handler"
	queryservice "shipcertify/internal/query/service"
	registryhandler "shipcertify/internal/registry/handler"
	registrymetrics "shipcertify/internal/registry/metrics"
	registryservice "shipcertify/internal/registry/service"
	registrystore "shipcertify/internal/registry/store"
	surveyhandler "shipcertify/internal/survey/handler"
	surveymetrics "shipcertify/internal/survey/metrics"
	surveyservice "shipcertify/internal/survey/service"
	surveystore "shipcertify/internal/survey/store"
	"shipcertify/pkg/platform/audit/publisher"
	"shipcertify/pkg/platform/audit/publishers/kafka"
	auditmemory "shipcertify/pkg/platform/audit/store/memory"
	"shipcertify/pkg/platform/tx"
)

// main wires the ledger backend, services, and the HTTP router. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx := context.Background()

	// Ledger backend selection: Postgres when a DSN is configured, then
	// Redis, then the in-process map. Each backend supplies its own
	// transaction runner so multi-record writes commit as a unit.
	var (
		store    ledger.Ledger
		txRunner tx.StoreTx
	)
	switch {
	case cfg.PostgresDSN != "":
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pg := ledger.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("ensure ledger schema", "error", err)
			os.Exit(1)
		}
		store = pg
		txRunner = tx.NewSQLTx(db)
		log.Info("ledger backend: postgres")
	case cfg.Redis.URL != "":
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			log.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		rl := ledger.NewRedis(client.Client)
		store = rl
		txRunner = rl
		log.Info("ledger backend: redis")
	default:
		mem := ledger.NewInMemory()
		store = mem
		txRunner = mem
		log.Info("ledger backend: memory")
	}

	auditStore := auditmemory.NewInMemoryStore()
	auditOpts := []publisher.Option{
		publisher.WithLogger(log),
		publisher.WithAsyncBuffer(256),
	}
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := kafka.New(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("connect kafka audit sink", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		auditOpts = append(auditOpts, publisher.WithSink(sink))
	}
	auditor := publisher.NewPublisher(auditStore, auditOpts...)
	defer auditor.Close()

	tokens := jwtauth.NewJWTService(cfg.JWTSigningKey, "shipcertify", cfg.TokenTTL)
	validator := jwtauth.NewJWTServiceAdapter(tokens)

	registryStore := registrystore.New(store)
	surveyStore := surveystore.New(store)
	certStore := certstore.New(store)
	userStore := enrollstore.New(store)

	registrySvc := registryservice.New(registryStore,
		registryservice.WithLogger(log),
		registryservice.WithAuditPublisher(auditor),
		registryservice.WithMetrics(registrymetrics.New()),
	)
	surveySvc := surveyservice.New(surveyStore, registryStore,
		surveyservice.WithLogger(log),
		surveyservice.WithAuditPublisher(auditor),
		surveyservice.WithMetrics(surveymetrics.New()),
	)
	certSvc := certservice.New(certStore, surveyStore, registryStore, txRunner,
		certservice.WithLogger(log),
		certservice.WithAuditPublisher(auditor),
		certservice.WithMetrics(certmetrics.New()),
	)
	querySvc := queryservice.New(registryStore, surveyStore, certStore,
		queryservice.WithLogger(log),
	)
	enrollSvc := enrollservice.New(userStore, tokens,
		enrollservice.WithLogger(log),
		enrollservice.WithAuditPublisher(auditor),
	)

	httpMetrics := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(httpMetrics.Middleware)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		enrollhandler.New(enrollSvc, log).Register(r)
		certhandler.New(certSvc, log).RegisterPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(validator, log))
			registryhandler.New(registrySvc, log).Register(r)
			surveyhandler.New(surveySvc, log).Register(r)
			certhandler.New(certSvc, log).Register(r)
			queryhandler.New(querySvc, log).Register(r)
			audithandler.New(auditor, log).Register(r)
		})
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting shipcertify", "addr", cfg.Addr)

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
