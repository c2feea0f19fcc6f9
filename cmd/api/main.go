package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"

	"github.com/Werneck0live/cadastro-parceiros/internal/admin"
	"github.com/Werneck0live/cadastro-parceiros/internal/broker"
	"github.com/Werneck0live/cadastro-parceiros/internal/config"
	"github.com/Werneck0live/cadastro-parceiros/internal/db"
	"github.com/Werneck0live/cadastro-parceiros/internal/handlers"
	"github.com/Werneck0live/cadastro-parceiros/internal/lookup"
	"github.com/Werneck0live/cadastro-parceiros/internal/metrics"
	"github.com/Werneck0live/cadastro-parceiros/internal/partnerapi"
	"github.com/Werneck0live/cadastro-parceiros/internal/repository"
)

// cmd/api/main.go
func main() {
	cfg := config.Load() // .env

	// Logger JSON "global" - permite usar slog.Info/slog.Error/Warn em qualquer lugar
	_ = config.InitLogger(cfg.LogLevel)
	slog.Info("starting", "port", cfg.Port, "mongo_db", cfg.MongoDB)

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: seed")
	flag.Parse()

	// conecta Mongo
	client, err := db.NewMongoClient(cfg.MongoURI)
	if err != nil {
		slog.Error("mongo_connect_error", "err", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := repository.NewDraftRepository(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(context.Background()); err != nil {
		slog.Error("mongo_indexes_error", "err", err)
		os.Exit(1)
	}

	if *task != "" {
		switch *task {
		case "seed":
			if err := admin.SeedDrafts(context.Background(), repo, slog.Default()); err != nil {
				slog.Error("seed_failed", "err", err)
				os.Exit(1)
			}
			slog.Info("seed_done")
			return // encerra o processo sem subir HTTP
		default:
			slog.Error("unknown_admin_task", "task", *task)
			os.Exit(2)
		}
	}

	// publisher (Rabbit)
	pub, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue)
	if err != nil {
		slog.Error("rabbitmq_connect_error", "err", err)
		os.Exit(1)
	}
	defer pub.Close()

	m := metrics.New()

	opts := []lookup.Option{lookup.WithMetrics(m), lookup.WithLogger(slog.Default())}
	if cfg.RedisURL != "" {
		cache, err := lookup.NewRedisCacheFromURL(context.Background(), cfg.RedisURL)
		if err != nil {
			// segue sem cache
			slog.Warn("redis_unavailable", "err", err)
		} else {
			defer cache.Close()
			opts = append(opts, lookup.WithCache(cache))
		}
	}
	registry := lookup.NewClient(cfg.Lookup, opts...)
	partners := partnerapi.New(cfg.PartnerAPIURL, cfg.PartnerAPIToken, cfg.PartnerAPITimeout)

	h := handlers.NewDraftHandler(repo, pub, partners, registry, m)

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	h.Routes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.LogRequests(r),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// start server
	go func() {
		slog.Info("api_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http_server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful_shutdown_error", "err", err)
	}
	slog.Info("stopped")
}
