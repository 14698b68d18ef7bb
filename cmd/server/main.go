package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/bag_shop/internal/config"
	"github.com/Skotchmaster/bag_shop/internal/db"
	"github.com/Skotchmaster/bag_shop/internal/events"
	"github.com/Skotchmaster/bag_shop/internal/httpserver"
	"github.com/Skotchmaster/bag_shop/internal/logging"
	"github.com/Skotchmaster/bag_shop/internal/middleware/auth"
	"github.com/Skotchmaster/bag_shop/internal/repo"
	"github.com/Skotchmaster/bag_shop/internal/search"
	"github.com/Skotchmaster/bag_shop/internal/service"
	"github.com/Skotchmaster/bag_shop/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmpty(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewProducer(cfg.KafkaBrokers)
		logger.Info("events_enabled", "brokers", cfg.KafkaBrokers)
	}

	catalogSvc := &service.CatalogService{Events: publisher}
	if cfg.ESURL != "" {
		es, err := search.NewClient(search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUsername,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("search_disabled", "reason", "elasticsearch unreachable", "error", err)
		} else {
			catalogSvc.Index = &search.Index{ES: es, Name: cfg.ESIndex}
		}
	}

	store := &repo.GormRepo{DB: gdb}
	catalogSvc.Repo = store
	sessions := session.NewManager(cfg.JWTSecret, cfg.JWTExpiresIn)

	e := httpserver.New(&httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc:          &service.AuthService{Repo: store, Sessions: sessions, Events: publisher},
			SecureCookie: cfg.Production(),
		},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc},
		UsersHandler:   &httpserver.UsersHTTP{Svc: &service.UserService{Repo: store, Events: publisher}},
		Gate:           auth.NewGate(sessions),
		AuthRateLimit:  cfg.AuthRateLimit,
		Ready:          func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}, httpserver.Options{
		Logger:       logger,
		Production:   cfg.Production(),
		AllowOrigins: cfg.FrontendURLs,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("events_close_failed", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("server_stopped")
}
