package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/runtiger2024/buy1688-sub000/internal/auth"
	"github.com/runtiger2024/buy1688-sub000/internal/catalog"
	"github.com/runtiger2024/buy1688-sub000/internal/config"
	"github.com/runtiger2024/buy1688-sub000/internal/httpx"
	kafkax "github.com/runtiger2024/buy1688-sub000/internal/kafka"
	"github.com/runtiger2024/buy1688-sub000/internal/logger"
	"github.com/runtiger2024/buy1688-sub000/internal/notify"
	"github.com/runtiger2024/buy1688-sub000/internal/orders"
	"github.com/runtiger2024/buy1688-sub000/internal/postgres"
	"github.com/runtiger2024/buy1688-sub000/internal/redisx"
	"github.com/runtiger2024/buy1688-sub000/internal/settings"
	"github.com/runtiger2024/buy1688-sub000/internal/users"
	"github.com/runtiger2024/buy1688-sub000/internal/warehouses"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(logger.Options{Service: cfg.ServiceName, Env: cfg.AppEnv, Level: cfg.LogLevel})

	if err := run(cfg, log); err != nil {
		log.Error("api exited", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, db, log); err != nil {
			return err
		}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer, flushed after the HTTP server stops
	prodCtx, cancelProd := context.WithCancel(context.Background())
	defer cancelProd()
	prod := kafkax.NewProducer(cfg.KafkaBrokers, notify.TopicNotifications, 1024, log)
	prod.Start(prodCtx)
	notifier := &notify.Dispatcher{Producer: prod, Service: cfg.ServiceName, Log: log}

	sessions := &auth.RedisSessions{Redis: rdb, TTL: cfg.SessionTTL}
	userRepo := &users.Repo{DB: db}
	settingsSvc := settings.NewService(&settings.Repo{DB: db})
	catalogSvc := catalog.NewService(&catalog.Repo{DB: db})
	warehouseSvc := warehouses.NewService(&warehouses.Repo{DB: db})
	userSvc := users.NewService(userRepo, sessions, notifier, log)
	orderSvc := orders.NewService(orders.Deps{
		Store:       &orders.Repo{DB: db},
		Products:    catalogSvc,
		Warehouses:  warehouseSvc,
		Settings:    settingsSvc,
		Staff:       userRepo,
		Idempotency: &orders.RedisIdempotency{Redis: rdb},
		Notifier:    notifier,
		Log:         log,
	})

	if err := userSvc.EnsureAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		return err
	}

	router := httpx.NewRouter(log)
	api := &httpx.API{
		Orders:     orderSvc,
		Catalog:    catalogSvc,
		Warehouses: warehouseSvc,
		Settings:   settingsSvc,
		Users:      userSvc,
		Sessions:   sessions,
		Log:        log,
	}
	api.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		prod.Close()
		prod.WaitClosed()
		return err
	})
	return g.Wait()
}
