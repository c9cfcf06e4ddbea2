package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/runtiger2024/buy1688-sub000/internal/config"
	kafkax "github.com/runtiger2024/buy1688-sub000/internal/kafka"
	"github.com/runtiger2024/buy1688-sub000/internal/logger"
	"github.com/runtiger2024/buy1688-sub000/internal/notify"
	"github.com/runtiger2024/buy1688-sub000/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(logger.Options{Service: cfg.ServiceName + "-notifier", Env: cfg.AppEnv, Level: cfg.LogLevel})

	if err := run(cfg, log); err != nil {
		log.Error("notifier exited", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("notifier stopped")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	w := &notify.Worker{
		Mailer:  notify.NewSMTPMailer(cfg.SMTP),
		Dedup:   &notify.RedisDedup{Redis: rdb, Service: cfg.NotifyGroup},
		BaseURL: cfg.PublicBaseURL,
		Log:     log,
	}
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		alerter, err := notify.NewTelegramAlerter(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Error("telegram alerts disabled", slog.Any("err", err))
		} else {
			w.Alerter = alerter
		}
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifyGroup, notify.TopicNotifications, cfg.NotifyWorkers, log)
	log.Info("notifier consumer started",
		slog.String("group", cfg.NotifyGroup), slog.String("topic", notify.TopicNotifications),
		slog.Int("workers", cfg.NotifyWorkers))
	return cons.Start(ctx, w.HandleMessage)
}
