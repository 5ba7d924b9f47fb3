package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"techupnext/internal/config"
	"techupnext/internal/digest"
	"techupnext/internal/enrich"
	"techupnext/internal/mailer"
	"techupnext/internal/publisher"
	"techupnext/internal/server"
	"techupnext/internal/service"
	"techupnext/internal/source/rss"
	"techupnext/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Error("failed to bootstrap schema", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	newsStore := postgres.NewNewsStore(db)
	subscriberStore := postgres.NewSubscriberStore(db)

	source := rss.New(rss.Config{Timeout: cfg.Source.Timeout}, logger)
	enricher := enrich.New(cfg.AI, logger)
	composer := digest.NewComposer()
	mail := mailer.NewSendGrid(cfg.Mail, logger)

	var itemPublisher service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		itemPublisher = rabbitMQ
	}

	agent := service.NewAgent(
		cfg.Feeds,
		source,
		enricher,
		newsStore,
		subscriberStore,
		composer,
		mail,
		itemPublisher,
		logger,
		cfg.Agent,
	)

	srv := server.New(agent, newsStore, subscriberStore, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting agent",
		"addr", cfg.Server.Addr,
		"feeds", len(cfg.Feeds),
		"max_items_per_feed", cfg.Agent.MaxItemsPerFeed,
	)

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
