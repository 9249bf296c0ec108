package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/api"
	"github.com/example/nova-commerce/internal/app"
	"github.com/example/nova-commerce/internal/auth"
	"github.com/example/nova-commerce/internal/config"
	"github.com/example/nova-commerce/internal/domain/catalog"
	"github.com/example/nova-commerce/internal/domain/order"
	"github.com/example/nova-commerce/internal/infrastructure/kafka"
	"github.com/example/nova-commerce/internal/logger"
	"github.com/example/nova-commerce/internal/notification"
)

const accessTokenExpiry = 12 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	if err := logger.Init(cfg.Logger()); err != nil {
		logrus.Fatalf("logger: %v", err)
	}
	log := logger.For("main")

	if err := cfg.RequireJWTSecret(); err != nil {
		log.Fatal(err)
	}

	seed, err := loadSeed(cfg.SeedFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load seed")
	}
	policy, err := order.ParsePolicy(cfg.OrderTransitionPolicy)
	if err != nil {
		log.WithError(err).Fatal("Invalid order transition policy")
	}

	opts := app.Options{Policy: policy, NotifyTimeout: cfg.NotifyTimeout}
	var producer *kafka.Producer
	if cfg.KafkaEnabled() {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		opts.Publisher = producer
	}
	if cfg.NotifyEndpoint != "" {
		opts.Generator = notification.NewHTTPGenerator(cfg.NotifyEndpoint, &http.Client{Timeout: cfg.NotifyTimeout})
	}

	nova, err := app.New(seed, opts)
	if err != nil {
		closeProducer(producer, log)
		log.WithError(err).Fatal("Failed to build services")
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, accessTokenExpiry)
	router := api.NewRouter(api.RouterConfig{
		Handlers:     api.NewHandlers(nova.Commands, nova.Queries),
		AuthHandlers: api.NewAuthHandlers(nova.Commands, nova.Queries, jwtService),
		JWTService:   jwtService,
		WebDir:       cfg.WebDir,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":     cfg.HTTPAddr,
			"policy":   policy.Name(),
			"products": len(seed.Products),
			"kafka":    cfg.KafkaEnabled(),
		}).Info("NOVA API started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Shutdown failed")
	}
	closeProducer(producer, log)
}

// closeProducer flushes pending feed records. A nil producer is a no-op.
func closeProducer(p *kafka.Producer, log *logrus.Entry) {
	if p == nil {
		return
	}
	if err := p.Close(); err != nil {
		log.WithError(err).Error("Failed to close event producer")
	}
}

func loadSeed(path string) (*catalog.Seed, error) {
	if path == "" {
		return catalog.DefaultSeed()
	}
	return catalog.LoadSeed(path)
}
