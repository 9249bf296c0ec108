package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/config"
	"github.com/example/nova-commerce/internal/email"
	"github.com/example/nova-commerce/internal/infrastructure/kafka"
	"github.com/example/nova-commerce/internal/logger"
	"github.com/example/nova-commerce/internal/notification"
)

// The notifier mails every stored order notification that carries an
// address, reading them from the event feed.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	if err := logger.Init(cfg.Logger()); err != nil {
		logrus.Fatalf("logger: %v", err)
	}
	log := logger.For("notifier")

	if !cfg.KafkaEnabled() {
		log.Fatal("KAFKA_BROKERS is required")
	}
	group := cfg.ConsumerGroup
	if group == "" {
		group = "nova-notifier"
	}

	mailer := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	handler := notification.NewHandler(mailer)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, group).
		Only(notification.EventNotificationCreated)
	defer consumer.Close()

	go func() {
		log.WithFields(logrus.Fields{
			"topic": cfg.KafkaTopic,
			"group": group,
			"smtp":  cfg.SMTPHost,
		}).Info("Starting event consumer")
		if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("Consumer error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down...")
	cancel()
}
