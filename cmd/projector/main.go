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

	"github.com/example/nova-commerce/internal/config"
	"github.com/example/nova-commerce/internal/infrastructure/kafka"
	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/logger"
	"github.com/example/nova-commerce/internal/projection"
	"github.com/example/nova-commerce/internal/readmodel"
)

// The projector rebuilds reporting read models from the event feed and
// serves them to dashboards that run apart from the API.
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
	log := logger.For("projector")

	if !cfg.KafkaEnabled() {
		log.Fatal("KAFKA_BROKERS is required")
	}
	group := cfg.ConsumerGroup
	if group == "" {
		group = "nova-projector"
	}

	readStore := store.NewReadStore()
	projector := projection.NewProjector(readStore)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, group)
	defer consumer.Close()

	go func() {
		log.WithFields(logrus.Fields{"topic": cfg.KafkaTopic, "group": group}).Info("Starting event consumer")
		if err := consumer.Consume(ctx, projector.HandleEvent); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("Consumer error")
		}
	}()

	server := &http.Server{
		Addr:              cfg.ProjectorAddr,
		Handler:           reportRoutes(readStore),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("addr", cfg.ProjectorAddr).Info("Serving read models")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}

func reportRoutes(readStore store.ReadStoreInterface) http.Handler {
	mux := http.NewServeMux()
	for path, collection := range map[string]string{
		"/orders":    readmodel.CollectionOrders,
		"/inventory": readmodel.CollectionInventory,
		"/shifts":    readmodel.CollectionShifts,
		"/customers": readmodel.CollectionCustomers,
	} {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, readStore.GetAll(collection))
		})
	}
	mux.HandleFunc("/sales", func(w http.ResponseWriter, r *http.Request) {
		report, ok := readStore.Get(readmodel.CollectionSales, readmodel.SalesReportID)
		if !ok {
			report = &readmodel.SalesReportReadModel{}
		}
		writeJSON(w, report)
	})
	return mux
}
