package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"

	"example.com/actiontracker/internal/api"
	"example.com/actiontracker/internal/auth"
	"example.com/actiontracker/internal/config"
	"example.com/actiontracker/internal/consumer"
	"example.com/actiontracker/internal/domain"
	persistence "example.com/actiontracker/internal/persistence/postgres"
	"example.com/actiontracker/internal/publisher"
	httptransport "example.com/actiontracker/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opts []domain.Option
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		opts = append(opts, domain.WithJournal(persistence.NewJournal(pool)))
		log.Printf("action journal enabled")
	}

	service := domain.NewService(opts...)

	var wg sync.WaitGroup
	for _, topic := range cfg.ConsumerTopics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:         cfg.KafkaBrokers,
			GroupID:         cfg.ConsumerGroupID,
			Topic:           topic,
			MinBytes:        1e3,
			MaxBytes:        10e6,
			CommitInterval:  time.Second,
			RetentionTime:   24 * time.Hour,
			ReadLagInterval: -1,
		})

		proc := consumer.NewProcessor(reader, consumer.NewIngestHandler(service))

		wg.Add(1)
		go func(topic string, r *kafka.Reader) {
			defer wg.Done()
			defer r.Close()

			log.Printf("consumer started (topic=%s, group=%s)", topic, cfg.ConsumerGroupID)
			if err := proc.Run(ctx); err != nil && err != context.Canceled {
				log.Printf("consumer stopped with error (topic=%s): %v", topic, err)
			}
		}(topic, reader)
	}

	var statsPublisher *publisher.Publisher
	if cfg.StatsTopic != "" {
		producer := publisher.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()

		statsPublisher = publisher.NewPublisher(service, producer, cfg.StatsTopic, cfg.StatsPublishInterval)
		go statsPublisher.Start(ctx)
		log.Printf("stats publisher started (topic=%s, interval=%s)", cfg.StatsTopic, cfg.StatsPublishInterval)
	}

	handler := api.NewHandler(service, cfg.MaxBodyBytes)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, cfg.AuthDisabled)
	if cfg.AuthDisabled {
		log.Printf("authentication disabled; all requests get full scopes")
	}

	server := httptransport.NewServer(
		httptransport.DefaultServerConfig(cfg.HTTPAddress),
		authMiddleware.Wrap(httptransport.LogRequests(log.Printf, mux)),
	)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("action-tracker listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	log.Println("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	wg.Wait()
	if statsPublisher != nil {
		statsPublisher.Wait()
	}
}
