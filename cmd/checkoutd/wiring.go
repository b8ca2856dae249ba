package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/infrastructure/config"
	"github.com/bibbank/smart-checkout/internal/infrastructure/messaging"
	"github.com/bibbank/smart-checkout/internal/infrastructure/narrative"
	"github.com/bibbank/smart-checkout/internal/infrastructure/pending"
	pgrepo "github.com/bibbank/smart-checkout/internal/infrastructure/postgres"
	"github.com/bibbank/smart-checkout/internal/presentation/rest"
	"github.com/bibbank/smart-checkout/pkg/kafka"
	"github.com/bibbank/smart-checkout/pkg/postgres"
)

func loadRules(cfg *config.Config) (model.RuleSet, error) {
	var (
		rules model.RuleSet
		err   error
	)
	if cfg.RulesFile != "" {
		rules, err = config.LoadRules(cfg.RulesFile)
	} else {
		rules, err = config.DefaultRuleSet()
	}
	if err != nil {
		return model.RuleSet{}, err
	}
	if err := rules.Validate(); err != nil {
		return model.RuleSet{}, fmt.Errorf("invalid rule set: %w", err)
	}
	return rules, nil
}

// buildPendingStore returns the store, a size probe for the pending gauge
// (nil when the backend cannot report one cheaply) and a close function.
func buildPendingStore(
	ctx context.Context,
	cfg *config.Config,
	checks map[string]rest.ReadinessCheck,
	logger *slog.Logger,
) (port.PendingTransactionStore, func() int, func(), error) {
	if cfg.PendingStore == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.RedisAddr, err)
		}
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		logger.Info("using redis pending store", "addr", cfg.RedisAddr, "ttl", cfg.PendingTTL)

		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}
		return pending.NewRedisStore(client, cfg.PendingTTL), nil, closeFn, nil
	}

	store := pending.NewMemoryStore(cfg.PendingTTL)
	if cfg.PendingTTL > 0 {
		sweepCtx, stop := context.WithCancel(ctx)
		go store.RunSweeper(sweepCtx, sweepInterval(cfg.PendingTTL))
		logger.Info("using in-memory pending store", "ttl", cfg.PendingTTL)
		return store, store.Len, stop, nil
	}
	logger.Info("using in-memory pending store without expiry")
	return store, store.Len, func() {}, nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	if interval := ttl / 4; interval > time.Second {
		return interval
	}
	return time.Second
}

// buildRecordRepository connects the audit store. An empty DATABASE_URL
// disables auditing.
func buildRecordRepository(
	ctx context.Context,
	cfg *config.Config,
	checks map[string]rest.ReadinessCheck,
	logger *slog.Logger,
) (port.CheckoutRecordRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL not set, checkout audit disabled")
		return nil, func() {}, nil
	}

	version, err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("database migrated", "version", version)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(dbCtx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, nil, err
	}
	checks["database"] = func(ctx context.Context) error { return postgres.HealthCheck(ctx, pool) }
	logger.Info("connected to database")

	return pgrepo.NewCheckoutRecordRepository(pool), pool.Close, nil
}

// buildPublisher returns a Kafka publisher, or a log publisher when no
// brokers are configured.
func buildPublisher(cfg *config.Config, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, logging domain events")
		return messaging.NewLogPublisher(logger), func() {}, nil
	}

	producer, err := kafka.NewProducer(kafka.Config{
		Brokers:       cfg.KafkaBrokers,
		ClientID:      serviceName,
		TLS:           cfg.KafkaTLS,
		SASLMechanism: cfg.KafkaSASLMechanism,
		SASLUsername:  cfg.KafkaSASLUsername,
		SASLPassword:  cfg.KafkaSASLPassword,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("publishing domain events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)

	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Error("failed to close kafka producer", "error", err)
		}
	}
	return messaging.NewKafkaPublisher(producer, cfg.KafkaTopic, logger), closeFn, nil
}

// buildNarrativeClient returns nil when no usable API key is configured, in
// which case every narrative uses the fallback template.
func buildNarrativeClient(cfg *config.Config, logger *slog.Logger) port.NarrativeClient {
	client, err := narrative.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, nil)
	if err != nil {
		logger.Info("narrative delegate disabled, using fallback narratives", "reason", err.Error())
		return nil
	}
	logger.Info("narrative delegate configured", "model", client.Model(), "base_url", client.BaseURL())
	return client
}
