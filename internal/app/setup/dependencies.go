package setup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/LavaJover/shvark-escrow-service/internal/client"
	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/cache"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/gateway"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/repository"
)

// Dependencies are the process-wide adapters behind the usecases.
type Dependencies struct {
	Config      *config.EscrowConfig
	DB          *gorm.DB
	Store       domain.Store
	Notifier    domain.NotificationSink
	Events      domain.EventPublisher
	Gateway     domain.PaymentGateway
	Profiles    domain.UserProfileProvider
	Banks       domain.BankAccountProvider
	Idempotency domain.IdempotencyStore
	Metrics     *metrics.EscrowMetrics
	Registry    *prometheus.Registry

	closers []io.Closer
}

func InitializeDependencies(ctx context.Context, cfg *config.EscrowConfig) (*Dependencies, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := &Dependencies{
		Config:   cfg,
		Metrics:  metrics.NewEscrowMetrics(registry),
		Registry: registry,
	}

	switch cfg.Storage {
	case config.StorageMemory:
		slog.Warn("using in-memory storage, state is lost on restart")
		deps.Store = memory.NewStore()
	default:
		deps.DB = postgres.MustInitDB(cfg)
		deps.Store = repository.NewGormStore(deps.DB)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := kafka.NewDefaultKafkaPublisher(cfg.Kafka.Brokers)
		deps.closers = append(deps.closers, kafkaPublisher)
		escrowPublisher := kafka.NewEscrowPublisher(kafkaPublisher, cfg.Kafka.EventsTopic, cfg.Kafka.NotificationsTopic)
		deps.Notifier, deps.Events = escrowPublisher, escrowPublisher
	} else {
		slog.Warn("no kafka brokers configured, notifications and events are only logged")
		eventLogger := logger.NewEventLogger(slog.Default())
		deps.Notifier, deps.Events = eventLogger, eventLogger
	}

	if cfg.Webhook.URL != "" {
		deps.Notifier = notifier.NewWebhookNotifier(cfg.Webhook.URL, cfg.Webhook.Secret, cfg.Webhook.Timeout)
	}

	switch cfg.Gateway.Mode {
	case config.GatewayHTTP:
		deps.Gateway = gateway.NewInvoiceClient(cfg.Gateway.BaseURL, cfg.Gateway.SecretKey, cfg.Gateway.Timeout)
	default:
		slog.Warn("using simulated payment gateway")
		deps.Gateway = gateway.NewSimulatedGateway("")
	}

	if cfg.UserService.BaseURL != "" {
		users := client.NewHTTPUserClient(cfg.UserService.BaseURL, cfg.UserService.Timeout)
		deps.Profiles, deps.Banks = users, users
	} else {
		slog.Warn("no user service configured, every user is treated as KYC-complete")
		directory := client.NewStaticUserDirectory()
		directory.AllVerified = true
		deps.Profiles, deps.Banks = directory, directory
	}

	if cfg.Redis.Addr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		redisClient, err := cache.Connect(pingCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		deps.closers = append(deps.closers, redisClient)
		deps.Idempotency = cache.NewRedisIdempotencyStore(redisClient)
	} else {
		deps.Idempotency = cache.NewMemoryIdempotencyStore()
	}

	return deps, nil
}

// Close releases the adapters in reverse order of creation.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			slog.Error("failed to close dependency", "error", err)
		}
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
