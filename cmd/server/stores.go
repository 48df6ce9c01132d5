package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"bloodlink/internal/admin/adapters"
	authservice "bloodlink/internal/auth/service"
	"bloodlink/internal/auth/store/revocation"
	userstore "bloodlink/internal/auth/store/user"
	donationservice "bloodlink/internal/donation/service"
	donationstore "bloodlink/internal/donation/store"
	donorservice "bloodlink/internal/donor/service"
	donorstore "bloodlink/internal/donor/store"
	"bloodlink/internal/emergency/notifier"
	emergencyservice "bloodlink/internal/emergency/service"
	emergencystore "bloodlink/internal/emergency/store"
	inventoryservice "bloodlink/internal/inventory/service"
	inventorystore "bloodlink/internal/inventory/store"
	organizationservice "bloodlink/internal/organization/service"
	organizationstore "bloodlink/internal/organization/store"
	"bloodlink/internal/platform/config"
	"bloodlink/internal/platform/postgres"
	"bloodlink/internal/platform/redis"
	seekerservice "bloodlink/internal/seeker/service"
	seekerstore "bloodlink/internal/seeker/store"
	"bloodlink/pkg/platform/tx"
)

// Each store is used by its own module's service and by the back office, so
// the field types join both sets of methods.
type (
	donorStore interface {
		donorservice.Store
		adapters.DonorStore
	}
	donationStore interface {
		donationservice.Store
		adapters.DonationStore
	}
	organizationStore interface {
		organizationservice.Store
		Count(ctx context.Context) (int, error)
	}
	emergencyStore interface {
		emergencyservice.Store
		CountActive(ctx context.Context) (int, error)
	}
	seekerStore interface {
		seekerservice.Store
		Count(ctx context.Context) (int, error)
	}
)

// infra holds every backing store plus the resources to release on shutdown.
type infra struct {
	users         authservice.UserStore
	revocations   authservice.RevocationList
	donors        donorStore
	donations     donationStore
	organizations organizationStore
	inventory     inventoryservice.Store
	emergencies   emergencyStore
	seekers       seekerStore
	cooldown      seekerservice.CooldownStore
	notifier      emergencyservice.Notifier
	runner        tx.Runner

	db    *sql.DB
	redis *redis.Client
	kafka *notifier.KafkaNotifier
}

// openInfra picks Postgres, Redis and Kafka when configured and in-memory
// fallbacks otherwise.
func openInfra(ctx context.Context, cfg config.Server, logger *slog.Logger) (*infra, error) {
	in := &infra{}

	if cfg.Postgres.DSN != "" {
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		in.db = db
		if cfg.Postgres.MigrateOnStart {
			applied, err := postgres.Migrate(ctx, db, logger)
			if err != nil {
				in.Close(ctx)
				return nil, fmt.Errorf("migrate: %w", err)
			}
			logger.InfoContext(ctx, "migrations applied", "versions", applied)
		}
		in.users = userstore.NewPostgres(db)
		in.revocations = revocation.NewPostgresTRL(db)
		in.donors = donorstore.NewPostgres(db)
		in.donations = donationstore.NewPostgres(db)
		in.organizations = organizationstore.NewPostgres(db)
		in.inventory = inventorystore.NewPostgres(db)
		in.emergencies = emergencystore.NewPostgres(db)
		in.seekers = seekerstore.NewPostgres(db)
		in.runner = tx.NewSQLRunner(db)
		logger.InfoContext(ctx, "using postgres stores")
	} else {
		in.users = userstore.New()
		in.revocations = revocation.NewInMemoryTRL(nil)
		in.donors = donorstore.NewInMemoryStore()
		in.donations = donationstore.NewInMemoryStore()
		in.organizations = organizationstore.NewInMemoryStore()
		in.inventory = inventorystore.NewInMemoryStore()
		in.emergencies = emergencystore.NewInMemoryStore()
		in.seekers = seekerstore.NewInMemoryStore()
		in.runner = &tx.LockRunner{}
		logger.WarnContext(ctx, "DATABASE_URL not set, using in-memory stores")
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		in.Close(ctx)
		return nil, err
	}
	if rdb != nil {
		in.redis = rdb
		in.revocations = revocation.NewRedisTRL(rdb.Client)
		in.cooldown = seekerstore.NewRedisCooldown(rdb.Client)
		logger.InfoContext(ctx, "using redis for token revocation and seeker cooldown")
	} else {
		in.cooldown = seekerstore.NewInMemoryCooldown()
	}

	if len(cfg.Kafka.Brokers) > 0 {
		kn, err := notifier.NewKafkaNotifier(notifier.KafkaConfig{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.EmergencyTopic,
			ClientID: cfg.Kafka.ClientID,
		}, logger)
		if err != nil {
			in.Close(ctx)
			return nil, err
		}
		in.kafka = kn
		in.notifier = kn
		if cfg.Kafka.CreateTopic {
			if err := kn.EnsureTopic(ctx, 3, 1); err != nil {
				in.Close(ctx)
				return nil, err
			}
		}
	} else {
		in.notifier = notifier.NewLogNotifier(logger)
	}
	return in, nil
}

// Health pings the external dependencies that are configured.
func (in *infra) Health(ctx context.Context) error {
	var errs []error
	if in.db != nil {
		if err := in.db.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		}
	}
	if in.redis != nil {
		if err := in.redis.Health(ctx); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (in *infra) Close(ctx context.Context) {
	if in.kafka != nil {
		_ = in.kafka.Close(ctx)
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
	if in.db != nil {
		_ = in.db.Close()
	}
}
