package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vedran77/pulse-channels/internal/config"
	"github.com/vedran77/pulse-channels/internal/database"
	"github.com/vedran77/pulse-channels/internal/repository"
	"github.com/vedran77/pulse-channels/internal/repository/kv"
	"github.com/vedran77/pulse-channels/internal/repository/postgres"
)

// Backend is an opened store plus the background work it needs.
type Backend struct {
	Store repository.Store
	// Run drives change delivery until ctx ends. It is nil when the store
	// publishes changes itself.
	Run func(ctx context.Context) error
}

// OpenStore opens the store selected by cfg.StoreDriver. Postgres is
// migrated before use.
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := database.Connect(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		store := postgres.NewStore(pool, log, cfg.SubscriptionBuffer)
		return &Backend{Store: store, Run: store.ChangeFeed.Run}, nil

	case config.StoreDriverBadger:
		store, err := kv.Open(cfg.BadgerPath, cfg.BadgerInMemory, log, cfg.SubscriptionBuffer)
		if err != nil {
			return nil, err
		}
		log.Info("Opened badger store", "path", cfg.BadgerPath, "in_memory", cfg.BadgerInMemory)
		return &Backend{Store: store}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
