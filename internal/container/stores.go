package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/my-maps-api/config"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/datastore"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/gcs"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/memory"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/postgres"
	"github.com/oksasatya/my-maps-api/pkg/helpers"
)

// OpenStores builds the entity and blob stores selected by cfg and puts them
// in the container. The returned func releases every client it opened.
func OpenStores(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.StoreBackend {
	case config.StoreDatastore:
		client, err := datastore.NewClient(ctx, cfg.DatastoreProjectID, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return closeAll, fmt.Errorf("datastore client: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		SetEntityStore(datastore.NewEntityStore(client))
	case config.StorePostgres:
		pool, err := postgres.Open(ctx, postgres.PoolOptions{
			DSN:         cfg.PostgresDSN(),
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		}, cfg.MigrationsDir, logger)
		if err != nil {
			return closeAll, fmt.Errorf("postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		SetEntityStore(postgres.NewEntityStore(pool))
	case config.StoreMemory:
		logger.Warn("STORE_BACKEND=memory: entities are lost on restart")
		SetEntityStore(memory.NewEntityStore())
	default:
		return closeAll, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	switch cfg.BlobBackend {
	case config.BlobGCS:
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return closeAll, fmt.Errorf("gcs client: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		SetBlobStore(gcs.NewBlobStore(client, cfg.GCSBucket))
	case config.BlobMemory:
		SetBlobStore(memory.NewBlobStore(cfg.MemoryBlobBaseURL))
	default:
		return closeAll, fmt.Errorf("unknown BLOB_BACKEND %q", cfg.BlobBackend)
	}

	logger.WithFields(logrus.Fields{"store": cfg.StoreBackend, "blobs": cfg.BlobBackend}).Info("stores ready")
	return closeAll, nil
}
