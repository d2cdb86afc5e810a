package kvstore

import (
	"context"

	"brewalgo_client/internal/platform/config"

	"github.com/pkg/errors"
)

// Open builds the backend selected by cfg.StorageBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case "", config.StorageFile:
		return NewFile(cfg.StoragePath), nil
	case config.StorageMemory:
		return NewMemory(), nil
	case config.StorageRedis:
		s, err := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoragePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("POSTGRES_DSN is required for the postgres storage backend")
		}
		s, err := ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, errors.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
