package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/protostate/internal/config"
	"github.com/aretw0/protostate/pkg/adapters/file"
	"github.com/aretw0/protostate/pkg/adapters/memory"
	"github.com/aretw0/protostate/pkg/adapters/redis"
	"github.com/aretw0/protostate/pkg/persistence/middleware"
	"github.com/aretw0/protostate/pkg/ports"
)

// LockPrefix namespaces the distributed document locks in Redis.
const LockPrefix = "protostate:lock:"

// Backend is the storage selected by the configuration.
type Backend struct {
	Store ports.DocumentStore
	// Locker is nil unless the Redis lock is enabled.
	Locker ports.DistributedLocker
	closer func() error
}

// Close releases connections held by the backend.
func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}

// OpenBackend builds the document store with CLI conventions.
// Redis connectivity is checked up front so a bad address fails at startup.
func OpenBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{}

	// 1. Base store
	switch cfg.Store {
	case config.StoreMemory:
		b.Store = memory.NewStore()
	case config.StoreFile:
		b.Store = file.New(cfg.Dir)
	case config.StoreRedis:
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithPrefix(cfg.Redis.Prefix))
		if err := rs.Client().Ping(ctx).Err(); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		b.Store = rs
		b.closer = rs.Close
		if cfg.Redis.Lock {
			b.Locker = redis.NewLocker(rs.Client(), LockPrefix)
		}
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	// 2. Encryption at rest
	key, err := cfg.Key()
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	if key != nil {
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.Store = middleware.Chain(b.Store, mw)
	}

	logger.Info("Document store ready",
		"store", string(cfg.Store),
		"encrypted", key != nil,
		"distributed_lock", b.Locker != nil)
	return b, nil
}
