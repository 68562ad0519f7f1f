// Package blobstore exposes a named-container blob store for the upload
// page. Containers come into existence on first write; listing an absent
// container yields an empty result rather than an error.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nodcareer/orderflow/internal/config"
)

// ErrBlobNotFound is returned when deleting a blob that does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// Store is the pluggable blob store abstraction.
type Store interface {
	List(ctx context.Context, container string) ([]string, error)
	Put(ctx context.Context, container, name string, data []byte) error
	Delete(ctx context.Context, container, name string) error
}

// Module provides the blob store to the Fx graph.
var Module = fx.Provide(NewStore)

// NewStore initialises the configured blob store backend.
func NewStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.Info("using in-memory blob store")
		return NewMemoryStore(), nil
	case "redis":
		return newRedisStore(lc, cfg.Storage, logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

// redisStore keeps one hash per container: field = blob name, value = bytes.
type redisStore struct {
	client *goredis.Client
}

func newRedisStore(lc fx.Lifecycle, cfg config.Storage, logger *zap.Logger) (Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	store := &redisStore{client: client}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("ping storage redis: %w", err)
			}
			logger.Info("blob store connected", zap.String("addr", cfg.Redis.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("closing blob store")
			return client.Close()
		},
	})

	return store, nil
}

func containerKey(container string) string {
	return "blob:" + container
}

func (s *redisStore) List(ctx context.Context, container string) ([]string, error) {
	names, err := s.client.HKeys(ctx, containerKey(container)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (s *redisStore) Put(ctx context.Context, container, name string, data []byte) error {
	if name == "" {
		return errors.New("blob name is required")
	}
	// HSET overwrites an existing field, matching overwrite-if-exists upload
	// semantics, and creates the container hash on first use.
	return s.client.HSet(ctx, containerKey(container), name, data).Err()
}

func (s *redisStore) Delete(ctx context.Context, container, name string) error {
	removed, err := s.client.HDel(ctx, containerKey(container), name).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrBlobNotFound
	}
	return nil
}
