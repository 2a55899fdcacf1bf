package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/protostate/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.DocumentStore using Redis.
// Each document is a hash of key to blob; an index ZSET tracks document ids.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for documents, refreshed on every write.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for documents.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "protostate:document:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client returns the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(document string) string {
	return s.prefix + document
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Get returns the blob stored under key for document.
func (s *Store) Get(ctx context.Context, document, key string) (string, error) {
	val, err := s.client.HGet(ctx, s.key(document), key).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Set writes one field of the document hash and refreshes the index.
func (s *Store) Set(ctx context.Context, document, key, value string) error {
	pipe := s.client.TxPipeline()

	pipe.HSet(ctx, s.key(document), key, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(document), s.ttl)
	}

	// Score = Now + TTL. If TTL = 0, Score = +Inf (approx).
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: document,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, document string) error {
	pipe := s.client.TxPipeline()

	pipe.Del(ctx, s.key(document))
	pipe.ZRem(ctx, s.indexKey(), document)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the documents in the index, pruning expired ones first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	// ZREMRANGEBYSCORE key -inf (now)
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("(%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired documents: %w", err)
	}

	documents, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
