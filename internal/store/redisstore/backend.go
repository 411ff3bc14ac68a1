package redisstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Backend keeps one Redis string per collection.
type Backend struct {
	rdb    kv
	prefix string
}

func New(rdb *redis.Client, prefix string) *Backend {
	return newBackend(rdb, prefix)
}

func newBackend(rdb kv, prefix string) *Backend {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "cronos"
	}
	return &Backend{rdb: rdb, prefix: prefix}
}

// Open parses a redis:// URL and checks the connection.
func Open(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (b *Backend) Load(ctx context.Context, collection string) ([]byte, error) {
	payload, err := b.rdb.Get(ctx, b.key(collection)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return payload, nil
}

func (b *Backend) StoreAll(ctx context.Context, collection string, payload []byte) error {
	return b.rdb.Set(ctx, b.key(collection), payload, 0).Err()
}

func (b *Backend) key(collection string) string {
	return b.prefix + ":" + collection
}
