package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// Dedup tracks processed event ids per consumer scope.
type Dedup struct {
	R *redis.Client
}

func (d *Dedup) Seen(ctx context.Context, scope, eventID string) (bool, error) {
	return Exists(ctx, d.R, fmt.Sprintf(KeyDedup, scope, eventID))
}

func (d *Dedup) Mark(ctx context.Context, scope, eventID string) error {
	return d.R.Set(ctx, fmt.Sprintf(KeyDedup, scope, eventID), "1", TTLDedup).Err()
}
