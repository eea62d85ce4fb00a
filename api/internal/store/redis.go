package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"ai-timetable/api/internal/config"
)

// Redis keeps the record under one key.
type Redis struct {
	rdb *goredis.Client
	key string
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connect %s: %w", cfg.Addr, err)
	}
	key := cfg.Key
	if key == "" {
		key = "timetable_data"
	}
	return &Redis{rdb: rdb, key: key}, nil
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Read(ctx context.Context) ([]byte, error) {
	b, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

// Write is a single SET, which redis applies atomically.
func (r *Redis) Write(ctx context.Context, b []byte) error {
	return r.rdb.Set(ctx, r.key, b, 0).Err()
}

func (r *Redis) Remove(ctx context.Context) error {
	return r.rdb.Del(ctx, r.key).Err()
}

func (r *Redis) Close() error { return r.rdb.Close() }
