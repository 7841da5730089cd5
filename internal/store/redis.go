package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:"

// Redis keeps one hash per kind (field = id, value = JSON document).
// Writes (Put, Delete and Update) are serialised within this process and
// Update commits its staged changes with MULTI/EXEC.
type Redis struct {
	client *redis.Client
	mu     sync.Mutex
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) NewID() string { return newID() }

func (r *Redis) Close() error { return r.client.Close() }

func redisKey(kind Kind) string {
	return redisKeyPrefix + string(kind)
}

func (r *Redis) Get(ctx context.Context, kind Kind, id string) ([]byte, bool, error) {
	data, err := r.client.HGet(ctx, redisKey(kind), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s/%s: %w", kind, id, err)
	}
	return data, true, nil
}

func (r *Redis) Put(ctx context.Context, kind Kind, id string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.client.HSet(ctx, redisKey(kind), id, data).Err(); err != nil {
		return fmt.Errorf("put %s/%s: %w", kind, id, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, kind Kind, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, err := r.client.HDel(ctx, redisKey(kind), id).Result()
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", kind, id, err)
	}
	return n > 0, nil
}

func (r *Redis) Scan(ctx context.Context, kind Kind) ([]Record, error) {
	all, err := r.client.HGetAll(ctx, redisKey(kind)).Result()
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", kind, err)
	}

	out := make([]Record, 0, len(all))
	for id, data := range all {
		out = append(out, Record{ID: id, Data: []byte(data)})
	}
	return out, nil
}

func (r *Redis) Update(ctx context.Context, fn func(tx Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := newOverlay(r)
	if err := fn(tx); err != nil {
		return err
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		tx.each(func(kind Kind, id string, c change) {
			if c.deleted {
				pipe.HDel(ctx, redisKey(kind), id)
				return
			}
			pipe.HSet(ctx, redisKey(kind), id, c.data)
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
