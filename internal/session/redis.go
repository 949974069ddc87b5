package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(id string) string {
	return "session:" + id
}

func (r *RedisStore) Save(ctx context.Context, id string, s domain.Session) error {
	ttl, err := ttlFor(s.Token, r.ttl, time.Now())
	if err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	return r.client.Set(ctx, cacheKey(id), data, ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context, id string) (domain.Session, error) {
	data, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, ErrNotFound
		}
		return domain.Session{}, err
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, cacheKey(id)).Err()
}
