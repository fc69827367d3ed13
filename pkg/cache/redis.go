package cache

import (
	"context"
	"fmt"
	"time"

	"portal/pkg/config"

	"github.com/redis/go-redis/v9"
)

const lockPrefix = "lock:"

// Redis тонкая обертка над клиентом: распределенные блокировки для cron задач
type Redis struct {
	client *redis.Client
	owner  string
}

func NewRedis(ctx context.Context, conf config.Redis, owner string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{client: client, owner: owner}, nil
}

// TryLock захватывает блокировку resource на ttl. false - блокировку держит другой экземпляр.
func (r *Redis) TryLock(ctx context.Context, resource string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, LockKey(resource), r.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", resource, err)
	}
	return ok, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func LockKey(resource string) string {
	return lockPrefix + resource
}
