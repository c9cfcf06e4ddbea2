package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/runtiger2024/buy1688-sub000/internal/redisx"
)

type Deduper interface {
	// Claim reports true the first time an event id is seen.
	Claim(ctx context.Context, eventID string) (bool, error)
}

type RedisDedup struct {
	Redis   *redis.Client
	Service string
}

func (d *RedisDedup) Claim(ctx context.Context, eventID string) (bool, error) {
	return redisx.Claim(ctx, d.Redis, fmt.Sprintf(redisx.KeyDedup, d.Service, eventID), redisx.TTLDedup)
}
