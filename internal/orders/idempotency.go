package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/runtiger2024/buy1688-sub000/internal/redisx"
)

// RedisIdempotency keeps Idempotency-Key -> order id for redisx.TTLIdempotency.
type RedisIdempotency struct {
	Redis *redis.Client
}

func (r *RedisIdempotency) Lookup(ctx context.Context, customerID int64, key string) (int64, bool, error) {
	id, err := r.Redis.Get(ctx, fmt.Sprintf(redisx.KeyIdemOrderCreate, customerID, key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (r *RedisIdempotency) Remember(ctx context.Context, customerID int64, key string, orderID int64) error {
	return r.Redis.SetNX(ctx, fmt.Sprintf(redisx.KeyIdemOrderCreate, customerID, key), orderID, redisx.TTLIdempotency).Err()
}
