package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/runtiger2024/buy1688-sub000/internal/redisx"
)

var ErrNoSession = errors.New("session not found")

type Sessions interface {
	Create(ctx context.Context, c Claims) (string, error)
	Lookup(ctx context.Context, token string) (Claims, error)
	Delete(ctx context.Context, token string) error
	RevokeUser(ctx context.Context, userID int64) error
}

// RedisSessions stores opaque bearer tokens in Redis with a sliding TTL.
type RedisSessions struct {
	Redis *redis.Client
	TTL   time.Duration
}

func (s *RedisSessions) Create(ctx context.Context, c Claims) (string, error) {
	token := uuid.NewString()
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	setKey := fmt.Sprintf(redisx.KeyUserSessions, c.UserID)
	_, err = s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(redisx.KeySession, token), b, s.TTL)
		pipe.SAdd(ctx, setKey, token)
		pipe.Expire(ctx, setKey, s.TTL)
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessions) Lookup(ctx context.Context, token string) (Claims, error) {
	key := fmt.Sprintf(redisx.KeySession, token)
	c, err := s.claims(ctx, key)
	if err != nil {
		return Claims{}, err
	}
	_ = s.Redis.Expire(ctx, key, s.TTL).Err()
	return c, nil
}

func (s *RedisSessions) claims(ctx context.Context, key string) (Claims, error) {
	b, err := s.Redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Claims{}, ErrNoSession
	}
	if err != nil {
		return Claims{}, err
	}
	var c Claims
	if err := json.Unmarshal(b, &c); err != nil {
		return Claims{}, err
	}
	return c, nil
}

// Delete ends one session and drops the token from its owner's session set.
func (s *RedisSessions) Delete(ctx context.Context, token string) error {
	key := fmt.Sprintf(redisx.KeySession, token)
	c, err := s.claims(ctx, key)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, fmt.Sprintf(redisx.KeyUserSessions, c.UserID), token)
		return nil
	})
	return err
}

// RevokeUser ends every session of a user, e.g. after deactivation or a role change.
func (s *RedisSessions) RevokeUser(ctx context.Context, userID int64) error {
	setKey := fmt.Sprintf(redisx.KeyUserSessions, userID)
	tokens, err := s.Redis.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, fmt.Sprintf(redisx.KeySession, t))
	}
	keys = append(keys, setKey)
	return s.Redis.Del(ctx, keys...).Err()
}
