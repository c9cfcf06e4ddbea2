package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/runtiger2024/buy1688-sub000/internal/redisx"
)

// Runs against a real Redis; set REDIS_TEST_ADDR (e.g. localhost:6379) to enable.
func newRedisSessions(t *testing.T) *RedisSessions {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := redisx.New(addr)
	t.Cleanup(func() { _ = rdb.Close() })
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	return &RedisSessions{Redis: rdb, TTL: time.Minute}
}

func TestRedisSessionsDeleteDropsTokenFromUserSet(t *testing.T) {
	s := newRedisSessions(t)
	ctx := context.Background()
	userID := time.Now().UnixNano()
	setKey := fmt.Sprintf(redisx.KeyUserSessions, userID)
	t.Cleanup(func() { _ = s.Redis.Del(context.Background(), setKey).Err() })

	keep, err := s.Create(ctx, Claims{UserID: userID, Role: RoleCustomer})
	if err != nil {
		t.Fatal(err)
	}
	drop, err := s.Create(ctx, Claims{UserID: userID, Role: RoleCustomer})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, drop); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := s.Lookup(ctx, drop); !errors.Is(err, ErrNoSession) {
		t.Fatalf("deleted session still resolves: %v", err)
	}
	members, err := s.Redis.SMembers(ctx, setKey).Result()
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 1 || members[0] != keep {
		t.Fatalf("session set = %v, want [%s]", members, keep)
	}
	if err := s.Delete(ctx, drop); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
