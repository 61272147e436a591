package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type stubCmdable struct {
	values map[string]string
}

func (s *stubCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (s *stubCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := s.values[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (s *stubCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (s *stubCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(s.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestGetMissingKey(t *testing.T) {
	c := &Client{store: &stubCmdable{}}
	_, ok, err := c.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("missing key should report ok=false")
	}
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	c := &Client{store: &stubCmdable{}}

	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || val != "v" {
		t.Fatalf("Get returned (%q,%v,%v)", val, ok, err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("key should be gone after Del")
	}
}
