package session

import (
	"context"
	"net/http"
	"testing"
)

type stubKV struct {
	values map[string]string
}

func (s *stubKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *stubKV) Set(_ context.Context, key, value string) error {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewRedisStore(&stubKV{})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}

	if err := store.SetCookies(ctx, "www.nemlig.com", []*http.Cookie{
		{Name: "a", Value: "1"},
	}); err != nil {
		t.Fatalf("SetCookies: %v", err)
	}
	if err := store.SetCookies(ctx, "www.nemlig.com", []*http.Cookie{
		{Name: "a", Value: "2"},
		{Name: "b", Value: "3"},
	}); err != nil {
		t.Fatalf("SetCookies: %v", err)
	}

	cookies, err := store.Cookies(ctx, "www.nemlig.com")
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	if cookies[0].Value != "2" || cookies[1].Value != "3" {
		t.Fatalf("merge by name failed: %v", cookies)
	}
}

func TestRedisStoreEmptyHost(t *testing.T) {
	store, _ := NewRedisStore(&stubKV{})
	cookies, err := store.Cookies(context.Background(), "unknown.test")
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if len(cookies) != 0 {
		t.Fatalf("expected no cookies, got %d", len(cookies))
	}
}

func TestNewRedisStoreRequiresClient(t *testing.T) {
	if _, err := NewRedisStore(nil); err == nil {
		t.Fatal("expected error for nil kv client")
	}
}
