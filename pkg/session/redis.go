package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// KV is the minimal key-value surface the Redis-backed store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// RedisStore persists the cookie map so a restarted process keeps its
// upstream session. Same merge contract as MemoryStore.
type RedisStore struct {
	kv KV
}

type storedCookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Path   string `json:"path,omitempty"`
	Domain string `json:"domain,omitempty"`
}

func NewRedisStore(kv KV) (*RedisStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("session: kv client is required")
	}
	return &RedisStore{kv: kv}, nil
}

func (s *RedisStore) Cookies(ctx context.Context, host string) ([]*http.Cookie, error) {
	byName, err := s.load(ctx, host)
	if err != nil {
		return nil, err
	}
	if len(byName) == 0 {
		return nil, nil
	}
	cookies := make([]*http.Cookie, 0, len(byName))
	for _, sc := range byName {
		cookies = append(cookies, &http.Cookie{
			Name:   sc.Name,
			Value:  sc.Value,
			Path:   sc.Path,
			Domain: sc.Domain,
		})
	}
	sortCookies(cookies)
	return cookies, nil
}

func (s *RedisStore) SetCookies(ctx context.Context, host string, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}

	byName, err := s.load(ctx, host)
	if err != nil {
		return err
	}
	if byName == nil {
		byName = make(map[string]storedCookie)
	}
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		byName[c.Name] = storedCookie{
			Name:   c.Name,
			Value:  c.Value,
			Path:   c.Path,
			Domain: c.Domain,
		}
	}

	payload, err := json.Marshal(byName)
	if err != nil {
		return fmt.Errorf("session: encoding cookies: %w", err)
	}
	return s.kv.Set(ctx, key(host), string(payload))
}

func (s *RedisStore) load(ctx context.Context, host string) (map[string]storedCookie, error) {
	raw, ok, err := s.kv.Get(ctx, key(host))
	if err != nil {
		return nil, fmt.Errorf("session: loading cookies: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var byName map[string]storedCookie
	if err := json.Unmarshal([]byte(raw), &byName); err != nil {
		return nil, fmt.Errorf("session: decoding cookies: %w", err)
	}
	return byName, nil
}

func key(host string) string {
	return "nemlig:session:" + host
}
