package session

import (
	"context"
	"net/http"
	"sort"
	"sync"
)

// Store holds upstream session cookies between calls, scoped per host.
// SetCookies merges by cookie name: a new value replaces the stored value
// of the same name, distinct names accumulate. Duplicate names never pile up.
type Store interface {
	Cookies(ctx context.Context, host string) ([]*http.Cookie, error)
	SetCookies(ctx context.Context, host string, cookies []*http.Cookie) error
}

// MemoryStore keeps cookies in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	hosts map[string]map[string]*http.Cookie
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hosts: make(map[string]map[string]*http.Cookie)}
}

func (s *MemoryStore) Cookies(_ context.Context, host string) ([]*http.Cookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byName := s.hosts[host]
	if len(byName) == 0 {
		return nil, nil
	}
	cookies := make([]*http.Cookie, 0, len(byName))
	for _, c := range byName {
		copied := *c
		cookies = append(cookies, &copied)
	}
	sortCookies(cookies)
	return cookies, nil
}

func (s *MemoryStore) SetCookies(_ context.Context, host string, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byName := s.hosts[host]
	if byName == nil {
		byName = make(map[string]*http.Cookie)
		s.hosts[host] = byName
	}
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		copied := *c
		byName[c.Name] = &copied
	}
	return nil
}

func sortCookies(cookies []*http.Cookie) {
	sort.Slice(cookies, func(i, j int) bool {
		return cookies[i].Name < cookies[j].Name
	})
}
