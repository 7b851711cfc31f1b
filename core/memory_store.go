package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	defaultMemoryStoreTTL        = 15 * time.Minute
	defaultMemoryStoreMaxEntries = 10_000
)

type memoryEntry struct {
	value     []byte
	createdAt time.Time
	expiresAt time.Time
}

// MemoryEphemeralStore is the in-process EphemeralStore. Entries expire by
// TTL; the oldest entry is evicted when the capacity bound is exceeded so an
// abandoned flow cannot grow the map without bound.
type MemoryEphemeralStore struct {
	mu         sync.Mutex
	defaultTTL time.Duration
	maxEntries int
	entries    map[string]memoryEntry
	now        func() time.Time
}

func NewMemoryEphemeralStore(defaultTTL time.Duration) *MemoryEphemeralStore {
	return NewMemoryEphemeralStoreWithLimits(defaultTTL, defaultMemoryStoreMaxEntries)
}

func NewMemoryEphemeralStoreWithLimits(defaultTTL time.Duration, maxEntries int) *MemoryEphemeralStore {
	if defaultTTL <= 0 {
		defaultTTL = defaultMemoryStoreTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultMemoryStoreMaxEntries
	}
	return &MemoryEphemeralStore{
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
		entries:    map[string]memoryEntry{},
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *MemoryEphemeralStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if s == nil {
		return fmt.Errorf("core: ephemeral store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("core: ephemeral key is required")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := s.now()
	s.mu.Lock()
	s.pruneExpiredLocked(now)
	s.entries[key] = memoryEntry{
		value:     append([]byte(nil), value...),
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	s.evictOverflowLocked()
	s.mu.Unlock()

	return nil
}

func (s *MemoryEphemeralStore) Get(_ context.Context, key string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("core: ephemeral store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("core: ephemeral key is required")
	}

	now := s.now()
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && now.After(entry.expiresAt) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return append([]byte(nil), entry.value...), nil
}

func (s *MemoryEphemeralStore) Consume(_ context.Context, key string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("core: ephemeral store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("core: ephemeral key is required")
	}

	now := s.now()
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	s.mu.Unlock()

	if !ok || now.After(entry.expiresAt) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return append([]byte(nil), entry.value...), nil
}

func (s *MemoryEphemeralStore) Delete(_ context.Context, key string) error {
	if s == nil {
		return fmt.Errorf("core: ephemeral store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("core: ephemeral key is required")
	}
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryEphemeralStore) pruneExpiredLocked(now time.Time) {
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

func (s *MemoryEphemeralStore) evictOverflowLocked() {
	for len(s.entries) > s.maxEntries {
		oldestKey := ""
		var oldestAt time.Time
		for key, entry := range s.entries {
			if oldestKey == "" || entry.createdAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.createdAt
			}
		}
		if oldestKey == "" {
			return
		}
		delete(s.entries, oldestKey)
	}
}

var _ EphemeralStore = (*MemoryEphemeralStore)(nil)
