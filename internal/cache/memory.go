package cache

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

const (
	defaultCapacity           = 10000
	defaultNumShards          = 64
	defaultEvictionPercentage = 10
	// sturdyc applies a single TTL to the whole client, so it is set to the
	// longest lifetime we accept and each entry carries its own deadline.
	maxMemoryTTL = 24 * time.Hour
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store backed by sturdyc. Used for local
// development and tests.
type MemoryStore struct {
	client *sturdyc.Client[memoryEntry]
	now    func() time.Time
}

func NewMemoryStore(capacity, numShards int) *MemoryStore {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if numShards <= 0 {
		numShards = defaultNumShards
	}
	return &MemoryStore{
		client: sturdyc.New[memoryEntry](capacity, numShards, maxMemoryTTL, defaultEvictionPercentage),
		now:    time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := s.client.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.client.Delete(key)
		return nil, ErrMiss
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.client.Set(key, entry)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.client.Delete(key)
	}
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
