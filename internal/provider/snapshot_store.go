package provider

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheEntry is the cached snapshot together with the moment it was fetched.
type CacheEntry struct {
	Snapshot  Snapshot
	FetchedAt time.Time
}

// SnapshotStore keeps the most recent successful snapshot.
type SnapshotStore interface {
	Load(ctx context.Context) (CacheEntry, bool, error)
	Save(ctx context.Context, entry CacheEntry) error
}

var (
	_ SnapshotStore = (*MemorySnapshotStore)(nil)
	_ SnapshotStore = (*RedisSnapshotStore)(nil)
)

// MemorySnapshotStore keeps the snapshot in process memory.
type MemorySnapshotStore struct {
	mu    sync.RWMutex
	entry CacheEntry
	ok    bool
}

// NewMemorySnapshotStore creates an empty in-memory store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

// Load returns the stored entry, if any.
func (s *MemorySnapshotStore) Load(_ context.Context) (CacheEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entry, s.ok, nil
}

// Save replaces the stored entry.
func (s *MemorySnapshotStore) Save(_ context.Context, entry CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = entry
	s.ok = true
	return nil
}

// RedisSnapshotStore shares the snapshot between service instances through a Redis hash.
// Freshness is decided by the caller from FetchedAt; retention only bounds how long
// a stale entry survives in Redis.
type RedisSnapshotStore struct {
	client    *redis.Client
	key       string
	retention time.Duration
}

// NewRedisSnapshotStore creates a new RedisSnapshotStore.
func NewRedisSnapshotStore(client *redis.Client, retention time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		client:    client,
		key:       "rates_cache:{RUB}",
		retention: retention,
	}
}

// Load reads the snapshot hash. A missing or partial hash is reported as absent.
func (s *RedisSnapshotStore) Load(ctx context.Context) (CacheEntry, bool, error) {
	vals, err := s.client.HMGet(ctx, s.key, "usd", "eur", "fetched_at").Result()
	if err != nil {
		return CacheEntry{}, false, fmt.Errorf("redis hmget %s: %w", s.key, err)
	}
	if len(vals) != 3 || vals[0] == nil || vals[1] == nil || vals[2] == nil {
		return CacheEntry{}, false, nil
	}

	usd, err1 := parseFloat(vals[0])
	eur, err2 := parseFloat(vals[1])
	tsStr, ok := vals[2].(string)
	if err1 != nil || err2 != nil || !ok {
		return CacheEntry{}, false, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, tsStr)
	if err != nil {
		return CacheEntry{}, false, nil
	}

	snap := Snapshot{USDRate: usd, EURRate: eur}
	if snap.Validate() != nil {
		return CacheEntry{}, false, nil
	}
	return CacheEntry{Snapshot: snap, FetchedAt: ts}, true, nil
}

// Save writes the snapshot hash and refreshes its expiry.
func (s *RedisSnapshotStore) Save(ctx context.Context, entry CacheEntry) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key,
		"usd", strconv.FormatFloat(entry.Snapshot.USDRate, 'g', -1, 64),
		"eur", strconv.FormatFloat(entry.Snapshot.EURRate, 'g', -1, 64),
		"fetched_at", entry.FetchedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, s.key, s.retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save %s: %w", s.key, err)
	}
	return nil
}

func parseFloat(v any) (float64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseFloat(x, 64)
	case []byte:
		return strconv.ParseFloat(string(x), 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
