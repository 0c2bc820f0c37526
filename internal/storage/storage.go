package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// DefaultKey is the single key the snapshot blob lives under.
const DefaultKey = "notes"

// KV is a string key-value store scoped to one board.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// MemoryKV is a KV held in process memory.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Store keeps every note record in one JSON blob. Each write is a full
// read, a local change and a full rewrite; concurrent writers race and the
// last one wins.
type Store struct {
	kv  KV
	key string
	log *slog.Logger
}

func NewStore(kv KV, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{kv: kv, key: DefaultKey, log: log}
}

// WithKey returns a copy of the store that uses a different blob key.
func (s *Store) WithKey(key string) *Store {
	cp := *s
	cp.key = key
	return &cp
}

// All returns the stored snapshot. A missing, unreadable or malformed blob
// yields an empty snapshot.
func (s *Store) All(ctx context.Context) *Snapshot {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.Debug("read snapshot failed, using empty", "key", s.key, "error", err)
		return NewSnapshot()
	}
	if !ok || raw == "" {
		return NewSnapshot()
	}
	snap, err := ParseSnapshot(raw)
	if err != nil {
		s.log.Debug("malformed snapshot, using empty", "key", s.key, "error", err)
		return NewSnapshot()
	}
	return snap
}

// Put stores rec under index.
func (s *Store) Put(ctx context.Context, index int, rec Record) error {
	snap := s.All(ctx)
	snap.Put(index, rec)
	return s.write(ctx, snap)
}

// Delete drops index. Deleting an absent index still rewrites the blob.
func (s *Store) Delete(ctx context.Context, index int) error {
	snap := s.All(ctx)
	snap.Delete(index)
	return s.write(ctx, snap)
}

// Replace overwrites the whole blob with snap.
func (s *Store) Replace(ctx context.Context, snap *Snapshot) error {
	return s.write(ctx, snap)
}

// Clear removes the blob entirely.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, snap *Snapshot) error {
	data, err := snap.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
