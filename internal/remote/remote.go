package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"stickyboard/internal/storage"
)

// DefaultDelay is the simulated round-trip latency of the mock.
const DefaultDelay = time.Second

const mockKey = "remote"

// Response mirrors the status part of an HTTP reply.
type Response struct {
	OK     bool `json:"ok"`
	Status int  `json:"status"`
}

// Transport moves whole snapshots to and from a remote endpoint.
type Transport interface {
	Fetch(ctx context.Context) (*storage.Snapshot, error)
	Save(ctx context.Context, snap *storage.Snapshot) (Response, error)
}

// Mock simulates a remote endpoint. Data is kept in a storage.Store so a
// durable KV makes the "server" copy outlive the process.
type Mock struct {
	store *storage.Store
	delay time.Duration
}

// NewMock returns a mock that waits delay before every reply.
func NewMock(store *storage.Store, delay time.Duration) *Mock {
	return &Mock{store: store.WithKey(mockKey), delay: delay}
}

func (m *Mock) Fetch(ctx context.Context) (*storage.Snapshot, error) {
	if err := m.wait(ctx); err != nil {
		return nil, fmt.Errorf("fetch notes: %w", err)
	}
	return m.store.All(ctx), nil
}

func (m *Mock) Save(ctx context.Context, snap *storage.Snapshot) (Response, error) {
	if err := m.store.Replace(ctx, snap.Clone()); err != nil {
		return Response{}, fmt.Errorf("save notes: %w", err)
	}
	if err := m.wait(ctx); err != nil {
		return Response{}, fmt.Errorf("save notes: %w", err)
	}
	return Response{OK: true, Status: http.StatusOK}, nil
}

func (m *Mock) wait(ctx context.Context) error {
	if m.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
