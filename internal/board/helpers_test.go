package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"stickyboard/internal/remote"
	"stickyboard/internal/storage"
)

type fakeTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	live := !t.stopped && !t.fired
	t.stopped = true
	return live
}

// fakeClock collects scheduled callbacks and runs them on demand.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
	delays []time.Duration
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{f: f}
	c.timers = append(c.timers, t)
	c.delays = append(c.delays, d)
	return t
}

func (c *fakeClock) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	live := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			live++
		}
	}
	return live
}

func (c *fakeClock) FireAll() {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

type failingTransport struct{}

func (failingTransport) Fetch(context.Context) (*storage.Snapshot, error) {
	return nil, errors.New("connection refused")
}

func (failingTransport) Save(context.Context, *storage.Snapshot) (remote.Response, error) {
	return remote.Response{}, errors.New("connection refused")
}

// gatedTransport blocks every call until release is closed.
type gatedTransport struct {
	started chan struct{}
	release chan struct{}
	snap    *storage.Snapshot
}

func newGatedTransport() *gatedTransport {
	return &gatedTransport{
		started: make(chan struct{}, 4),
		release: make(chan struct{}),
		snap:    storage.NewSnapshot(),
	}
}

func (g *gatedTransport) Fetch(ctx context.Context) (*storage.Snapshot, error) {
	g.started <- struct{}{}
	<-g.release
	return g.snap, nil
}

func (g *gatedTransport) Save(ctx context.Context, _ *storage.Snapshot) (remote.Response, error) {
	g.started <- struct{}{}
	<-g.release
	return remote.Response{OK: true, Status: 200}, nil
}

func newTestBoard(opts ...Option) (*Board, *storage.Store, *fakeClock) {
	store := storage.NewStore(storage.NewMemoryKV(), nil)
	clock := &fakeClock{}
	opts = append([]Option{WithAfterFunc(clock.AfterFunc)}, opts...)
	b := New(store, remote.NewMock(store, 0), opts...)
	return b, store, clock
}

func placedRecord(left, top, width, height, text string) storage.Record {
	return storage.Record{
		Style: storage.Style{
			BackgroundColor: "#123456",
			Color:           "#fff",
			Left:            left,
			Top:             top,
			Width:           width,
			Height:          height,
		},
		Value: text,
	}
}

func indices(views []NoteView) []int {
	out := make([]int, len(views))
	for i, v := range views {
		out[i] = v.Index
	}
	return out
}
