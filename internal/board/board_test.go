package board

import (
	"context"
	"testing"
	"time"

	"stickyboard/internal/remote"
	"stickyboard/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_AddRemove(t *testing.T) {
	ctx := context.Background()
	b, store, _ := newTestBoard()

	for i := 0; i < 3; i++ {
		_, err := b.Add(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2, 3}, indices(b.Notes()))

	require.NoError(t, b.Remove(ctx, 2))
	assert.Equal(t, []int{1, 3}, indices(b.Notes()))

	snap := store.All(ctx)
	_, ok := snap.Get(2)
	assert.False(t, ok)
	assert.Equal(t, []string{"1", "3"}, snap.Keys())

	t.Run("absent index is a no-op", func(t *testing.T) {
		require.NoError(t, b.Remove(ctx, 2))
		require.NoError(t, b.Remove(ctx, 42))
		assert.Equal(t, []int{1, 3}, indices(b.Notes()))
	})

	t.Run("indices are never reused", func(t *testing.T) {
		v, err := b.Add(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, v.Index)
	})
}

func TestBoard_CountFollowsAddsAndRemoves(t *testing.T) {
	ctx := context.Background()
	b, store, _ := newTestBoard()

	adds, removes := 0, 0
	for i := 0; i < 20; i++ {
		v, err := b.Add(ctx)
		require.NoError(t, err)
		adds++
		if v.Index%3 == 0 {
			require.NoError(t, b.Remove(ctx, v.Index))
			removes++
		}
		// removing something that does not exist changes nothing
		require.NoError(t, b.Remove(ctx, 1000+i))
	}
	assert.Len(t, b.Notes(), adds-removes)
	assert.Equal(t, adds-removes, store.All(ctx).Len())
}

func TestBoard_AddColors(t *testing.T) {
	ctx := context.Background()
	b, store, _ := newTestBoard(WithColors(func() string { return "#ffffff" }))

	v, err := b.Add(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", v.Style.BackgroundColor)
	assert.Equal(t, "#000", v.Style.Color)
	assert.False(t, v.Active)

	rec, ok := store.All(ctx).Get(v.Index)
	require.True(t, ok)
	assert.Equal(t, storage.Style{
		BackgroundColor: "#ffffff",
		Color:           "#000",
		Left:            "0px",
		Top:             "0px",
		Width:           "200px",
		Height:          "200px",
	}, rec.Style)
}

func TestBoard_SetActive(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newTestBoard()
	for i := 0; i < 4; i++ {
		_, err := b.Add(ctx)
		require.NoError(t, err)
	}

	activeOf := func() []int {
		var out []int
		for _, v := range b.Notes() {
			if v.Active {
				out = append(out, v.Index)
			}
		}
		return out
	}

	for _, idx := range []int{2, 4, 1, 1, 3} {
		b.SetActive(idx)
		assert.Equal(t, []int{idx}, activeOf())
	}

	b.SetActive(99)
	assert.Empty(t, activeOf())

	// order is untouched by activation
	assert.Equal(t, []int{1, 2, 3, 4}, indices(b.Notes()))
}

func TestBoard_LoadFromKeepsSourceOrder(t *testing.T) {
	ctx := context.Background()
	b, store, _ := newTestBoard()

	src, err := storage.ParseSnapshot(`{
		"9": {"style": {"left": "1px"}, "value": "a"},
		"2": {"style": {"left": "2px"}, "value": "b"},
		"5": {"style": {"left": "3px"}, "value": "c"}
	}`)
	require.NoError(t, err)

	require.NoError(t, b.LoadFrom(ctx, src))
	notes := b.Notes()
	require.Len(t, notes, 3)
	assert.Equal(t, []int{1, 2, 3}, indices(notes))
	assert.Equal(t, "a", notes[0].Value)
	assert.Equal(t, "b", notes[1].Value)
	assert.Equal(t, "c", notes[2].Value)
	assert.Equal(t, "3px", notes[2].Style.Left)

	// storage is rewritten under the new indices
	assert.Equal(t, []string{"1", "2", "3"}, store.All(ctx).Keys())

	// a second load continues the counter
	require.NoError(t, b.LoadFrom(ctx, src))
	assert.Equal(t, []int{4, 5, 6}, indices(b.Notes()))
	assert.Equal(t, []string{"4", "5", "6"}, store.All(ctx).Keys())
}

func TestBoard_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	store := storage.NewStore(kv, nil)
	clock := &fakeClock{}

	first := New(store, remote.NewMock(store, 0), WithAfterFunc(clock.AfterFunc), WithTrash(Rect{Width: 10, Height: 10}))
	v, err := first.Add(ctx)
	require.NoError(t, err)
	_, err = first.Drag(ctx, v.Index, Point{X: 5, Y: 5}, Point{X: 305, Y: 405})
	require.NoError(t, err)
	require.NoError(t, first.PointerDown(v.Index, Point{X: 490, Y: 590}))
	require.NoError(t, first.PointerUp(ctx, v.Index, &Size{Width: 250, Height: 180}))
	require.NoError(t, first.KeyUp(v.Index, "buy milk"))
	clock.FireAll()

	want, _ := first.Note(v.Index)

	second := New(store, remote.NewMock(store, 0))
	require.NoError(t, second.LoadFromStorage(ctx))
	notes := second.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, want.Style, notes[0].Style)
	assert.Equal(t, "buy milk", notes[0].Value)
	assert.Equal(t, "300px", notes[0].Style.Left)
	assert.Equal(t, "400px", notes[0].Style.Top)
	assert.Equal(t, "250px", notes[0].Style.Width)
	assert.Equal(t, "180px", notes[0].Style.Height)
}

func TestBoard_LoadFromStorageMalformed(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, storage.DefaultKey, "garbage"))
	store := storage.NewStore(kv, nil)

	b := New(store, remote.NewMock(store, 0))
	require.NoError(t, b.LoadFromStorage(ctx))
	assert.Empty(t, b.Notes())
}

func TestBoard_LoadFromRemoteEmpty(t *testing.T) {
	ctx := context.Background()
	b, store, _ := newTestBoard()
	for i := 0; i < 3; i++ {
		_, err := b.Add(ctx)
		require.NoError(t, err)
	}

	require.NoError(t, b.LoadFromRemote(ctx))
	assert.Empty(t, b.Notes())
	assert.Equal(t, 0, store.All(ctx).Len())
	assert.False(t, b.Loading())
}

func TestBoard_SaveThenLoadRemote(t *testing.T) {
	ctx := context.Background()
	b, store, _ := newTestBoard()
	for i := 0; i < 2; i++ {
		_, err := b.Add(ctx)
		require.NoError(t, err)
	}
	require.NoError(t, b.KeyUp(1, "kept"))
	require.NoError(t, b.PointerUp(ctx, 1, nil))

	resp, err := b.SaveToRemote(ctx)
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, 200, resp.Status)

	_, err = b.Add(ctx)
	require.NoError(t, err)

	require.NoError(t, b.LoadFromRemote(ctx))
	notes := b.Notes()
	assert.Equal(t, []int{4, 5}, indices(notes))
	assert.Equal(t, "kept", notes[0].Value)
	assert.Equal(t, []string{"4", "5"}, store.All(ctx).Keys())
}

func TestBoard_LoadFromRemoteFailure(t *testing.T) {
	ctx := context.Background()
	store := storage.NewStore(storage.NewMemoryKV(), nil)
	b := New(store, failingTransport{})
	_, err := b.Add(ctx)
	require.NoError(t, err)

	require.NoError(t, b.LoadFromRemote(ctx))
	assert.Empty(t, b.Notes())
	assert.False(t, b.Loading())

	resp, err := b.SaveToRemote(ctx)
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.False(t, b.Loading())
}

func TestBoard_OverlappingRemoteCalls(t *testing.T) {
	ctx := context.Background()
	store := storage.NewStore(storage.NewMemoryKV(), nil)
	gate := newGatedTransport()
	b := New(store, gate)

	done := make(chan error, 1)
	go func() { done <- b.LoadFromRemote(ctx) }()

	select {
	case <-gate.started:
	case <-time.After(time.Second):
		t.Fatal("remote call did not start")
	}
	assert.True(t, b.Loading())

	assert.ErrorIs(t, b.LoadFromRemote(ctx), ErrBusy)
	_, err := b.SaveToRemote(ctx)
	assert.ErrorIs(t, err, ErrBusy)

	// board stays usable while the call is in flight
	_, err = b.Add(ctx)
	require.NoError(t, err)

	close(gate.release)
	require.NoError(t, <-done)
	assert.False(t, b.Loading())
	assert.Empty(t, b.Notes())
}

func TestBoard_UnknownNote(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newTestBoard()

	assert.ErrorIs(t, b.PointerDown(7, Point{}), ErrNoteNotFound)
	_, err := b.PointerMove(ctx, 7, Point{})
	assert.ErrorIs(t, err, ErrNoteNotFound)
	assert.ErrorIs(t, b.PointerUp(ctx, 7, nil), ErrNoteNotFound)
	assert.ErrorIs(t, b.KeyUp(7, "x"), ErrNoteNotFound)
	_, ok := b.Note(7)
	assert.False(t, ok)
}

func TestBoard_State(t *testing.T) {
	trash := Rect{Left: 10, Top: 20, Width: 30, Height: 40}
	b, _, _ := newTestBoard(WithTrash(trash))
	_, err := b.Add(context.Background())
	require.NoError(t, err)

	st := b.State()
	assert.Len(t, st.Notes, 1)
	assert.False(t, st.Loading)
	assert.Equal(t, trash, st.Trash)
}
