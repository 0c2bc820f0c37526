package notes

import (
	"context"
	"errors"
	"testing"

	"stickyboard/internal/board"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Apply(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Add(ctx)
	require.NoError(t, err)

	_, err = svc.Apply(ctx, Event{Type: "bogus", Index: 1})
	assert.True(t, errors.Is(err, ErrUnknownEvent))

	_, err = svc.Apply(ctx, Event{Type: EventActivate, Index: 2})
	assert.ErrorIs(t, err, board.ErrNoteNotFound)

	res, err := svc.Apply(ctx, Event{Type: EventActivate, Index: 1})
	require.NoError(t, err)
	assert.True(t, res.State.Notes[0].Active)
}

func TestService_MoveAndSetText(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	_, err := svc.Add(ctx)
	require.NoError(t, err)

	removed, err := svc.Move(ctx, 1, 250, 120)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, svc.SetText(ctx, 1, "moved"))
	rec, ok := store.All(ctx).Get(1)
	require.True(t, ok)
	assert.Equal(t, "250px", rec.Style.Left)
	assert.Equal(t, "120px", rec.Style.Top)
	assert.Equal(t, "moved", rec.Value)

	// back to the trash corner
	removed, err = svc.Move(ctx, 1, -200, -70)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = svc.Move(ctx, 1, 1, 1)
	assert.ErrorIs(t, err, board.ErrNoteNotFound)
}

func TestService_BoardView(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Add(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Activate(1))

	view := svc.BoardView()
	require.Len(t, view.Notes, 1)
	assert.True(t, view.Notes[0].Active)
	assert.Equal(t, "200px", view.Notes[0].Width)
	assert.Equal(t, "100px", view.Trash.Width)
	assert.Equal(t, "0px", view.Trash.Left)
}
