package notes

import (
	"context"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocket_DragToTrash(t *testing.T) {
	srv, svc, store := newTestServer(t)
	_, err := svc.Add(context.Background())
	require.NoError(t, err)
	_, err = svc.Move(context.Background(), 1, 300, 300)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	send := func(ev Event) EventResult {
		t.Helper()
		require.NoError(t, conn.WriteJSON(ev))
		var res EventResult
		require.NoError(t, conn.ReadJSON(&res))
		return res
	}

	res := send(Event{Type: EventPointerDown, Index: 1, X: 310, Y: 310})
	require.Len(t, res.State.Notes, 1)
	assert.True(t, res.State.Notes[0].Active)
	assert.True(t, res.State.Notes[0].Dragging)

	res = send(Event{Type: EventPointerMove, Index: 1, X: 500, Y: 400})
	assert.False(t, res.Removed)
	assert.Equal(t, "490px", res.State.Notes[0].Style.Left)

	res = send(Event{Type: EventPointerMove, Index: 1, X: 20, Y: 30})
	assert.True(t, res.Removed)
	assert.Empty(t, res.State.Notes)
	assert.Equal(t, 0, store.All(context.Background()).Len())

	// the release that follows the drop refers to a removed note
	require.NoError(t, conn.WriteJSON(Event{Type: EventPointerUp, Index: 1, X: 20, Y: 30}))
	var reply map[string]any
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "note not found", reply["error"])
}

func TestSocket_KeyUp(t *testing.T) {
	srv, svc, _ := newTestServer(t)
	_, err := svc.Add(context.Background())
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(Event{Type: EventKeyUp, Index: 1, Value: "typed"}))
	var res EventResult
	require.NoError(t, conn.ReadJSON(&res))
	require.Len(t, res.State.Notes, 1)
	assert.Equal(t, "typed", res.State.Notes[0].Value)
}
