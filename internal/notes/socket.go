package notes

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"stickyboard/internal/board"

	"github.com/gorilla/websocket"
)

const (
	socketReadLimit = 64 * 1024
	socketIdle      = 60 * time.Second
	socketWrite     = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type socketError struct {
	Error string `json:"error"`
}

// Socket streams surface events over a websocket. Every event read is
// answered with the resulting board state, in order, on the same
// goroutine.
type Socket struct {
	svc *Service
	log *slog.Logger
}

func NewSocket(svc *Service, log *slog.Logger) *Socket {
	return &Socket{svc: svc, log: log}
}

// ServeHTTP handles GET /ws
func (s *Socket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(socketReadLimit)
	ctx := r.Context()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(socketIdle))
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket closed", "error", err)
			}
			return
		}

		var reply any
		res, err := s.svc.Apply(ctx, ev)
		switch {
		case err == nil:
			reply = res
		case errors.Is(err, board.ErrNoteNotFound), errors.Is(err, ErrUnknownEvent):
			// late events for a note that was just dropped on the trash land here
			reply = socketError{Error: err.Error()}
		default:
			s.log.Error("failed to apply event", "type", ev.Type, "index", ev.Index, "error", err)
			reply = socketError{Error: "internal error"}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(socketWrite))
		if err := conn.WriteJSON(reply); err != nil {
			s.log.Debug("websocket write failed", "error", err)
			return
		}
	}
}
