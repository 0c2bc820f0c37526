package notes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"stickyboard/internal/board"
	"stickyboard/views/components"
	"stickyboard/views/pages"

	"github.com/a-h/templ"
)

type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts every board route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	// REST API endpoints
	mux.HandleFunc("GET /api/notes", h.ListNotes)
	mux.HandleFunc("POST /api/notes", h.AddNote)
	mux.HandleFunc("GET /api/notes/{index}", h.GetNote)
	mux.HandleFunc("DELETE /api/notes/{index}", h.RemoveNote)
	mux.HandleFunc("POST /api/notes/{index}/activate", h.ActivateNote)
	mux.HandleFunc("PUT /api/notes/{index}/text", h.UpdateText)
	mux.HandleFunc("POST /api/notes/{index}/pointer", h.Pointer)
	mux.HandleFunc("GET /api/snapshot", h.GetSnapshot)
	mux.HandleFunc("GET /api/remote", h.RemoteStatus)
	mux.HandleFunc("POST /api/remote/save", h.SaveToRemote)
	mux.HandleFunc("POST /api/remote/load", h.LoadFromRemote)

	// HTMX Web UI
	mux.HandleFunc("GET /", h.BoardPage)
	mux.HandleFunc("GET /fragments/board", h.BoardFragment)
	mux.HandleFunc("POST /fragments/notes", h.AddNoteFragment)
	mux.HandleFunc("POST /fragments/remote/save", h.SaveFragment)
	mux.HandleFunc("POST /fragments/remote/load", h.LoadFragment)
	mux.HandleFunc("GET /notes/{index}/preview", h.PreviewFragment)
}

// --- REST API Handlers ---

// ListNotes handles GET /api/notes
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.svc.List(), http.StatusOK)
}

// AddNote handles POST /api/notes
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Add(r.Context())
	if err != nil {
		h.log.Error("failed to add note", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, note, http.StatusCreated)
}

// GetNote handles GET /api/notes/{index}
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pathIndex(w, r)
	if !ok {
		return
	}
	note, err := h.svc.Get(index)
	if err != nil {
		h.boardError(w, "failed to get note", err)
		return
	}
	h.jsonResponse(w, note, http.StatusOK)
}

// RemoveNote handles DELETE /api/notes/{index}
func (h *Handler) RemoveNote(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pathIndex(w, r)
	if !ok {
		return
	}
	if err := h.svc.Remove(r.Context(), index); err != nil {
		h.boardError(w, "failed to remove note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActivateNote handles POST /api/notes/{index}/activate
func (h *Handler) ActivateNote(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pathIndex(w, r)
	if !ok {
		return
	}
	if err := h.svc.Activate(index); err != nil {
		h.boardError(w, "failed to activate note", err)
		return
	}
	h.jsonResponse(w, h.svc.State(), http.StatusOK)
}

// UpdateText handles PUT /api/notes/{index}/text. The write is debounced
// like typing in the card.
func (h *Handler) UpdateText(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pathIndex(w, r)
	if !ok {
		return
	}
	var input TextInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	res, err := h.svc.Apply(r.Context(), Event{Type: EventKeyUp, Index: index, Value: input.Value})
	if err != nil {
		h.boardError(w, "failed to update text", err)
		return
	}
	h.jsonResponse(w, res, http.StatusAccepted)
}

// Pointer handles POST /api/notes/{index}/pointer
func (h *Handler) Pointer(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pathIndex(w, r)
	if !ok {
		return
	}
	var input PointerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	ev := Event{Type: "pointer" + input.Type, Index: index, X: input.X, Y: input.Y, Width: input.Width, Height: input.Height}
	res, err := h.svc.Apply(r.Context(), ev)
	if err != nil {
		h.boardError(w, "failed to apply pointer event", err)
		return
	}
	h.jsonResponse(w, res, http.StatusOK)
}

// GetSnapshot handles GET /api/snapshot
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.svc.Snapshot(r.Context()), http.StatusOK)
}

// RemoteStatus handles GET /api/remote
func (h *Handler) RemoteStatus(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, map[string]bool{"loading": h.svc.Loading()}, http.StatusOK)
}

// SaveToRemote handles POST /api/remote/save
func (h *Handler) SaveToRemote(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.SaveToRemote(r.Context())
	if err != nil {
		h.boardError(w, "failed to save to remote", err)
		return
	}
	h.jsonResponse(w, resp, http.StatusOK)
}

// LoadFromRemote handles POST /api/remote/load
func (h *Handler) LoadFromRemote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.LoadFromRemote(r.Context()); err != nil {
		h.boardError(w, "failed to load from remote", err)
		return
	}
	h.jsonResponse(w, h.svc.State(), http.StatusOK)
}

// --- HTMX Web Handlers ---

// BoardPage handles GET /
func (h *Handler) BoardPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, pages.BoardPage(h.svc.BoardView()))
}

// BoardFragment handles GET /fragments/board (HTMX partial)
func (h *Handler) BoardFragment(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, components.Board(h.svc.BoardView()))
}

// AddNoteFragment handles POST /fragments/notes (HTMX partial)
func (h *Handler) AddNoteFragment(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Add(r.Context()); err != nil {
		h.log.Error("failed to add note", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, components.Board(h.svc.BoardView()))
}

// SaveFragment handles POST /fragments/remote/save (HTMX partial)
func (h *Handler) SaveFragment(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.SaveToRemote(r.Context()); err != nil {
		h.fragmentError(w, err)
		return
	}
	h.render(w, r, components.Board(h.svc.BoardView()))
}

// LoadFragment handles POST /fragments/remote/load (HTMX partial)
func (h *Handler) LoadFragment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.LoadFromRemote(r.Context()); err != nil {
		h.fragmentError(w, err)
		return
	}
	h.render(w, r, components.Board(h.svc.BoardView()))
}

// PreviewFragment handles GET /notes/{index}/preview (HTMX partial)
func (h *Handler) PreviewFragment(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	note, err := h.svc.Get(index)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, components.Preview(index, h.svc.RenderMarkdown(note.Value)))
}

// --- Helper methods ---

func (h *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// boardError maps board errors onto HTTP statuses
func (h *Handler) boardError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, board.ErrNoteNotFound):
		h.jsonError(w, "note not found", http.StatusNotFound)
	case errors.Is(err, board.ErrBusy):
		h.jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrUnknownEvent):
		h.jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.Error(msg, "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) fragmentError(w http.ResponseWriter, err error) {
	if errors.Is(err, board.ErrBusy) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	h.log.Error("remote call failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (h *Handler) pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.jsonError(w, "invalid note index", http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.log.Error("failed to render", "error", err)
	}
}
