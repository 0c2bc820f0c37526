package notes

import (
	"bytes"
	"context"
	"fmt"

	"stickyboard/internal/board"
	"stickyboard/internal/remote"
	"stickyboard/internal/storage"
	"stickyboard/views/models"

	"github.com/yuin/goldmark"
)

type Service struct {
	board *board.Board
	md    goldmark.Markdown
}

func NewService(b *board.Board) *Service {
	return &Service{
		board: b,
		md:    goldmark.New(),
	}
}

// Add creates a new note card
func (s *Service) Add(ctx context.Context) (board.NoteView, error) {
	return s.board.Add(ctx)
}

// Remove deletes a note card; unknown indices are not an error
func (s *Service) Remove(ctx context.Context, index int) error {
	return s.board.Remove(ctx, index)
}

// Activate brings a note to the front
func (s *Service) Activate(index int) error {
	if _, ok := s.board.Note(index); !ok {
		return board.ErrNoteNotFound
	}
	s.board.SetActive(index)
	return nil
}

func (s *Service) Get(index int) (board.NoteView, error) {
	n, ok := s.board.Note(index)
	if !ok {
		return board.NoteView{}, board.ErrNoteNotFound
	}
	return n, nil
}

func (s *Service) List() []board.NoteView {
	return s.board.Notes()
}

func (s *Service) State() board.State {
	return s.board.State()
}

func (s *Service) Snapshot(ctx context.Context) *storage.Snapshot {
	return s.board.Snapshot(ctx)
}

// Apply routes a surface event to the note state machine
func (s *Service) Apply(ctx context.Context, ev Event) (EventResult, error) {
	var removed bool
	var err error

	switch ev.Type {
	case EventPointerDown:
		err = s.board.PointerDown(ev.Index, board.Point{X: ev.X, Y: ev.Y})
	case EventPointerMove:
		removed, err = s.board.PointerMove(ctx, ev.Index, board.Point{X: ev.X, Y: ev.Y})
	case EventPointerUp:
		var size *board.Size
		if ev.Width > 0 && ev.Height > 0 {
			size = &board.Size{Width: ev.Width, Height: ev.Height}
		}
		err = s.board.PointerUp(ctx, ev.Index, size)
	case EventKeyUp:
		err = s.board.KeyUp(ev.Index, ev.Value)
	case EventActivate:
		err = s.Activate(ev.Index)
	default:
		return EventResult{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	if err != nil {
		return EventResult{}, err
	}
	return EventResult{Removed: removed, State: s.board.State()}, nil
}

// Move drags a note by (dx, dy), grabbing it one pixel inside its top-left corner
func (s *Service) Move(ctx context.Context, index int, dx, dy float64) (bool, error) {
	n, err := s.Get(index)
	if err != nil {
		return false, err
	}
	from := board.Point{X: n.Rect.Left + 1, Y: n.Rect.Top + 1}
	to := board.Point{X: from.X + dx, Y: from.Y + dy}
	return s.board.Drag(ctx, index, from, to)
}

// SetText replaces the text of a note and persists it right away
func (s *Service) SetText(ctx context.Context, index int, value string) error {
	if err := s.board.KeyUp(index, value); err != nil {
		return err
	}
	return s.board.PointerUp(ctx, index, nil)
}

func (s *Service) SaveToRemote(ctx context.Context) (remote.Response, error) {
	return s.board.SaveToRemote(ctx)
}

func (s *Service) LoadFromRemote(ctx context.Context) error {
	return s.board.LoadFromRemote(ctx)
}

func (s *Service) Loading() bool {
	return s.board.Loading()
}

// RenderMarkdown converts note text to HTML
func (s *Service) RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return content // Return raw content on error
	}
	return buf.String()
}

// BoardView converts the board state for templates
func (s *Service) BoardView() models.BoardView {
	st := s.board.State()
	view := models.BoardView{
		Notes:   make([]models.NoteCardView, len(st.Notes)),
		Trash:   trashView(st.Trash),
		Loading: st.Loading,
	}
	for i, n := range st.Notes {
		view.Notes[i] = models.NoteCardView{
			Index:           n.Index,
			Active:          n.Active,
			BackgroundColor: n.Style.BackgroundColor,
			Color:           n.Style.Color,
			Left:            n.Style.Left,
			Top:             n.Style.Top,
			Width:           n.Style.Width,
			Height:          n.Style.Height,
			Value:           n.Value,
		}
	}
	return view
}

func trashView(r board.Rect) models.TrashView {
	px := func(v float64) string { return fmt.Sprintf("%gpx", v) }
	return models.TrashView{Left: px(r.Left), Top: px(r.Top), Width: px(r.Width), Height: px(r.Height)}
}
