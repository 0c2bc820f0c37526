package board

import (
	"context"

	"stickyboard/internal/storage"
)

// host is what a note needs from the board that owns it. Every call is
// made with the board lock held.
type host interface {
	activate(index int)
	remove(ctx context.Context, index int) error
	persist(ctx context.Context, n *Note) error
	hitTest(p Point) (Hit, bool)
	cornerSize() float64
}

// Note is one card and its pointer interaction state.
type Note struct {
	index    int
	active   bool
	el       Element
	shift    Point
	dragging bool
	removed  bool
	save     *debouncer
}

func (n *Note) record() storage.Record {
	return storage.Record{Style: n.el.Style(), Value: n.el.Value}
}

func (n *Note) view() NoteView {
	return NoteView{
		Index:    n.index,
		Active:   n.active,
		Dragging: n.dragging,
		Cursor:   n.el.Cursor,
		Style:    n.el.Style(),
		Value:    n.el.Value,
		Rect:     n.el.Rect,
	}
}

// mount applies saved data and writes it back in normalized form.
func (n *Note) mount(ctx context.Context, h host, rec storage.Record) error {
	n.el.Apply(rec.Style)
	n.el.Value = rec.Value
	return h.persist(ctx, n)
}

// pointerDown remembers where the card was grabbed. A grab inside the
// bottom-right resize corner leaves resizing to the surface and does not
// start a drag.
func (n *Note) pointerDown(h host, p Point) {
	h.activate(n.index)

	n.shift = Point{X: p.X - n.el.Left, Y: p.Y - n.el.Top}
	corner := h.cornerSize()
	if n.shift.X < n.el.Width-corner || n.shift.Y < n.el.Height-corner {
		n.dragging = true
		n.el.Cursor = CursorMove
	}
}

// pointerMove keeps the grab point under the pointer, then drops the note
// if the pointer is over the trash. It reports whether the note was removed.
func (n *Note) pointerMove(ctx context.Context, h host, p Point) (bool, error) {
	if !n.dragging {
		return false, nil
	}
	n.el.Left = p.X - n.shift.X
	n.el.Top = p.Y - n.shift.Y

	// hidden so the card itself is not what the pointer hits
	n.el.Hidden = true
	hit, ok := h.hitTest(p)
	n.el.Hidden = false

	if !ok || !hit.Within(TrashID) {
		return false, nil
	}
	return true, h.remove(ctx, n.index)
}

// pointerUp ends any drag and persists. size is the card size the surface
// reports after a native resize, if any.
func (n *Note) pointerUp(ctx context.Context, h host, size *Size) error {
	n.dragging = false
	n.el.Cursor = CursorAuto
	if size != nil && size.Width > 0 && size.Height > 0 {
		n.el.Width = size.Width
		n.el.Height = size.Height
	}
	return h.persist(ctx, n)
}
