package board

import (
	"slices"
	"strconv"
)

const (
	BoardID = "board"
	TrashID = "trash"
)

// NoteID is the surface id of the card for index.
func NoteID(index int) string {
	return "note-" + strconv.Itoa(index)
}

// Hit is the topmost surface target under a point.
type Hit struct {
	ID        string
	Ancestors []string
}

// Within reports whether the hit target is id or is contained by id.
func (h Hit) Within(id string) bool {
	return h.ID == id || slices.Contains(h.Ancestors, id)
}

// HitTester finds the topmost visible target at a point. Hidden cards are
// not candidates.
type HitTester interface {
	HitTest(p Point) (Hit, bool)
}

// HitTesterFunc adapts a function to HitTester.
type HitTesterFunc func(p Point) (Hit, bool)

func (f HitTesterFunc) HitTest(p Point) (Hit, bool) { return f(p) }

// Card is one paintable note card.
type Card struct {
	ID     string
	Rect   Rect
	Hidden bool
}

// Surface hit-tests by geometry. Cards paint above the trash, and later
// cards paint above earlier ones.
type Surface struct {
	Trash Rect
	// Cards returns the cards in paint order, bottom first.
	Cards func() []Card
}

func (s Surface) HitTest(p Point) (Hit, bool) {
	var cards []Card
	if s.Cards != nil {
		cards = s.Cards()
	}
	for i := len(cards) - 1; i >= 0; i-- {
		c := cards[i]
		if c.Hidden || !c.Rect.Contains(p) {
			continue
		}
		return Hit{ID: c.ID, Ancestors: []string{BoardID}}, true
	}
	if s.Trash.Contains(p) {
		return Hit{ID: TrashID, Ancestors: []string{BoardID}}, true
	}
	return Hit{ID: BoardID}, true
}
