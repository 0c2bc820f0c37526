package board

import (
	"strconv"
	"strings"

	"stickyboard/internal/storage"
)

// Point is a pointer position in CSS pixels relative to the board origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Left+r.Width &&
		p.Y >= r.Top && p.Y < r.Top+r.Height
}

const (
	CursorAuto = "auto"
	CursorMove = "move"
)

// Element is the board-side model of a rendered note card.
type Element struct {
	Rect
	BackgroundColor string
	Color           string
	Cursor          string
	Hidden          bool
	Value           string
}

// Style returns the six persisted style properties.
func (e *Element) Style() storage.Style {
	return storage.Style{
		BackgroundColor: e.BackgroundColor,
		Color:           e.Color,
		Left:            px(e.Left),
		Top:             px(e.Top),
		Width:           px(e.Width),
		Height:          px(e.Height),
	}
}

// Apply copies saved style properties onto the element. Empty or
// unparsable values leave the current property untouched.
func (e *Element) Apply(s storage.Style) {
	if s.BackgroundColor != "" {
		e.BackgroundColor = s.BackgroundColor
	}
	if s.Color != "" {
		e.Color = s.Color
	}
	applyPx(&e.Left, s.Left)
	applyPx(&e.Top, s.Top)
	applyPx(&e.Width, s.Width)
	applyPx(&e.Height, s.Height)
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func applyPx(dst *float64, s string) {
	v, ok := parsePx(s)
	if ok {
		*dst = v
	}
}

func parsePx(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
