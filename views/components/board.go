package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"stickyboard/views/models"

	"github.com/a-h/templ"
)

// Board renders the trash target and every note card. It is the swap
// target of the HTMX buttons.
func Board(b models.BoardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<main id="board" class="board">`); err != nil {
			return err
		}
		if err := Trash(b.Trash).Render(ctx, w); err != nil {
			return err
		}
		for _, n := range b.Notes {
			if err := NoteCard(n).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main>`)
		return err
	})
}

// NoteCard renders one draggable text card.
func NoteCard(n models.NoteCardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		wrapper := "noteWrapper"
		if n.Active {
			wrapper += " active"
		}
		style := styleAttr(
			"background-color", n.BackgroundColor,
			"color", n.Color,
			"left", n.Left,
			"top", n.Top,
			"width", n.Width,
			"height", n.Height,
		)
		_, err := fmt.Fprintf(w,
			`<div class="%s"><textarea class="note" id="note-%d" data-index="%d" style="%s">%s</textarea></div>`,
			wrapper, n.Index, n.Index, templ.EscapeString(style), templ.EscapeString(n.Value),
		)
		return err
	})
}

// Trash renders the drop-to-delete target.
func Trash(t models.TrashView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		style := styleAttr("left", t.Left, "top", t.Top, "width", t.Width, "height", t.Height)
		_, err := fmt.Fprintf(w, `<div id="trash" class="bin" style="%s"><span class="binLabel">Trash</span></div>`,
			templ.EscapeString(style))
		return err
	})
}

// Loader is the indicator shown while a remote call is in flight.
func Loader(loading bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		class := "loader htmx-indicator"
		if loading {
			class += " htmx-request"
		}
		_, err := fmt.Fprintf(w, `<div id="loader" class="%s">Loading…</div>`, class)
		return err
	})
}

// Preview wraps markdown already rendered to HTML.
func Preview(index int, html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<article class="preview" data-index="%d">%s</article>`, index, html)
		return err
	})
}

func styleAttr(kv ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		b.WriteString(kv[i])
		b.WriteString(":")
		b.WriteString(kv[i+1])
		b.WriteString(";")
	}
	return b.String()
}
