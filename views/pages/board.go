package pages

import (
	"context"
	"io"

	"stickyboard/views/components"
	"stickyboard/views/models"

	"github.com/a-h/templ"
)

const head = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sticky notes</title>
<link rel="stylesheet" href="/static/board.css">
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
</head>
<body>
<div class="App">
<header class="header">
<div class="buttonWrapper">
<button class="button" hx-post="/fragments/notes" hx-target="#board" hx-swap="outerHTML">Add note</button>
<button class="button" hx-post="/fragments/remote/save" hx-target="#board" hx-swap="outerHTML" hx-indicator="#loader">Save to the server</button>
<button class="button" hx-post="/fragments/remote/load" hx-target="#board" hx-swap="outerHTML" hx-indicator="#loader">Load from the server</button>
</div>
`

const tail = `</div>
<script src="/static/board.js"></script>
</body>
</html>
`

// BoardPage is the full board document.
func BoardPage(b models.BoardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := components.Loader(b.Loading).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</header>\n"); err != nil {
			return err
		}
		if err := components.Board(b).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, tail)
		return err
	})
}
