package models

// NoteCardView represents a note card for template rendering
type NoteCardView struct {
	Index           int
	Active          bool
	BackgroundColor string
	Color           string
	Left            string
	Top             string
	Width           string
	Height          string
	Value           string
}

// TrashView is the drop target in CSS pixel strings
type TrashView struct {
	Left   string
	Top    string
	Width  string
	Height string
}

// BoardView represents the whole board for template rendering
type BoardView struct {
	Notes   []NoteCardView
	Trash   TrashView
	Loading bool
}
