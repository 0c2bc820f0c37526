package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stickyboard/internal/board"
	"stickyboard/internal/notes"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with tools for board operations
func NewServer(svc *notes.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"Stickyboard",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Tool: list_notes - List the cards on the board
	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List every sticky note on the board in visual order, with its index, colors, position, size and text."),
		),
		handleListNotes(svc),
	)

	// Tool: add_note - Add a card
	s.AddTool(
		mcp.NewTool("add_note",
			mcp.WithDescription("Add a new sticky note with a random color. Optionally set its text."),
			mcp.WithString("text",
				mcp.Description("Optional: initial text of the note"),
			),
		),
		handleAddNote(svc),
	)

	// Tool: update_note_text - Replace the text of a card
	s.AddTool(
		mcp.NewTool("update_note_text",
			mcp.WithDescription("Replace the text of a sticky note."),
			mcp.WithNumber("index",
				mcp.Required(),
				mcp.Description("The note index as returned by list_notes"),
			),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("New text of the note"),
			),
		),
		handleUpdateText(svc),
	)

	// Tool: move_note - Drag a card
	s.AddTool(
		mcp.NewTool("move_note",
			mcp.WithDescription("Drag a sticky note by a pixel offset. Dropping it on the trash deletes it."),
			mcp.WithNumber("index",
				mcp.Required(),
				mcp.Description("The note index as returned by list_notes"),
			),
			mcp.WithNumber("dx",
				mcp.Description("Horizontal offset in pixels (default: 0)"),
			),
			mcp.WithNumber("dy",
				mcp.Description("Vertical offset in pixels (default: 0)"),
			),
		),
		handleMoveNote(svc),
	)

	// Tool: activate_note - Bring a card to the front
	s.AddTool(
		mcp.NewTool("activate_note",
			mcp.WithDescription("Bring a sticky note to the front of the stack."),
			mcp.WithNumber("index",
				mcp.Required(),
				mcp.Description("The note index as returned by list_notes"),
			),
		),
		handleActivateNote(svc),
	)

	// Tool: remove_note - Delete a card
	s.AddTool(
		mcp.NewTool("remove_note",
			mcp.WithDescription("Delete a sticky note. Deleting a note that does not exist is not an error."),
			mcp.WithNumber("index",
				mcp.Required(),
				mcp.Description("The note index as returned by list_notes"),
			),
		),
		handleRemoveNote(svc),
	)

	// Tool: get_snapshot - Read persisted storage
	s.AddTool(
		mcp.NewTool("get_snapshot",
			mcp.WithDescription("Return the persisted snapshot: a JSON object mapping note index to its saved style and text."),
		),
		handleGetSnapshot(svc),
	)

	// Tool: save_to_remote / load_from_remote - Remote sync
	s.AddTool(
		mcp.NewTool("save_to_remote",
			mcp.WithDescription("Send the persisted notes to the remote server. Takes about a second."),
		),
		handleSaveToRemote(svc),
	)
	s.AddTool(
		mcp.NewTool("load_from_remote",
			mcp.WithDescription("Replace the board with the notes stored on the remote server. Notes get new indices. Takes about a second."),
		),
		handleLoadFromRemote(svc),
	)

	return s
}

// NoteResult represents a note in tool responses
type NoteResult struct {
	Index           int    `json:"index"`
	Active          bool   `json:"active"`
	BackgroundColor string `json:"backgroundColor"`
	Color           string `json:"color"`
	Left            string `json:"left"`
	Top             string `json:"top"`
	Width           string `json:"width"`
	Height          string `json:"height"`
	Text            string `json:"text"`
}

func handleListNotes(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(notesToResults(svc.List())), nil
	}
}

func handleAddNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		note, err := svc.Add(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to add note: %v", err)), nil
		}
		if text := req.GetString("text", ""); text != "" {
			if err := svc.SetText(ctx, note.Index, text); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to set text: %v", err)), nil
			}
			note, _ = svc.Get(note.Index)
		}
		return jsonResult(noteToResult(note)), nil
	}
}

func handleUpdateText(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, errResult := requireIndex(req)
		if errResult != nil {
			return errResult, nil
		}
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}
		if err := svc.SetText(ctx, index, text); err != nil {
			return noteError("update note", index, err), nil
		}
		note, _ := svc.Get(index)
		return jsonResult(noteToResult(note)), nil
	}
}

func handleMoveNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, errResult := requireIndex(req)
		if errResult != nil {
			return errResult, nil
		}
		dx := req.GetFloat("dx", 0)
		dy := req.GetFloat("dy", 0)

		removed, err := svc.Move(ctx, index, dx, dy)
		if err != nil {
			return noteError("move note", index, err), nil
		}
		if removed {
			return mcp.NewToolResultText(fmt.Sprintf("note %d was dropped on the trash and deleted", index)), nil
		}
		note, _ := svc.Get(index)
		return jsonResult(noteToResult(note)), nil
	}
}

func handleActivateNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, errResult := requireIndex(req)
		if errResult != nil {
			return errResult, nil
		}
		if err := svc.Activate(index); err != nil {
			return noteError("activate note", index, err), nil
		}
		return jsonResult(notesToResults(svc.List())), nil
	}
}

func handleRemoveNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, errResult := requireIndex(req)
		if errResult != nil {
			return errResult, nil
		}
		if err := svc.Remove(ctx, index); err != nil {
			return noteError("remove note", index, err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("note %d removed", index)), nil
	}
}

func handleGetSnapshot(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(svc.Snapshot(ctx)), nil
	}
}

func handleSaveToRemote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := svc.SaveToRemote(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to save to remote: %v", err)), nil
		}
		return jsonResult(resp), nil
	}
}

func handleLoadFromRemote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := svc.LoadFromRemote(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load from remote: %v", err)), nil
		}
		return jsonResult(notesToResults(svc.List())), nil
	}
}

// Helper functions

func requireIndex(req mcp.CallToolRequest) (int, *mcp.CallToolResult) {
	index := req.GetInt("index", 0)
	if index <= 0 {
		return 0, mcp.NewToolResultError("index is required and must be a positive integer")
	}
	return index, nil
}

func noteError(action string, index int, err error) *mcp.CallToolResult {
	if errors.Is(err, board.ErrNoteNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("note %d not found", index))
	}
	return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err))
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}

func noteToResult(n board.NoteView) NoteResult {
	return NoteResult{
		Index:           n.Index,
		Active:          n.Active,
		BackgroundColor: n.Style.BackgroundColor,
		Color:           n.Style.Color,
		Left:            n.Style.Left,
		Top:             n.Style.Top,
		Width:           n.Style.Width,
		Height:          n.Style.Height,
		Text:            n.Value,
	}
}

func notesToResults(list []board.NoteView) []NoteResult {
	results := make([]NoteResult, len(list))
	for i, n := range list {
		results[i] = noteToResult(n)
	}
	return results
}
