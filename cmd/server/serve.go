package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stickyboard/internal/board"
	mcpserver "stickyboard/internal/mcp"
	"stickyboard/internal/notes"
	"stickyboard/internal/remote"
	"stickyboard/internal/storage"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

//go:embed static
var staticFS embed.FS

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the board server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	kv, closeKV, err := openKV(cfg, logger)
	if err != nil {
		return err
	}
	defer closeKV()

	// Wire dependencies
	store := storage.NewStore(kv, logger)
	transport := remote.NewMock(store, cfg.Board.RemoteDelay)
	b := board.New(store, transport,
		board.WithLogger(logger),
		board.WithDebounce(cfg.Board.Debounce),
		board.WithCornerSize(cfg.Board.CornerSize),
		board.WithNoteSize(board.Size{Width: cfg.Board.NoteWidth, Height: cfg.Board.NoteHeight}),
		board.WithTrash(board.Rect(cfg.Board.Trash)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := b.LoadFromStorage(ctx); err != nil {
		logger.Warn("failed to restore notes", "error", err)
	}
	cancel()
	logger.Info("board restored", "notes", len(b.Notes()))

	noteSvc := notes.NewService(b)
	noteHandler := notes.NewHandler(noteSvc, logger)

	// Create MCP server
	mcpSrv := mcpserver.NewServer(noteSvc)

	// HTTP router
	mux := http.NewServeMux()

	// Static files
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("failed to get static fs: %w", err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	noteHandler.Register(mux)
	mux.Handle("GET /ws", notes.NewSocket(noteSvc, logger))

	// MCP endpoint (HTTP transport)
	// MCP uses POST for requests and GET for SSE streams
	mcpHTTP := server.NewStreamableHTTPServer(mcpSrv)
	mux.Handle("POST /mcp", mcpHTTP)
	mux.Handle("GET /mcp", mcpHTTP)
	mux.Handle("DELETE /mcp", mcpHTTP)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.Port)
	logger.Info("endpoints available",
		"web", "http://localhost:"+cfg.Port,
		"api", "http://localhost:"+cfg.Port+"/api",
		"ws", "ws://localhost:"+cfg.Port+"/ws",
		"mcp", "http://localhost:"+cfg.Port+"/mcp",
	)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	// pending text edits are written before the store goes away
	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := b.Close(flushCtx); err != nil {
		logger.Error("failed to flush notes", "error", err)
	}

	logger.Info("server stopped")
	return nil
}
