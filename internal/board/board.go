package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"stickyboard/internal/color"
	"stickyboard/internal/remote"
	"stickyboard/internal/storage"
)

const (
	DefaultDebounce   = 250 * time.Millisecond
	DefaultCornerSize = 18
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrBusy         = errors.New("remote call already in progress")
)

// DefaultNoteSize is the size of a freshly added card.
var DefaultNoteSize = Size{Width: 200, Height: 200}

// DefaultTrash is where the trash target sits when none is configured.
var DefaultTrash = Rect{Left: 0, Top: 0, Width: 96, Height: 96}

// NoteView is a read-only copy of one note for rendering.
type NoteView struct {
	Index    int           `json:"index"`
	Active   bool          `json:"active"`
	Dragging bool          `json:"dragging"`
	Cursor   string        `json:"cursor"`
	Style    storage.Style `json:"style"`
	Value    string        `json:"value"`
	Rect     Rect          `json:"-"`
}

// State is the board as the surface renders it.
type State struct {
	Notes   []NoteView `json:"notes"`
	Loading bool       `json:"loading"`
	Trash   Rect       `json:"trash"`
}

type Option func(*Board)

func WithLogger(log *slog.Logger) Option {
	return func(b *Board) { b.log = log }
}

// WithHitTester replaces the geometric surface used for drop detection.
func WithHitTester(h HitTester) Option {
	return func(b *Board) { b.hits = h }
}

func WithDebounce(d time.Duration) Option {
	return func(b *Board) { b.debounce = d }
}

// WithAfterFunc replaces the timer scheduler behind debounced writes.
func WithAfterFunc(f AfterFunc) Option {
	return func(b *Board) { b.after = f }
}

func WithCornerSize(px float64) Option {
	return func(b *Board) { b.corner = px }
}

func WithNoteSize(s Size) Option {
	return func(b *Board) { b.size = s }
}

func WithTrash(r Rect) Option {
	return func(b *Board) { b.trash = r }
}

// WithColors replaces the background color generator.
func WithColors(f func() string) Option {
	return func(b *Board) { b.randomColor = f }
}

// Board owns the ordered note list. Appending order is the visual order;
// stacking is decided by the active flag only.
type Board struct {
	mu      sync.Mutex
	store   *storage.Store
	remote  remote.Transport
	log     *slog.Logger
	hits    HitTester
	notes   []*Note
	counter int
	loading bool

	debounce    time.Duration
	after       AfterFunc
	corner      float64
	size        Size
	trash       Rect
	randomColor func() string
}

func New(store *storage.Store, transport remote.Transport, opts ...Option) *Board {
	b := &Board{
		store:       store,
		remote:      transport,
		log:         slog.Default(),
		debounce:    DefaultDebounce,
		after:       stdAfterFunc,
		corner:      DefaultCornerSize,
		size:        DefaultNoteSize,
		trash:       DefaultTrash,
		randomColor: color.Random,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.hits == nil {
		b.hits = Surface{Trash: b.trash, Cards: b.cards}
	}
	return b
}

// Add appends a new card with a random background and a readable text color.
func (b *Board) Add(ctx context.Context) (NoteView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bg := b.randomColor()
	n := b.newNote()
	n.el.BackgroundColor = bg
	n.el.Color = color.Contrast(bg, color.DefaultThreshold)
	b.notes = append(b.notes, n)

	b.log.Debug("note added", "index", n.index, "background", bg)
	return n.view(), b.persist(ctx, n)
}

// Remove drops the note and its stored record. Unknown indices are ignored.
func (b *Board) Remove(ctx context.Context, index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remove(ctx, index)
}

// SetActive marks index as the only active note.
func (b *Board) SetActive(index int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.activate(index)
}

// LoadFrom clears storage and replaces every note with the records of src,
// in src order. Each record gets a fresh index.
func (b *Board) LoadFrom(ctx context.Context, src *storage.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadFrom(ctx, src)
}

// LoadFromStorage rebuilds the board from the persisted snapshot.
func (b *Board) LoadFromStorage(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadFrom(ctx, b.store.All(ctx))
}

// SaveToRemote sends the persisted snapshot to the remote. A transport
// failure is logged and reported as a not-ok response.
func (b *Board) SaveToRemote(ctx context.Context) (remote.Response, error) {
	if err := b.beginRemote(); err != nil {
		return remote.Response{}, err
	}
	defer b.endRemote()

	resp, err := b.remote.Save(ctx, b.store.All(ctx))
	if err != nil {
		b.log.Warn("save to remote failed", "error", err)
		return remote.Response{}, nil
	}
	b.log.Info("saved to remote", "status", resp.Status)
	return resp, nil
}

// LoadFromRemote replaces the board with the remote snapshot. When the
// fetch fails the board is emptied; stored records are left alone.
func (b *Board) LoadFromRemote(ctx context.Context) error {
	if err := b.beginRemote(); err != nil {
		return err
	}
	defer b.endRemote()

	snap, err := b.remote.Fetch(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.log.Warn("load from remote failed", "error", err)
		b.dropAll()
		return nil
	}
	if err := b.loadFrom(ctx, snap); err != nil {
		return fmt.Errorf("load from remote: %w", err)
	}
	b.log.Info("loaded from remote", "notes", len(b.notes))
	return nil
}

// Loading reports whether a remote call is in flight.
func (b *Board) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Notes returns the notes in visual order.
func (b *Board) Notes() []NoteView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.views()
}

// Note returns a single note.
func (b *Board) Note(index int) (NoteView, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.find(index)
	if n == nil {
		return NoteView{}, false
	}
	return n.view(), true
}

// State returns everything the surface needs to render the board.
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{Notes: b.views(), Loading: b.loading, Trash: b.trash}
}

// Snapshot returns the persisted snapshot.
func (b *Board) Snapshot(ctx context.Context) *storage.Snapshot {
	return b.store.All(ctx)
}

func (b *Board) Trash() Rect { return b.trash }

func (b *Board) PointerDown(index int, p Point) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.find(index)
	if n == nil {
		return ErrNoteNotFound
	}
	n.pointerDown(b, p)
	return nil
}

// PointerMove reports whether the move dropped the note on the trash.
func (b *Board) PointerMove(ctx context.Context, index int, p Point) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.find(index)
	if n == nil {
		return false, ErrNoteNotFound
	}
	return n.pointerMove(ctx, b, p)
}

func (b *Board) PointerUp(ctx context.Context, index int, size *Size) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.find(index)
	if n == nil {
		return ErrNoteNotFound
	}
	return n.pointerUp(ctx, b, size)
}

// KeyUp updates the text and schedules a debounced write.
func (b *Board) KeyUp(index int, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.find(index)
	if n == nil {
		return ErrNoteNotFound
	}
	n.el.Value = value
	n.save.Schedule(func() { b.flush(n) })
	return nil
}

// Drag moves a note as if grabbed at from and released at to. It reports
// whether the note ended up on the trash.
func (b *Board) Drag(ctx context.Context, index int, from, to Point) (bool, error) {
	if err := b.PointerDown(index, from); err != nil {
		return false, err
	}
	removed, err := b.PointerMove(ctx, index, to)
	if err != nil || removed {
		return removed, err
	}
	return false, b.PointerUp(ctx, index, nil)
}

// Close writes any pending debounced text and stops the timers.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for _, n := range b.notes {
		if !n.save.Pending() {
			continue
		}
		n.save.Cancel()
		errs = append(errs, b.persist(ctx, n))
	}
	return errors.Join(errs...)
}

// --- lock held below ---

func (b *Board) newNote() *Note {
	b.counter++
	return &Note{
		index: b.counter,
		el: Element{
			Rect:   Rect{Width: b.size.Width, Height: b.size.Height},
			Cursor: CursorAuto,
		},
		save: newDebouncer(b.after, b.debounce),
	}
}

func (b *Board) find(index int) *Note {
	for _, n := range b.notes {
		if n.index == index {
			return n
		}
	}
	return nil
}

func (b *Board) views() []NoteView {
	out := make([]NoteView, len(b.notes))
	for i, n := range b.notes {
		out[i] = n.view()
	}
	return out
}

// cards lists the notes in paint order: visual order with the active note
// lifted to the top.
func (b *Board) cards() []Card {
	cards := make([]Card, 0, len(b.notes))
	var top *Card
	for _, n := range b.notes {
		c := Card{ID: NoteID(n.index), Rect: n.el.Rect, Hidden: n.el.Hidden}
		if n.active {
			top = &c
			continue
		}
		cards = append(cards, c)
	}
	if top != nil {
		cards = append(cards, *top)
	}
	return cards
}

func (b *Board) activate(index int) {
	for _, n := range b.notes {
		n.active = n.index == index
	}
}

func (b *Board) remove(ctx context.Context, index int) error {
	kept := b.notes[:0]
	for _, n := range b.notes {
		if n.index == index {
			n.removed = true
			n.dragging = false
			n.save.Cancel()
			continue
		}
		kept = append(kept, n)
	}
	clear(b.notes[len(kept):])
	b.notes = kept

	if err := b.store.Delete(ctx, index); err != nil {
		b.log.Error("failed to delete note", "index", index, "error", err)
		return err
	}
	b.log.Debug("note removed", "index", index)
	return nil
}

func (b *Board) persist(ctx context.Context, n *Note) error {
	if n.removed {
		return nil
	}
	if err := b.store.Put(ctx, n.index, n.record()); err != nil {
		b.log.Error("failed to save note", "index", n.index, "error", err)
		return err
	}
	return nil
}

func (b *Board) hitTest(p Point) (Hit, bool) {
	return b.hits.HitTest(p)
}

func (b *Board) cornerSize() float64 {
	return b.corner
}

func (b *Board) loadFrom(ctx context.Context, src *storage.Snapshot) error {
	if err := b.store.Clear(ctx); err != nil {
		return err
	}
	b.dropAll()

	var errs []error
	notes := make([]*Note, 0, src.Len())
	src.Each(func(_ string, rec storage.Record) {
		n := b.newNote()
		errs = append(errs, n.mount(ctx, b, rec))
		notes = append(notes, n)
	})
	b.notes = notes
	return errors.Join(errs...)
}

func (b *Board) dropAll() {
	for _, n := range b.notes {
		n.removed = true
		n.save.Cancel()
	}
	b.notes = nil
}

// flush runs on the debounce timer goroutine.
func (b *Board) flush(n *Note) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.persist(context.Background(), n); err != nil {
		return
	}
	b.log.Debug("note text saved", "index", n.index)
}

func (b *Board) beginRemote() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loading {
		return ErrBusy
	}
	b.loading = true
	return nil
}

func (b *Board) endRemote() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
}
