package mdnotes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/alnah/go-mdnotes/internal/store"
)

// Store is the persistence contract a Notebook works on.
type Store = store.Store

// Record is one persisted note as the store sees it.
type Record = store.Record

// ErrAmbiguousNote indicates a short ID matches more than one note.
var ErrAmbiguousNote = errors.New("note reference is ambiguous")

// minIDPrefix is the shortest ID prefix Find accepts.
const minIDPrefix = 4

// OpenStore opens a note store: "sqlite" at path, or "memory".
func OpenStore(ctx context.Context, driver, path string) (Store, error) {
	return store.Open(ctx, driver, path)
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() Store {
	return store.NewMemory()
}

// Notebook is the note service: CRUD, search and lookup over a Store.
type Notebook struct {
	store Store
	now   func() time.Time
}

// NotebookOption configures a Notebook.
type NotebookOption func(*Notebook)

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) NotebookOption {
	return func(nb *Notebook) {
		nb.now = now
	}
}

// NewNotebook creates a Notebook over st.
func NewNotebook(st Store, opts ...NotebookOption) *Notebook {
	nb := &Notebook{store: st, now: time.Now}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// Close closes the underlying store.
func (nb *Notebook) Close() error {
	return nb.store.Close()
}

// Create stores a new note with default content.
func (nb *Notebook) Create(ctx context.Context) (*Note, error) {
	n := NewNote(nb.timestamp())
	if err := nb.store.Create(ctx, toRecord(n)); err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}
	return n, nil
}

// CreateWithContent stores a new note with content and a title derived from it.
func (nb *Notebook) CreateWithContent(ctx context.Context, content string) (*Note, error) {
	n := NewNote(nb.timestamp())
	n.Content = content
	n.Title = ExtractTitle(content)
	if err := nb.store.Create(ctx, toRecord(n)); err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}
	return n, nil
}

// Get returns the note with id.
func (nb *Notebook) Get(ctx context.Context, id string) (*Note, error) {
	r, err := nb.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromRecord(r), nil
}

// List returns all notes, newest first.
func (nb *Notebook) List(ctx context.Context) ([]*Note, error) {
	records, err := nb.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	notes := make([]*Note, len(records))
	for i, r := range records {
		notes[i] = fromRecord(r)
	}
	return notes, nil
}

// Save replaces the content of a note, re-derives its title and bumps UpdatedAt.
func (nb *Notebook) Save(ctx context.Context, id, content string) (*Note, error) {
	n, err := nb.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Content = content
	n.Title = ExtractTitle(content)
	n.UpdatedAt = nb.timestamp()
	if err := nb.store.Update(ctx, toRecord(n)); err != nil {
		return nil, fmt.Errorf("saving note: %w", err)
	}
	return n, nil
}

// SetColor changes the color of a note. UpdatedAt is left alone.
func (nb *Notebook) SetColor(ctx context.Context, id string, c Color) (*Note, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, c)
	}
	n, err := nb.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Color = c
	if err := nb.store.Update(ctx, toRecord(n)); err != nil {
		return nil, fmt.Errorf("saving note: %w", err)
	}
	return n, nil
}

// Delete removes a note.
func (nb *Notebook) Delete(ctx context.Context, id string) error {
	return nb.store.Delete(ctx, id)
}

// Search returns notes whose content contains query, case-insensitively,
// newest first. An empty query returns every note.
func (nb *Notebook) Search(ctx context.Context, query string) ([]*Note, error) {
	notes, err := nb.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := notes[:0]
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Find resolves a user reference to one note. In order: exact ID, unique ID
// prefix (at least four characters), case-insensitive title, then the best
// fuzzy title match.
func (nb *Notebook) Find(ctx context.Context, ref string) (*Note, error) {
	return nb.find(ctx, ref, true)
}

// FindExact resolves ref like Find without the fuzzy title step, so a typo
// never selects a different note.
func (nb *Notebook) FindExact(ctx context.Context, ref string) (*Note, error) {
	return nb.find(ctx, ref, false)
}

func (nb *Notebook) find(ctx context.Context, ref string, fuzzyTitle bool) (*Note, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNoteNotFound)
	}

	n, err := nb.Get(ctx, ref)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, ErrNoteNotFound) {
		return nil, err
	}

	notes, err := nb.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(ref) >= minIDPrefix {
		var byPrefix []*Note
		for _, n := range notes {
			if strings.HasPrefix(n.ID, ref) {
				byPrefix = append(byPrefix, n)
			}
		}
		switch len(byPrefix) {
		case 0:
		case 1:
			return byPrefix[0], nil
		default:
			return nil, fmt.Errorf("%w: %q matches %d notes", ErrAmbiguousNote, ref, len(byPrefix))
		}
	}

	for _, n := range notes {
		if strings.EqualFold(n.Title, ref) {
			return n, nil
		}
	}

	if !fuzzyTitle {
		return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, ref)
	}
	if matches := fuzzy.FindFrom(ref, titleSource(notes)); len(matches) > 0 {
		return notes[matches[0].Index], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, ref)
}

// EnsureColors assigns a random color to notes without a valid one and
// returns how many were updated.
func (nb *Notebook) EnsureColors(ctx context.Context) (int, error) {
	records, err := nb.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing notes: %w", err)
	}
	updated := 0
	for _, r := range records {
		if Color(r.Color).Valid() {
			continue
		}
		r.Color = string(RandomColor())
		if err := nb.store.Update(ctx, r); err != nil {
			return updated, fmt.Errorf("saving note: %w", err)
		}
		updated++
	}
	return updated, nil
}

func (nb *Notebook) timestamp() time.Time {
	return nb.now().UTC().Truncate(time.Millisecond)
}

// titleSource adapts notes to fuzzy.Source.
type titleSource []*Note

func (s titleSource) String(i int) string { return s[i].Title }
func (s titleSource) Len() int            { return len(s) }

func toRecord(n *Note) Record {
	return Record{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Color:     string(n.Color),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func fromRecord(r Record) *Note {
	return &Note{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Color:     Color(r.Color),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
