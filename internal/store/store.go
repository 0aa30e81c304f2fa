// Package store persists notes. Two backends share the Store contract:
// a SQLite database (modernc.org/sqlite, no cgo) and an in-memory map.
package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for store operations.
var (
	ErrNotFound = errors.New("note not found")
	ErrConflict = errors.New("note already exists")
	ErrEmptyID  = errors.New("note id cannot be empty")
	ErrClosed   = errors.New("store is closed")
)

// Record is one persisted note. Color holds the color name as stored; it may
// be empty for rows written before colors existed.
type Record struct {
	ID        string
	Title     string
	Content   string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store defines the contract for note persistence.
// List returns records newest-created first.
type Store interface {
	Create(ctx context.Context, r Record) error
	Get(ctx context.Context, id string) (Record, error)
	Update(ctx context.Context, r Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Record, error)
	Close() error
}

// Open returns the backend named by driver ("sqlite" or "memory").
// path is ignored by the memory backend.
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch driver {
	case "", "sqlite":
		return OpenSQLite(ctx, path)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, errors.New("unknown store driver: " + driver)
	}
}
