package main

import (
	"context"

	"github.com/alnah/go-mdnotes"
)

// Exporter is the export service used by the export command.
type Exporter interface {
	Export(ctx context.Context, input mdnotes.ExportInput) (*mdnotes.ExportResult, error)
}

// Compile-time interface implementation check.
var _ Exporter = (*mdnotes.Exporter)(nil)

// Pool abstracts exporter pool operations for testability.
type Pool interface {
	Acquire() (Exporter, error)
	Release(Exporter)
	Size() int
	Close() error
}

// poolAdapter adapts *mdnotes.ExporterPool to the Pool interface.
type poolAdapter struct {
	pool *mdnotes.ExporterPool
}

// Compile-time interface implementation check.
var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire() (Exporter, error) {
	exp, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return exp, nil
}

// Release returns an exporter obtained from Acquire.
// Panics if exp was not created by this pool, which is a programming error.
func (a *poolAdapter) Release(exp Exporter) {
	e, ok := exp.(*mdnotes.Exporter)
	if !ok {
		panic("poolAdapter.Release: unexpected type")
	}
	a.pool.Release(e)
}

func (a *poolAdapter) Size() int    { return a.pool.Size() }
func (a *poolAdapter) Close() error { return a.pool.Close() }
