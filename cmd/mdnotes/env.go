package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/alnah/go-mdnotes"
	"github.com/alnah/go-mdnotes/internal/config"
	"github.com/alnah/go-mdnotes/internal/editor"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the note store and the export pool.
type Environment struct {
	Now     func() time.Time
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// OpenNotebook opens the notebook described by cfg. Commands close it.
	OpenNotebook func(ctx context.Context, cfg *config.Config) (*mdnotes.Notebook, error)

	// NewPool creates the export pool used by the export command.
	NewPool func(size int, opts ...mdnotes.Option) Pool

	// Listen opens the preview server's listener.
	Listen func(network, addr string) (net.Listener, error)

	Editor *editor.Editor
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	env := &Environment{
		Now:     time.Now,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		NewPool: func(size int, opts ...mdnotes.Option) Pool {
			return &poolAdapter{pool: mdnotes.NewExporterPool(size, opts...)}
		},
		Listen: net.Listen,
		Editor: &editor.Editor{},
	}
	env.OpenNotebook = func(ctx context.Context, cfg *config.Config) (*mdnotes.Notebook, error) {
		return openNotebook(ctx, cfg, env.Now)
	}
	return env
}

// openNotebook opens the configured store.
func openNotebook(ctx context.Context, cfg *config.Config, now func() time.Time) (*mdnotes.Notebook, error) {
	path, err := cfg.StorePath()
	if err != nil {
		return nil, err
	}
	st, err := mdnotes.OpenStore(ctx, cfg.Store.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenStore, err)
	}
	return mdnotes.NewNotebook(st, mdnotes.WithClock(now)), nil
}
