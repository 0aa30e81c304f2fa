package main

// Notes:
// - Test infrastructure shared by the command tests: an in-memory notebook
//   that survives the Close each command performs, captured output streams,
//   a map-backed environment and a deterministic clock.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"errors"
	"net"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-mdnotes"
	"github.com/alnah/go-mdnotes/internal/config"
	"github.com/alnah/go-mdnotes/internal/editor"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment
// ---------------------------------------------------------------------------

var testEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// sharedStore keeps the memory store open across commands.
type sharedStore struct {
	mdnotes.Store
}

func (sharedStore) Close() error { return nil }

// testEnv is an Environment with captured output and a shared notebook.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	vars   map[string]string
	nb     *mdnotes.Notebook
}

// newTestEnv returns an environment whose commands all see the same
// in-memory notes. Each clock reading advances one second.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	var (
		mu   sync.Mutex
		tick time.Duration
	)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick += time.Second
		return testEpoch.Add(tick)
	}

	st := sharedStore{Store: mdnotes.NewMemoryStore()}
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		vars:   map[string]string{},
		nb:     mdnotes.NewNotebook(st, mdnotes.WithClock(clock)),
	}
	getenv := func(key string) string { return te.vars[key] }

	te.Environment = &Environment{
		Now:    clock,
		Stdin:  strings.NewReader(""),
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: getenv,
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			sort.Strings(out)
			return out
		},
		OpenNotebook: func(context.Context, *config.Config) (*mdnotes.Notebook, error) {
			return mdnotes.NewNotebook(st, mdnotes.WithClock(clock)), nil
		},
		NewPool: func(size int, opts ...mdnotes.Option) Pool {
			return &poolAdapter{pool: mdnotes.NewExporterPool(size, opts...)}
		},
		Listen: net.Listen,
		Editor: &editor.Editor{
			Getenv:   getenv,
			LookPath: func(string) (string, error) { return "", errors.New("not found") },
		},
	}
	return te
}

// run invokes the CLI with args (program name excluded) and returns the exit code.
func (te *testEnv) run(args ...string) int {
	return runMain(append([]string{"mdnotes"}, args...), te.Environment)
}

// seedNote creates a note with content and returns it.
func (te *testEnv) seedNote(t *testing.T, content string) *mdnotes.Note {
	t.Helper()

	n, err := te.nb.CreateWithContent(context.Background(), content)
	if err != nil {
		t.Fatalf("seeding note: %v", err)
	}
	return n
}

// reset clears captured output between invocations.
func (te *testEnv) reset() {
	te.stdout.Reset()
	te.stderr.Reset()
}

// assertContains fails for each want missing from got.
func assertContains(t *testing.T, label, got string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("%s missing %q\n%s", label, want, got)
		}
	}
}
