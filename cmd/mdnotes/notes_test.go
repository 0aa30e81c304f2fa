package main

// Notes:
// - Note commands run against the shared in-memory notebook from newTestEnv.
// - show without flags goes through glamour; only the presence of the text is
//   asserted since styling escapes depend on the terminal profile.
// - edit uses a shell one-liner as $VISUAL, so the editor tests skip on Windows.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-mdnotes"
)

// importLegacy loads notes with fixed IDs through the JSON import path.
func importLegacy(t *testing.T, te *testEnv, data string) {
	t.Helper()

	if _, err := te.nb.Import(context.Background(), strings.NewReader(data), mdnotes.ImportJSON); err != nil {
		t.Fatalf("importing fixtures: %v", err)
	}
}

const prefixFixtures = `[
  {"id": "abcd0001-aaaa", "title": "First", "content": "# First", "createdAt": 1700000000000, "updatedAt": 1700000000000},
  {"id": "abcd0002-bbbb", "title": "Second", "content": "# Second", "createdAt": 1700000001000, "updatedAt": 1700000001000}
]`

// ---------------------------------------------------------------------------
// new
// ---------------------------------------------------------------------------

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("default note", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		if code := te.run("new"); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}

		id := strings.TrimSpace(te.stdout.String())
		n, err := te.nb.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get(%q) error = %v", id, err)
		}
		if n.Title != mdnotes.DefaultTitle {
			t.Errorf("Title = %q, want %q", n.Title, mdnotes.DefaultTitle)
		}
	})

	t.Run("content flag", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		if code := te.run("new", "-m", "# Groceries\n\n- milk"); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}

		n, err := te.nb.Get(context.Background(), strings.TrimSpace(te.stdout.String()))
		if err != nil {
			t.Fatal(err)
		}
		if n.Title != "Groceries" {
			t.Errorf("Title = %q, want %q", n.Title, "Groceries")
		}
	})

	t.Run("file flag", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "trip.md")
		if err := os.WriteFile(path, []byte("# Trip\n\npack bags"), 0o600); err != nil {
			t.Fatal(err)
		}

		te := newTestEnv(t)
		if code := te.run("new", "--file", path); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}

		n, err := te.nb.Get(context.Background(), strings.TrimSpace(te.stdout.String()))
		if err != nil {
			t.Fatal(err)
		}
		if n.Content != "# Trip\n\npack bags" {
			t.Errorf("Content = %q", n.Content)
		}
	})

	t.Run("stdin", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.Stdin = strings.NewReader("# From Pipe")
		if code := te.run("new", "-f", "-"); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}

		n, err := te.nb.Get(context.Background(), strings.TrimSpace(te.stdout.String()))
		if err != nil {
			t.Fatal(err)
		}
		if n.Title != "From Pipe" {
			t.Errorf("Title = %q, want %q", n.Title, "From Pipe")
		}
	})

	t.Run("content and file conflict", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		if code := te.run("new", "-m", "x", "-f", "y.md"); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		if code := te.run("new", "-f", filepath.Join(t.TempDir(), "nope.md")); code != ExitIO {
			t.Errorf("exit code = %d, want %d", code, ExitIO)
		}
	})
}

// ---------------------------------------------------------------------------
// list / search
// ---------------------------------------------------------------------------

func TestList(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		if code := te.run("list"); code != ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		assertContains(t, "stdout", te.stdout.String(), "No notes yet")
	})

	t.Run("styled list", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		first := te.seedNote(t, "# Groceries\n\nmilk and eggs")
		te.seedNote(t, "# Travel\n\nbook hotel")

		if code := te.run("list"); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}
		out := te.stdout.String()
		assertContains(t, "stdout", out, "Groceries", "Travel", "milk and eggs", first.ID[:8])
		if strings.Index(out, "Travel") > strings.Index(out, "Groceries") {
			t.Error("newest note should be listed first")
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.seedNote(t, "# Groceries\n\nmilk and eggs")
		second := te.seedNote(t, "# Travel\n\nbook hotel")

		if code := te.run("list", "--json"); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}

		var got []noteJSON
		if err := json.Unmarshal(te.stdout.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, te.stdout)
		}
		if len(got) != 2 {
			t.Fatalf("got %d notes, want 2", len(got))
		}
		if got[0].ID != second.ID || got[0].Title != "Travel" {
			t.Errorf("got[0] = %+v, want Travel first", got[0])
		}
		if got[0].Preview != "book hotel" || got[0].Words != 4 {
			t.Errorf("got[0] preview/words = %q/%d", got[0].Preview, got[0].Words)
		}
		if !mdnotes.Color(got[0].Color).Valid() {
			t.Errorf("color %q is not valid", got[0].Color)
		}
	})
}

func TestSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout []string
	}{
		{"match", []string{"search", "MILK"}, ExitSuccess, []string{"Groceries"}},
		{"multi word query", []string{"search", "book", "hotel"}, ExitSuccess, []string{"Travel"}},
		{"no match", []string{"search", "zzz"}, ExitSuccess, []string{`No notes match "zzz"`}},
		{"no match json", []string{"search", "zzz", "--json"}, ExitSuccess, []string{"[]"}},
		{"missing query", []string{"search"}, ExitUsage, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			te.seedNote(t, "# Groceries\n\nmilk and eggs")
			te.seedNote(t, "# Travel\n\nbook hotel")

			if code := te.run(tt.args...); code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, te.stderr)
			}
			assertContains(t, "stdout", te.stdout.String(), tt.wantStdout...)
		})
	}
}

// ---------------------------------------------------------------------------
// show
// ---------------------------------------------------------------------------

func TestShow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       func(n *mdnotes.Note) []string
		wantCode   int
		wantStdout []string
		wantStderr []string
	}{
		{
			name:       "raw by id",
			args:       func(n *mdnotes.Note) []string { return []string{"show", n.ID, "--raw"} },
			wantCode:   ExitSuccess,
			wantStdout: []string{"# Groceries\n\n- milk\n- **eggs**"},
		},
		{
			name:       "html by title",
			args:       func(*mdnotes.Note) []string { return []string{"show", "groceries", "--html"} },
			wantCode:   ExitSuccess,
			wantStdout: []string{"<h1>Groceries</h1>", "<ul><li>milk</li><li><strong>eggs</strong></li></ul>"},
		},
		{
			name:       "terminal rendering by id prefix",
			args:       func(n *mdnotes.Note) []string { return []string{"show", n.ID[:6]} },
			wantCode:   ExitSuccess,
			wantStdout: []string{"Groceries", "milk"},
		},
		{
			name:     "raw and html conflict",
			args:     func(n *mdnotes.Note) []string { return []string{"show", n.ID, "--raw", "--html"} },
			wantCode: ExitUsage,
		},
		{
			name:       "not found",
			args:       func(*mdnotes.Note) []string { return []string{"show", "qqqqqqqq"} },
			wantCode:   ExitNotFound,
			wantStderr: []string{"note not found", "hint:", "mdnotes list"},
		},
		{
			name:     "missing argument",
			args:     func(*mdnotes.Note) []string { return []string{"show"} },
			wantCode: ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			n := te.seedNote(t, "# Groceries\n\n- milk\n- **eggs**")

			if code := te.run(tt.args(n)...); code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, te.stderr)
			}
			assertContains(t, "stdout", te.stdout.String(), tt.wantStdout...)
			assertContains(t, "stderr", te.stderr.String(), tt.wantStderr...)
		})
	}
}

func TestShow_AmbiguousPrefix(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	importLegacy(t, te, prefixFixtures)

	if code := te.run("show", "abcd"); code != ExitUsage {
		t.Fatalf("exit code = %d, want %d", code, ExitUsage)
	}
	assertContains(t, "stderr", te.stderr.String(), "ambiguous", "abcd0001 First", "abcd0002 Second")
}

func TestShow_AmbiguousPrefixWithSpaces(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	importLegacy(t, te, prefixFixtures)

	if code := te.run("show", "  abcd "); code != ExitUsage {
		t.Fatalf("exit code = %d, want %d", code, ExitUsage)
	}
	assertContains(t, "stderr", te.stderr.String(), "abcd0001 First", "abcd0002 Second")
}

// ---------------------------------------------------------------------------
// edit
// ---------------------------------------------------------------------------

func TestEdit(t *testing.T) {
	t.Parallel()

	t.Run("saves changed content", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("editor runs through sh")
		}

		te := newTestEnv(t)
		n := te.seedNote(t, "# Draft")
		te.vars["VISUAL"] = `printf '# Edited\n\nbody' >`

		if code := te.run("edit", n.ID); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}
		assertContains(t, "stdout", te.stdout.String(), "Saved Edited")

		got, err := te.nb.Get(context.Background(), n.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Content != "# Edited\n\nbody" || got.Title != "Edited" {
			t.Errorf("note = %q / %q", got.Title, got.Content)
		}
		if !got.UpdatedAt.After(n.UpdatedAt) {
			t.Error("UpdatedAt should advance")
		}
	})

	t.Run("unchanged content", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("editor runs through sh")
		}

		te := newTestEnv(t)
		n := te.seedNote(t, "# Draft")
		te.vars["EDITOR"] = "true"

		if code := te.run("edit", n.ID); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}
		assertContains(t, "stdout", te.stdout.String(), "No changes to Draft")
	})

	t.Run("no editor", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		n := te.seedNote(t, "# Draft")

		if code := te.run("edit", n.ID); code != ExitIO {
			t.Errorf("exit code = %d, want %d", code, ExitIO)
		}
		assertContains(t, "stderr", te.stderr.String(), "EDITOR")
	})
}

// ---------------------------------------------------------------------------
// color
// ---------------------------------------------------------------------------

func TestColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		color     string
		wantCode  int
		wantColor mdnotes.Color
	}{
		{"name", "rose", ExitSuccess, mdnotes.ColorRose},
		{"case insensitive", "TEAL", ExitSuccess, mdnotes.ColorTeal},
		{"css class", "from-sky-50 to-sky-100 border-sky-200", ExitSuccess, mdnotes.ColorSky},
		{"unknown", "magenta", ExitUsage, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			n := te.seedNote(t, "# Paint")

			if code := te.run("color", n.ID, tt.color); code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, te.stderr)
			}
			if tt.wantColor == "" {
				return
			}
			got, err := te.nb.Get(context.Background(), n.ID)
			if err != nil {
				t.Fatal(err)
			}
			if got.Color != tt.wantColor {
				t.Errorf("Color = %q, want %q", got.Color, tt.wantColor)
			}
			assertContains(t, "stdout", te.stdout.String(), "Paint is now "+string(tt.wantColor))
		})
	}
}

// ---------------------------------------------------------------------------
// delete
// ---------------------------------------------------------------------------

func TestDelete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        []string
		stdin       string
		wantCode    int
		wantDeleted bool
	}{
		{"force", []string{"--force"}, "", ExitSuccess, true},
		{"confirmed", nil, "y\n", ExitSuccess, true},
		{"confirmed yes", nil, "YES\n", ExitSuccess, true},
		{"declined", nil, "n\n", ExitGeneral, false},
		{"no answer", nil, "", ExitGeneral, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			n := te.seedNote(t, "# Old")
			te.Stdin = strings.NewReader(tt.stdin)

			args := append([]string{"delete", n.ID}, tt.args...)
			if code := te.run(args...); code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, te.stderr)
			}

			_, err := te.nb.Get(context.Background(), n.ID)
			deleted := errors.Is(err, mdnotes.ErrNoteNotFound)
			if deleted != tt.wantDeleted {
				t.Errorf("deleted = %v, want %v", deleted, tt.wantDeleted)
			}
			if tt.args == nil {
				assertContains(t, "stderr", te.stderr.String(), `Delete "Old"? [y/N]`)
			}
		})
	}
}

func TestDelete_NoFuzzyMatch(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	n := te.seedNote(t, "# Groceries")

	if code := te.run("delete", "--force", "Gros"); code != ExitNotFound {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitNotFound, te.stderr)
	}
	if _, err := te.nb.Get(context.Background(), n.ID); err != nil {
		t.Errorf("note was deleted by a fuzzy reference: %v", err)
	}

	if code := te.run("delete", "--force", "groceries"); code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, te.stderr)
	}
}
