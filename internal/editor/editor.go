// Package editor opens note content in the user's text editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/alnah/go-mdnotes/internal/fileutil"
)

// ErrNoEditor indicates neither $VISUAL, $EDITOR nor a fallback editor is available.
var ErrNoEditor = errors.New("no editor found; set $EDITOR or $VISUAL")

// fallbackEditors are tried in order when no environment variable is set.
var fallbackEditors = []string{"nvim", "vim", "vi"}

// Editor runs an external editor on a temporary markdown file.
// Zero-value fields fall back to the process environment and standard streams.
type Editor struct {
	Getenv   func(string) string
	LookPath func(string) (string, error)
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

// Command returns the editor command line. Values from $VISUAL and $EDITOR
// may carry flags ("code --wait") and are run through the shell.
func (e *Editor) Command() (string, error) {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v, nil
		}
	}

	lookPath := e.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, cand := range fallbackEditors {
		if p, err := lookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", ErrNoEditor
}

// Edit writes initial to a private temp file, waits for the editor to exit
// and returns the file's final content and whether it differs from initial.
func (e *Editor) Edit(ctx context.Context, initial string) (final string, changed bool, err error) {
	command, err := e.Command()
	if err != nil {
		return "", false, err
	}

	path, cleanup, err := fileutil.WriteTempFile(initial, "md")
	if err != nil {
		return "", false, err
	}
	defer cleanup()

	// #nosec G204 -- the editor command is chosen by the user through $VISUAL/$EDITOR
	cmd := exec.CommandContext(ctx, "sh", "-c", command+` "$1"`, "sh", path)
	cmd.Stdin = orDefault(e.Stdin, io.Reader(os.Stdin))
	cmd.Stdout = orDefault(e.Stdout, io.Writer(os.Stdout))
	cmd.Stderr = orDefault(e.Stderr, io.Writer(os.Stderr))
	if err := cmd.Run(); err != nil {
		return "", false, fmt.Errorf("running editor %q: %w", command, err)
	}

	out, err := os.ReadFile(path) // #nosec G304 -- path is our own temp file
	if err != nil {
		return "", false, fmt.Errorf("reading edited file: %w", err)
	}
	final = string(out)
	return final, final != initial, nil
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
