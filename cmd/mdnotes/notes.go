package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-mdnotes"
	"github.com/alnah/go-mdnotes/internal/terminal"
)

// noteJSON is the --json representation of a note.
type noteJSON struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	Preview   string    `json:"preview"`
	Words     int       `json:"words"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// withNotebook opens the notebook, runs fn and closes the notebook.
func withNotebook(ctx context.Context, a *app, fn func(nb *mdnotes.Notebook) error) (err error) {
	nb, err := a.openNotebook(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := nb.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(nb)
}

// readSource reads markdown from path, or stdin for "-".
func readSource(env *Environment, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(env.Stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- user-provided path
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return string(data), nil
}

func runNew(ctx context.Context, a *app, args []string) error {
	if err := requireArgs("new", args, 0); err != nil {
		return err
	}
	f := a.flags
	if f.content != "" && f.file != "" {
		return fmt.Errorf("%w: --content and --file are mutually exclusive", ErrUsage)
	}

	content := f.content
	if f.file != "" {
		var err error
		if content, err = readSource(a.env, f.file); err != nil {
			return err
		}
	}

	return withNotebook(ctx, a, func(nb *mdnotes.Notebook) error {
		var (
			n   *mdnotes.Note
			err error
		)
		if content == "" {
			n, err = nb.Create(ctx)
		} else {
			n, err = nb.CreateWithContent(ctx, content)
		}
		if err != nil {
			return err
		}
		a.logf("Created %q (%s)", n.Title, n.Color)
		fmt.Fprintln(a.env.Stdout, n.ID)
		return nil
	})
}

func runList(ctx context.Context, a *app, args []string) error {
	if err := requireArgs("list", args, 0); err != nil {
		return err
	}
	return withNotebook(ctx, a, func(nb *mdnotes.Notebook) error {
		notes, err := nb.List(ctx)
		if err != nil {
			return err
		}
		return a.writeNotes(notes)
	})
}

func runSearch(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: mdnotes search <query> [flags]", ErrUsage)
	}
	query := strings.Join(args, " ")
	return withNotebook(ctx, a, func(nb *mdnotes.Notebook) error {
		notes, err := nb.Search(ctx, query)
		if err != nil {
			return err
		}
		if len(notes) == 0 && !a.flags.json {
			a.printf("No notes match %q\n", query)
			return nil
		}
		return a.writeNotes(notes)
	})
}

// writeNotes prints notes as JSON or as a styled list.
func (a *app) writeNotes(notes []*mdnotes.Note) error {
	if a.flags.json {
		out := make([]noteJSON, len(notes))
		for i, n := range notes {
			out[i] = noteJSON{
				ID:        n.ID,
				Title:     n.Title,
				Color:     string(n.Color),
				Preview:   mdnotes.ExtractPreview(n.Content),
				Words:     mdnotes.CountWords(n.Content),
				CreatedAt: n.CreatedAt,
				UpdatedAt: n.UpdatedAt,
			}
		}
		enc := json.NewEncoder(a.env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	rows := make([]terminal.Row, len(notes))
	for i, n := range notes {
		rows[i] = terminal.Row{
			ID:      n.ID,
			Title:   n.Title,
			Preview: mdnotes.ExtractPreview(n.Content),
			Hex:     n.Color.Hex(),
			Updated: n.UpdatedAt,
		}
	}
	return terminal.WriteNoteList(a.env.Stdout, rows, a.cfg.Display.DateFormat)
}

func runShow(ctx context.Context, a *app, args []string) error {
	if err := requireArgs("show", args, 1); err != nil {
		return err
	}
	if a.flags.raw && a.flags.html {
		return fmt.Errorf("%w: --raw and --html are mutually exclusive", ErrUsage)
	}
	return withNotebook(ctx, a, func(nb *mdnotes.Notebook) error {
		n, err := findNote(ctx, nb, args[0])
		if err != nil {
			return err
		}
		switch {
		case a.flags.raw:
			_, err = io.WriteString(a.env.Stdout, n.Content)
		case a.flags.html:
			_, err = fmt.Fprintln(a.env.Stdout, mdnotes.Render(n.Content))
		default:
			err = terminal.RenderMarkdown(a.env.Stdout, n.Content, a.cfg.Display.GlamourStyle, a.cfg.Display.WordWrap)
		}
		return err
	})
}

func runEdit(ctx context.Context, a *app, args []string) error {
	if err := requireArgs("edit", args, 1); err != nil {
		return err
	}
	return withNotebook(ctx, a, func(nb *mdnotes.Notebook) error {
		n, err := findNote(ctx, nb, args[0])
		if err != nil {
			return err
		}
		content, changed, err := a.env.Editor.Edit(ctx, n.Content)
		if err != nil {
			return err
		}
		if !changed {
			a.printf("No changes to %s\n", n.Title)
			return nil
		}
		saved, err := nb.Save(ctx, n.ID, content)
		if err != nil {
			return err
		}
		a.printf("Saved %s\n", saved.Title)
		return nil
	})
}

func runColor(ctx context.Context, a *app, args []string) error {
	if err := requireArgs("color", args, 2); err != nil {
		return err
	}
	c, err := mdnotes.ParseColor(args[1])
	if err != nil {
		return err
	}
	return withNotebook(ctx, a, func(nb *mdnotes.Notebook) error {
		n, err := findNote(ctx, nb, args[0])
		if err != nil {
			return err
		}
		if _, err := nb.SetColor(ctx, n.ID, c); err != nil {
			return err
		}
		a.printf("%s %s is now %s\n", terminal.Swatch(c.Hex()), n.Title, c)
		return nil
	})
}

func runDelete(ctx context.Context, a *app, args []string) error {
	if err := requireArgs("delete", args, 1); err != nil {
		return err
	}
	return withNotebook(ctx, a, func(nb *mdnotes.Notebook) error {
		n, err := findNoteExact(ctx, nb, args[0])
		if err != nil {
			return err
		}
		if !a.flags.force && !confirm(a.env, fmt.Sprintf("Delete %q?", n.Title)) {
			return ErrAborted
		}
		if err := nb.Delete(ctx, n.ID); err != nil {
			return err
		}
		a.printf("Deleted %s\n", n.Title)
		return nil
	})
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
// Anything but y or yes is a no.
func confirm(env *Environment, question string) bool {
	fmt.Fprintf(env.Stderr, "%s [y/N] ", question)
	line, _ := bufio.NewReader(env.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
