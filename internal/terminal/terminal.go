// Package terminal renders notes for interactive terminals: markdown through
// glamour and note lists with lipgloss color swatches.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/alnah/go-mdnotes/internal/dateutil"
)

// ErrRender indicates glamour could not render the content.
var ErrRender = errors.New("terminal render failed")

// ShortIDLength is the number of ID characters shown in lists.
const ShortIDLength = 8

const maxListTitle = 40

// Row is one note line in a list.
type Row struct {
	ID      string
	Title   string
	Preview string
	Hex     string // swatch color, e.g. "#F59E0B"
	Updated time.Time
}

var (
	idStyle      = lipgloss.NewStyle().Faint(true)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dateStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
	previewStyle = lipgloss.NewStyle().PaddingLeft(ShortIDLength + 5).Faint(true)
)

// RenderMarkdown writes content rendered by glamour with the named style.
// width 0 disables word wrapping.
func RenderMarkdown(w io.Writer, content, style string, width int) error {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	out, err := r.Render(content)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// WriteNoteList writes one block per note: swatch, short ID, title and
// updated date, then the preview on an indented line when present.
func WriteNoteList(w io.Writer, rows []Row, dateFormat string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No notes yet. Create one with: mdnotes new")
		return err
	}

	for _, r := range rows {
		date, err := dateutil.Format(r.Updated.Local(), dateFormat)
		if err != nil {
			return err
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			Swatch(r.Hex), " ",
			idStyle.Render(ShortID(r.ID)), "  ",
			titleStyle.Render(truncate(r.Title, maxListTitle)), "  ",
			dateStyle.Render(date),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if preview := strings.ReplaceAll(r.Preview, "\n", " "); preview != "" {
			if _, err := fmt.Fprintln(w, previewStyle.Render(preview)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Swatch returns a two-cell block painted with hex. Terminals without color
// support get two spaces.
func Swatch(hex string) string {
	if hex == "" {
		return "  "
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}

// ShortID returns the first ShortIDLength characters of id.
func ShortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
