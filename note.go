package mdnotes

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/alnah/go-mdnotes/internal/fileutil"
)

// Defaults for newly created notes.
const (
	DefaultTitle   = "Untitled Note"
	DefaultContent = "# " + DefaultTitle + "\n\nStart writing your note here..."
)

// Preview limits.
const (
	previewLines    = 3
	previewMaxRunes = 120
	previewEllipsis = "..."
)

// Precompiled regex patterns for note metadata.
var (
	h1Pattern             = regexp.MustCompile(`(?m)^# (.+)$`)
	previewSyntaxPattern  = regexp.MustCompile("[#*_~`]")
	colorClassTailPattern = regexp.MustCompile(`-\d+$`)
)

// Note is a markdown note.
type Note struct {
	ID        string
	Title     string
	Content   string
	Color     Color
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNote returns a note with default content, a random color and a fresh ID.
func NewNote(now time.Time) *Note {
	return &Note{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		Content:   DefaultContent,
		Color:     RandomColor(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Color is the accent a note is displayed with.
type Color string

// Note colors.
const (
	ColorAmber   Color = "amber"
	ColorBlue    Color = "blue"
	ColorEmerald Color = "emerald"
	ColorViolet  Color = "violet"
	ColorRose    Color = "rose"
	ColorYellow  Color = "yellow"
	ColorSky     Color = "sky"
	ColorTeal    Color = "teal"
)

type palette struct {
	hex  string // accent (borders, swatches)
	tint string // light background
}

var colorPalette = map[Color]palette{
	ColorAmber:   {"#F59E0B", "#FEF3C7"},
	ColorBlue:    {"#3B82F6", "#DBEAFE"},
	ColorEmerald: {"#10B981", "#D1FAE5"},
	ColorViolet:  {"#8B5CF6", "#EDE9FE"},
	ColorRose:    {"#F43F5E", "#FFE4E6"},
	ColorYellow:  {"#EAB308", "#FEF9C3"},
	ColorSky:     {"#0EA5E9", "#E0F2FE"},
	ColorTeal:    {"#14B8A6", "#CCFBF1"},
}

// Colors returns every note color in display order.
func Colors() []Color {
	return []Color{ColorAmber, ColorBlue, ColorEmerald, ColorViolet, ColorRose, ColorYellow, ColorSky, ColorTeal}
}

// RandomColor picks a note color uniformly.
func RandomColor() Color {
	all := Colors()
	return all[rand.IntN(len(all))] // #nosec G404 -- cosmetic choice
}

// ParseColor resolves a color name (case-insensitive). It also accepts class
// lists such as "from-amber-50 to-amber-100 border-amber-200", the form older
// exports stored colors in.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c := Color(s); c.Valid() {
		return c, nil
	}
	for _, field := range strings.Fields(s) {
		for _, prefix := range []string{"from-", "to-", "via-", "border-", "bg-"} {
			field = strings.TrimPrefix(field, prefix)
		}
		if c := Color(colorClassTailPattern.ReplaceAllString(field, "")); c.Valid() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be one of %s)", ErrInvalidColor, s, colorList())
}

func colorList() string {
	names := make([]string, 0, len(colorPalette))
	for _, c := range Colors() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// Valid reports whether c is a known color.
func (c Color) Valid() bool {
	_, ok := colorPalette[c]
	return ok
}

// Hex returns the accent color, or "" for an unknown color.
func (c Color) Hex() string { return colorPalette[c].hex }

// Tint returns the light background color, or "" for an unknown color.
func (c Color) Tint() string { return colorPalette[c].tint }

func (c Color) String() string { return string(c) }

// ExtractTitle returns the first level-1 heading, else the trimmed first
// line, else DefaultTitle.
func ExtractTitle(content string) string {
	if m := h1Pattern.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	first, _, _ := strings.Cut(content, "\n")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return DefaultTitle
}

// DocumentTitle returns the first level-1 heading or DefaultTitle.
// Exports are named after it.
func DocumentTitle(content string) string {
	if m := h1Pattern.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return DefaultTitle
}

// ExtractPreview returns up to three lines after the title with markdown
// markers stripped, cut to 120 characters. "..." is appended whenever the
// whole content is longer than that, even if the preview itself is short.
func ExtractPreview(content string) string {
	lines := strings.Split(content, "\n")
	start := 0
	if strings.HasPrefix(lines[0], "# ") {
		start = 1
	}
	end := min(start+previewLines, len(lines))

	preview := strings.Join(lines[start:end], "\n")
	preview = strings.TrimSpace(previewSyntaxPattern.ReplaceAllString(preview, ""))
	if utf8.RuneCountInString(preview) > previewMaxRunes {
		preview = string([]rune(preview)[:previewMaxRunes])
	}
	if utf8.RuneCountInString(content) > previewMaxRunes {
		preview += previewEllipsis
	}
	return preview
}

// CountWords returns the number of whitespace-separated words.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// CountChars returns the number of characters (runes).
func CountChars(content string) int {
	return utf8.RuneCountInString(content)
}

// MarkdownFileName names a markdown download after the first heading.
func MarkdownFileName(content string) string {
	if m := h1Pattern.FindStringSubmatch(content); m != nil {
		return fileutil.SanitizeFileName(m[1]) + ".md"
	}
	return "untitled.md"
}

// ExportFileName returns "<title>.<ext>" with the title made safe for the filesystem.
func ExportFileName(title string, format Format) string {
	return fileutil.SanitizeFileName(title) + format.Extension()
}
