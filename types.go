package mdnotes

import (
	"fmt"
	"strings"
	"time"
)

// Format is an export target.
type Format string

// Export formats.
const (
	FormatHTML     Format = "html"
	FormatWord     Format = "word"
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
)

// Formats returns every export format.
func Formats() []Format {
	return []Format{FormatHTML, FormatWord, FormatPDF, FormatMarkdown}
}

// ParseFormat resolves a format name (case-insensitive). "doc" and "md"
// are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "htm":
		return FormatHTML, nil
	case "word", "doc":
		return FormatWord, nil
	case "pdf":
		return FormatPDF, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q (must be html, word, pdf or markdown)", ErrInvalidFormat, s)
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatWord:
		return ".doc"
	case FormatPDF:
		return ".pdf"
	case FormatMarkdown:
		return ".md"
	default:
		return ".html"
	}
}

// MediaType returns the MIME type of exported data.
func (f Format) MediaType() string {
	switch f {
	case FormatWord:
		return "application/vnd.ms-word"
	case FormatPDF:
		return "application/pdf"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/html; charset=utf-8"
	}
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in millimeters.
const (
	MinMarginMM     = 5.0
	MaxMarginMM     = 50.0
	DefaultMarginMM = 15.0
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	MarginMM    float64 // applied to all sides
}

// DefaultPageSettings returns A4 portrait with 15mm margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		MarginMM:    DefaultMarginMM,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	switch strings.ToLower(p.Size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.MarginMM < MinMarginMM || p.MarginMM > MaxMarginMM {
		return fmt.Errorf("%w: %.1f (must be between %.0f and %.0f mm)", ErrInvalidMargin, p.MarginMM, MinMarginMM, MaxMarginMM)
	}

	return nil
}

// ExportInput describes one export.
type ExportInput struct {
	Markdown  string // note content (may be empty)
	Title     string // document title; empty = DocumentTitle(Markdown)
	Format    Format
	SourceDir string // base for relative image and link paths in PDFs
}

// ExportResult holds an exported document.
type ExportResult struct {
	Data      []byte
	FileName  string
	MediaType string
	HTML      string // rendered document, empty for markdown exports
}

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	timeout    time.Duration
	styleInput string // name, file path or CSS content
	assetPath  string
	page       *PageSettings
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdnotes: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithStyle sets the document stylesheet: an embedded style name, a path to
// a CSS file, or CSS content.
func WithStyle(style string) Option {
	return func(e *Exporter) {
		e.cfg.styleInput = style
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded assets for anything missing there.
func WithAssetPath(dir string) Option {
	return func(e *Exporter) {
		e.cfg.assetPath = dir
	}
}

// WithPage sets PDF page settings. nil keeps the defaults.
func WithPage(p *PageSettings) Option {
	return func(e *Exporter) {
		e.cfg.page = p
	}
}
