package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
)

// ErrTemplateRender indicates a document template failed to execute.
var ErrTemplateRender = errors.New("document template rendering failed")

// DocumentBuilder wraps a rendered fragment in a complete document.
type DocumentBuilder interface {
	BuildDocument(ctx context.Context, title, body string) (string, error)
}

// documentData is the value seen by document templates.
type documentData struct {
	Title string
	Body  template.HTML
}

// TemplateDocument builds documents from an html/template.
// The title is escaped; the body is inserted as-is.
type TemplateDocument struct {
	tmpl *template.Template
}

// NewTemplateDocument parses a document template.
// Returns error if the template cannot be parsed.
func NewTemplateDocument(name, tmplContent string) (*TemplateDocument, error) {
	tmpl, err := template.New(name).Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", name, err)
	}
	return &TemplateDocument{tmpl: tmpl}, nil
}

// BuildDocument renders the template around body.
func (d *TemplateDocument) BuildDocument(ctx context.Context, title, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data := documentData{
		Title: title,
		Body:  template.HTML(body), // #nosec G203 -- body is renderer output, shown as written
	}

	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

// Compile-time interface check.
var _ DocumentBuilder = (*TemplateDocument)(nil)
