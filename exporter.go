package mdnotes

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/alnah/go-mdnotes/internal/assets"
	"github.com/alnah/go-mdnotes/internal/fileutil"
	"github.com/alnah/go-mdnotes/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownRenderer = (*pipeline.RuleRenderer)(nil)
	_ pipeline.CSSInjector      = (*pipeline.CSSInjection)(nil)
	_ pipeline.DocumentBuilder  = (*pipeline.TemplateDocument)(nil)
)

// Exporter turns note markdown into downloadable documents.
// Create with NewExporter, call Export as often as needed, and Close when
// done. Safe for concurrent use; PDF exports on one Exporter share its browser.
type Exporter struct {
	cfg          exporterConfig
	assetLoader  assets.AssetLoader
	renderer     pipeline.MarkdownRenderer
	cssInjector  pipeline.CSSInjector
	document     pipeline.DocumentBuilder
	word         pipeline.DocumentBuilder
	style        string // resolved CSS
	pdfConverter pdfConverter

	mu     sync.Mutex
	closed bool
}

// NewExporter creates an Exporter with default configuration.
// Returns error if page settings are invalid or assets cannot be loaded.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg:         exporterConfig{timeout: defaultTimeout},
		assetLoader: assets.NewEmbeddedLoader(),
		renderer:    &pipeline.RuleRenderer{},
		cssInjector: &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(e)
	}

	page, err := resolvePage(e.cfg.page)
	if err != nil {
		return nil, err
	}
	e.cfg.page = page

	if e.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(e.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetDir, err)
		}
		e.assetLoader = resolver
	}

	if err := e.resolveStyle(); err != nil {
		return nil, err
	}

	if e.document, err = e.loadDocument(assets.DocumentTemplate); err != nil {
		return nil, err
	}
	if e.word, err = e.loadDocument(assets.WordTemplate); err != nil {
		return nil, err
	}

	// Create PDF converter if not injected (e.g., by tests)
	if e.pdfConverter == nil {
		e.pdfConverter = newRodConverter(e.cfg.timeout)
	}

	return e, nil
}

// resolvePage fills unset page fields with defaults and validates the result.
func resolvePage(p *PageSettings) (*PageSettings, error) {
	resolved := DefaultPageSettings()
	if p == nil {
		return resolved, nil
	}
	if p.Size != "" {
		resolved.Size = p.Size
	}
	if p.Orientation != "" {
		resolved.Orientation = p.Orientation
	}
	if p.MarginMM != 0 {
		resolved.MarginMM = p.MarginMM
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
func (e *Exporter) resolveStyle() error {
	input := e.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		e.style = string(content)
		return nil
	}

	if fileutil.IsCSS(input) {
		e.style = input
		return nil
	}

	css, err := e.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	e.style = css
	return nil
}

func (e *Exporter) loadDocument(name string) (pipeline.DocumentBuilder, error) {
	content, err := e.assetLoader.LoadTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("loading %s template: %w", name, err)
	}
	doc, err := pipeline.NewTemplateDocument(name, content)
	if err != nil {
		return nil, fmt.Errorf("initializing %s template: %w", name, err)
	}
	return doc, nil
}

// Export builds one document. An empty Format means html.
// The context is checked between stages and bounds PDF printing.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (e *Exporter) Export(ctx context.Context, input ExportInput) (result *ExportResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, ErrExporterClosed
	}

	format := input.Format
	if format == "" {
		format = FormatHTML
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = DocumentTitle(input.Markdown)
	}

	if format == FormatMarkdown {
		name := ExportFileName(title, format)
		if input.Title == "" {
			name = MarkdownFileName(input.Markdown)
		}
		return &ExportResult{
			Data:      []byte(input.Markdown),
			FileName:  name,
			MediaType: format.MediaType(),
		}, nil
	}

	body := e.renderer.RenderMarkdown(ctx, input.Markdown)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc string
	switch format {
	case FormatWord:
		doc, err = e.word.BuildDocument(ctx, title, body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHTMLBuild, err)
		}
	case FormatPDF:
		if input.SourceDir != "" {
			body, err = pipeline.ResolveAssetPaths(body, input.SourceDir)
			if err != nil {
				return nil, fmt.Errorf("resolving asset paths: %w", err)
			}
		}
		fallthrough
	default:
		doc, err = e.document.BuildDocument(ctx, title, body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHTMLBuild, err)
		}
		doc = e.cssInjector.InjectCSS(ctx, doc, e.style)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &ExportResult{
		Data:      []byte(doc),
		FileName:  ExportFileName(title, format),
		MediaType: format.MediaType(),
		HTML:      doc,
	}
	if format != FormatPDF {
		return res, nil
	}

	pdfBytes, err := e.pdfConverter.ToPDF(ctx, doc, e.cfg.page)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.Data = pdfBytes
	return res, nil
}

// Style returns the resolved stylesheet applied to HTML and PDF exports.
func (e *Exporter) Style() string {
	return e.style
}

// Close releases resources (headless Chrome browser).
// Calling Close more than once is safe.
func (e *Exporter) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	if e.pdfConverter != nil {
		return e.pdfConverter.Close()
	}
	return nil
}
