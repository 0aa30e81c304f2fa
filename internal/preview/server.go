// Package preview serves notes over HTTP for viewing in a browser: an index
// of all notes, one page per note, and a render endpoint for live preview.
package preview

import (
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/alnah/go-mdnotes"
	"github.com/alnah/go-mdnotes/internal/assets"
	"github.com/alnah/go-mdnotes/internal/dateutil"
	"github.com/alnah/go-mdnotes/internal/pipeline"
)

// Server limits.
const (
	MaxRenderBodySize = 1 << 20 // 1 MiB
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
	indexTitle        = "Notes"
)

// NoteSource is the read side of a notebook.
type NoteSource interface {
	List(ctx context.Context) ([]*mdnotes.Note, error)
	Get(ctx context.Context, id string) (*mdnotes.Note, error)
}

// Compile-time interface check.
var _ NoteSource = (*mdnotes.Notebook)(nil)

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address used by Run.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithSanitize turns sanitization of rendered notes on or off.
func WithSanitize(on bool) Option {
	return func(s *Server) {
		s.sanitize = on
	}
}

// WithStyle sets the stylesheet used for note pages and the index.
func WithStyle(css string) Option {
	return func(s *Server) {
		s.style = css
	}
}

// WithAssets sets the loader for templates and the default stylesheet.
func WithAssets(loader assets.AssetLoader) Option {
	return func(s *Server) {
		s.assetLoader = loader
	}
}

// WithDateFormat sets the format of dates shown on pages.
func WithDateFormat(format string) Option {
	return func(s *Server) {
		s.dateFormat = format
	}
}

// WithLogf sets the request logger. nil disables logging.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Server) {
		s.logf = logf
	}
}

// Server is the preview HTTP server.
type Server struct {
	source      NoteSource
	addr        string
	sanitize    bool
	style       string
	dateFormat  string
	logf        func(format string, args ...any)
	assetLoader assets.AssetLoader

	renderer  pipeline.MarkdownRenderer
	sanitizer pipeline.Sanitizer
	injector  pipeline.CSSInjector
	document  pipeline.DocumentBuilder
	index     *template.Template
}

// NewServer creates a Server reading notes from source.
// Returns error if templates or the stylesheet cannot be loaded, or the
// date format is invalid.
func NewServer(source NoteSource, opts ...Option) (*Server, error) {
	s := &Server{
		source:      source,
		addr:        "127.0.0.1:8484",
		sanitize:    true,
		dateFormat:  dateutil.DefaultDateFormat,
		logf:        log.Printf,
		assetLoader: assets.NewEmbeddedLoader(),
		renderer:    &pipeline.RuleRenderer{},
		sanitizer:   pipeline.NewSanitizer(),
		injector:    &pipeline.CSSInjection{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logf == nil {
		s.logf = func(string, ...any) {}
	}

	if _, err := dateutil.ResolveFormat(s.dateFormat); err != nil {
		return nil, err
	}

	if s.style == "" {
		css, err := s.assetLoader.LoadStyle(assets.DefaultStyleName)
		if err != nil {
			return nil, fmt.Errorf("loading style: %w", err)
		}
		s.style = css
	}

	docTmpl, err := s.assetLoader.LoadTemplate(assets.DocumentTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading document template: %w", err)
	}
	if s.document, err = pipeline.NewTemplateDocument(assets.DocumentTemplate, docTmpl); err != nil {
		return nil, err
	}

	indexTmpl, err := s.assetLoader.LoadTemplate(assets.IndexTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading index template: %w", err)
	}
	if s.index, err = template.New(assets.IndexTemplate).Parse(indexTmpl); err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}

	return s, nil
}

// Handler returns the routes served by the preview.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /notes/{id}", s.handleNote)
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return s.logRequests(mux)
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down preview: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// indexNote is one entry of the index page.
type indexNote struct {
	ID      string
	Title   string
	Preview string
	Updated string
	Accent  template.CSS
	Tint    template.CSS
}

type indexData struct {
	Title string
	Style template.CSS
	Notes []indexNote
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	notes, err := s.source.List(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	data := indexData{
		Title: indexTitle,
		Style: template.CSS(s.style), // #nosec G203 -- stylesheet comes from local assets
		Notes: make([]indexNote, 0, len(notes)),
	}
	for _, n := range notes {
		data.Notes = append(data.Notes, indexNote{
			ID:      n.ID,
			Title:   n.Title,
			Preview: mdnotes.ExtractPreview(n.Content),
			Updated: s.formatDate(n.UpdatedAt),
			Accent:  template.CSS(n.Color.Hex()),  // #nosec G203 -- fixed palette value
			Tint:    template.CSS(n.Color.Tint()), // #nosec G203 -- fixed palette value
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.Execute(w, data); err != nil {
		s.logf("preview: index: %v", err)
	}
}

func (s *Server) handleNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.source.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, mdnotes.ErrNoteNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}

	body := s.render(r.Context(), n.Content)
	body += fmt.Sprintf("\n<hr />\n<p><small>%d words, %d characters. Updated %s. <a href=\"/\">All notes</a></small></p>",
		mdnotes.CountWords(n.Content), mdnotes.CountChars(n.Content), html.EscapeString(s.formatDate(n.UpdatedAt)))

	doc, err := s.document.BuildDocument(r.Context(), n.Title, body)
	if err != nil {
		s.serverError(w, err)
		return
	}
	doc = s.injector.InjectCSS(r.Context(), doc, s.style)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, doc)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRenderBodySize)
	src, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, s.render(r.Context(), string(src)))
}

func (s *Server) render(ctx context.Context, markdown string) string {
	out := s.renderer.RenderMarkdown(ctx, markdown)
	if s.sanitize {
		out = s.sanitizer.Sanitize(out)
	}
	return out
}

func (s *Server) formatDate(t time.Time) string {
	out, err := dateutil.Format(t.Local(), s.dateFormat)
	if err != nil {
		return t.Format(time.DateOnly)
	}
	return out
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.logf("preview: %v", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}
