package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-mdnotes"
	"github.com/alnah/go-mdnotes/internal/fileutil"
	"github.com/alnah/go-mdnotes/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// ErrExporterInit indicates the pool could not provide an exporter.
var ErrExporterInit = errors.New("failed to initialize exporter")

// exportJob is one note to export and where to write it.
type exportJob struct {
	Note       *mdnotes.Note
	OutputPath string
}

// exportParams holds settings shared by every job of a batch.
type exportParams struct {
	format    mdnotes.Format
	sourceDir string // PDF only
}

// ExportOutcome holds the result of a single export.
type ExportOutcome struct {
	Title      string
	OutputPath string
	Err        error
	Duration   time.Duration
}

func runExport(ctx context.Context, a *app, args []string) error {
	f := a.flags
	if f.export.all == (len(args) > 0) {
		return fmt.Errorf("%w: name notes to export or pass --all, not both", ErrUsage)
	}

	params, opts, err := resolveExportParams(a)
	if err != nil {
		return err
	}

	outDir := firstNonEmpty(f.output, a.cfg.Export.DefaultDir, ".")

	return withNotebook(ctx, a, func(nb *mdnotes.Notebook) error {
		notes, err := selectNotes(ctx, nb, args, f.export.all)
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			a.printf("No notes to export\n")
			return nil
		}

		if err := os.MkdirAll(outDir, dirPermissions); err != nil {
			return fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
		}

		size := min(mdnotes.ResolvePoolSize(f.export.workers), len(notes))
		a.logf("Pool size: %d", size)
		pool := a.env.NewPool(size, opts...)
		defer func() { _ = pool.Close() }()

		results := exportBatch(ctx, pool, planJobs(notes, outDir, params.format), params)
		return printExportResults(results, a)
	})
}

// resolveExportParams merges flags, environment and config into batch
// parameters and exporter options.
func resolveExportParams(a *app) (*exportParams, []mdnotes.Option, error) {
	f, cfg := a.flags, a.cfg

	format, err := mdnotes.ParseFormat(firstNonEmpty(f.format, cfg.Export.Format, string(mdnotes.FormatHTML)))
	if err != nil {
		return nil, nil, err
	}

	timeout, err := resolveTimeout(f.export.timeout, a.envCf, cfg)
	if err != nil {
		return nil, nil, err
	}

	page := &mdnotes.PageSettings{
		Size:        firstNonEmpty(f.export.page.size, cfg.Page.Size),
		Orientation: f.export.page.orientation,
		MarginMM:    cfg.Page.Margin,
	}
	if f.export.page.margin != 0 {
		page.MarginMM = f.export.page.margin
	}

	opts := []mdnotes.Option{
		mdnotes.WithTimeout(timeout),
		mdnotes.WithPage(page),
		mdnotes.WithStyle(firstNonEmpty(f.export.assets.style, cfg.Export.Style)),
	}
	if dir := firstNonEmpty(f.export.assets.assetPath, cfg.Assets.BasePath); dir != "" {
		opts = append(opts, mdnotes.WithAssetPath(dir))
	}

	params := &exportParams{format: format}
	if format == mdnotes.FormatPDF {
		base, err := filepath.Abs(f.export.baseDir)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: --base-dir: %v", ErrUsage, err)
		}
		params.sourceDir = base
	}
	a.logf("Format: %s, timeout: %v", format, timeout)

	return params, opts, nil
}

// selectNotes resolves refs in order, skipping duplicates, or lists every
// note when all is set.
func selectNotes(ctx context.Context, nb *mdnotes.Notebook, refs []string, all bool) ([]*mdnotes.Note, error) {
	if all {
		return nb.List(ctx)
	}
	seen := make(map[string]bool, len(refs))
	notes := make([]*mdnotes.Note, 0, len(refs))
	for _, ref := range refs {
		n, err := findNote(ctx, nb, ref)
		if err != nil {
			return nil, err
		}
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		notes = append(notes, n)
	}
	return notes, nil
}

// planJobs assigns each note an output path in dir. Notes whose names
// collide get " (2)", " (3)" and so on before the extension.
func planJobs(notes []*mdnotes.Note, dir string, format mdnotes.Format) []exportJob {
	used := make(map[string]bool, len(notes))
	jobs := make([]exportJob, len(notes))
	for i, n := range notes {
		name := mdnotes.ExportFileName(mdnotes.DocumentTitle(n.Content), format)
		if format == mdnotes.FormatMarkdown {
			name = mdnotes.MarkdownFileName(n.Content)
		}
		jobs[i] = exportJob{Note: n, OutputPath: filepath.Join(dir, uniqueName(name, used))}
	}
	return jobs
}

func uniqueName(name string, used map[string]bool) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

// exportBatch processes jobs concurrently using the exporter pool.
func exportBatch(ctx context.Context, pool Pool, jobs []exportJob, params *exportParams) []ExportOutcome {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))
	results := make([]ExportOutcome, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			exp, err := pool.Acquire()
			if err != nil {
				// Exporter creation failed, mark remaining jobs as failed
				for idx := range queue {
					results[idx] = ExportOutcome{
						Title: jobs[idx].Note.Title,
						Err:   fmt.Errorf("%w: %w", ErrExporterInit, err),
					}
				}
				return
			}
			defer pool.Release(exp)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = ExportOutcome{
						Title: jobs[idx].Note.Title,
						Err:   ctx.Err(),
					}
					continue
				}
				results[idx] = exportNote(ctx, exp, jobs[idx], params)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// exportNote exports one note and writes it atomically.
func exportNote(ctx context.Context, exp Exporter, job exportJob, params *exportParams) ExportOutcome {
	start := time.Now()
	outcome := ExportOutcome{Title: job.Note.Title, OutputPath: job.OutputPath}

	res, err := exp.Export(ctx, mdnotes.ExportInput{
		Markdown:  job.Note.Content,
		Format:    params.format,
		SourceDir: params.sourceDir,
	})
	if err != nil {
		outcome.Err = err
		outcome.Duration = time.Since(start)
		return outcome
	}

	// #nosec G306 -- exported documents are meant to be readable
	if err := fileutil.WriteFileAtomic(job.OutputPath, res.Data, filePermissions); err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	outcome.Duration = time.Since(start)
	return outcome
}

// printExportResults reports each outcome and returns an error carrying the
// first failure when any export failed.
func printExportResults(results []ExportOutcome, a *app) error {
	var (
		failed   int
		firstErr error
	)

	for _, r := range results {
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(a.env.Stderr, "FAILED %s: %v\n", r.Title, r.Err)
			continue
		}

		if a.flags.common.quiet {
			continue
		}

		if a.flags.common.verbose {
			fmt.Fprintf(a.env.Stdout, "%s -> %s (%v)\n", r.Title, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(a.env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if len(results) > 1 {
		a.printf("\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d exports failed: %w", failed, len(results), firstErr)
	}
	return nil
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
