package mdnotes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alnah/go-mdnotes/internal/store"
	"github.com/alnah/go-mdnotes/internal/yamlutil"
)

// BackupVersion is written to every YAML backup.
const BackupVersion = 1

// ImportFormat selects the decoder used by Import.
type ImportFormat string

// Import formats.
const (
	ImportAuto ImportFormat = ""     // detect from content
	ImportYAML ImportFormat = "yaml" // Notebook.Export output
	ImportJSON ImportFormat = "json" // browser localStorage dump
)

// ParseImportFormat resolves "yaml", "yml", "json" or "" (auto).
func ParseImportFormat(s string) (ImportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ImportAuto, nil
	case "yaml", "yml":
		return ImportYAML, nil
	case "json":
		return ImportJSON, nil
	}
	return "", fmt.Errorf("%w: %q (must be yaml or json)", ErrImportFormat, s)
}

// ImportReport summarizes an import.
type ImportReport struct {
	Imported int
	Skipped  int // IDs already present
}

type backupFile struct {
	Version    int          `yaml:"version"`
	ExportedAt string       `yaml:"exportedAt"`
	Notes      []backupNote `yaml:"notes"`
}

type backupNote struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Color     string `yaml:"color,omitempty"`
	CreatedAt string `yaml:"createdAt"`
	UpdatedAt string `yaml:"updatedAt"`
	Content   string `yaml:"content"`
}

// legacyNote is one entry of the JSON array older versions kept in browser
// storage. Timestamps are Unix milliseconds; color is a class list.
type legacyNote struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	Color     string `json:"color,omitempty"`
}

// Export writes every note as a YAML backup, newest first.
func (nb *Notebook) Export(ctx context.Context, w io.Writer) error {
	notes, err := nb.List(ctx)
	if err != nil {
		return err
	}

	file := backupFile{
		Version:    BackupVersion,
		ExportedAt: nb.timestamp().Format(time.RFC3339),
		Notes:      make([]backupNote, len(notes)),
	}
	for i, n := range notes {
		file.Notes[i] = backupNote{
			ID:        n.ID,
			Title:     n.Title,
			Color:     string(n.Color),
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339Nano),
			UpdatedAt: n.UpdatedAt.UTC().Format(time.RFC3339Nano),
			Content:   n.Content,
		}
	}

	data, err := yamlutil.Marshal(&file)
	if err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Import reads notes from a YAML backup or a legacy JSON array. Notes whose
// ID already exists are skipped; missing or unknown colors get a random one
// and missing titles are derived from content.
func (nb *Notebook) Import(ctx context.Context, r io.Reader, format ImportFormat) (ImportReport, error) {
	data, err := yamlutil.ReadLimited(r)
	if err != nil {
		return ImportReport{}, fmt.Errorf("%w: %v", ErrImportDecode, err)
	}

	if format == ImportAuto {
		format = detectImportFormat(data)
	}

	var notes []*Note
	switch format {
	case ImportYAML:
		notes, err = decodeBackup(data)
	case ImportJSON:
		notes, err = decodeLegacy(data)
	default:
		return ImportReport{}, fmt.Errorf("%w: %q", ErrImportFormat, format)
	}
	if err != nil {
		return ImportReport{}, err
	}

	var report ImportReport
	for _, n := range notes {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !n.Color.Valid() {
			n.Color = RandomColor()
		}
		if n.Title == "" {
			n.Title = ExtractTitle(n.Content)
		}
		err := nb.store.Create(ctx, toRecord(n))
		switch {
		case errors.Is(err, store.ErrConflict):
			report.Skipped++
		case err != nil:
			return report, fmt.Errorf("importing note %s: %w", n.ID, err)
		default:
			report.Imported++
		}
	}
	return report, nil
}

func detectImportFormat(data []byte) ImportFormat {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return ImportJSON
	}
	return ImportYAML
}

func decodeBackup(data []byte) ([]*Note, error) {
	var file backupFile
	if err := yamlutil.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportDecode, err)
	}
	if file.Version != BackupVersion {
		return nil, fmt.Errorf("%w: %d", ErrBackupVersion, file.Version)
	}

	notes := make([]*Note, 0, len(file.Notes))
	for i, b := range file.Notes {
		created, err := parseBackupTime(b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: note %d createdAt: %v", ErrImportDecode, i, err)
		}
		updated, err := parseBackupTime(b.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: note %d updatedAt: %v", ErrImportDecode, i, err)
		}
		if b.ID == "" {
			return nil, fmt.Errorf("%w: note %d has no id", ErrImportDecode, i)
		}
		color, _ := ParseColor(b.Color)
		notes = append(notes, &Note{
			ID:        b.ID,
			Title:     b.Title,
			Content:   b.Content,
			Color:     color,
			CreatedAt: created,
			UpdatedAt: updated,
		})
	}
	return notes, nil
}

func parseBackupTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func decodeLegacy(data []byte) ([]*Note, error) {
	var legacy []legacyNote
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportDecode, err)
	}

	notes := make([]*Note, 0, len(legacy))
	for i, l := range legacy {
		if l.ID == "" {
			return nil, fmt.Errorf("%w: note %d has no id", ErrImportDecode, i)
		}
		color, _ := ParseColor(l.Color)
		notes = append(notes, &Note{
			ID:        l.ID,
			Title:     l.Title,
			Content:   l.Content,
			Color:     color,
			CreatedAt: time.UnixMilli(l.CreatedAt).UTC(),
			UpdatedAt: time.UnixMilli(l.UpdatedAt).UTC(),
		})
	}
	return notes, nil
}
