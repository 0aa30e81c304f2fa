package mdnotes

import (
	"errors"

	"github.com/alnah/go-mdnotes/internal/store"
)

// Sentinel errors for library operations.
var (
	// ErrNoteNotFound matches store misses, so callers can test either sentinel.
	ErrNoteNotFound = store.ErrNotFound
	ErrInvalidColor = errors.New("invalid note color")

	// Export errors.
	ErrInvalidFormat   = errors.New("invalid export format")
	ErrHTMLBuild       = errors.New("HTML document build failed")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrExporterClosed  = errors.New("exporter is closed")
	ErrPoolClosed      = errors.New("exporter pool is closed")
	ErrInvalidAssetDir = errors.New("invalid asset path")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Backup errors.
	ErrImportFormat  = errors.New("unsupported import format")
	ErrImportDecode  = errors.New("failed to decode import")
	ErrBackupVersion = errors.New("unsupported backup version")
)
