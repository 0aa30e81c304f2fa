package main

import (
	"context"
	"errors"
	"os"

	"github.com/alnah/go-mdnotes"
	"github.com/alnah/go-mdnotes/internal/assets"
	"github.com/alnah/go-mdnotes/internal/config"
	"github.com/alnah/go-mdnotes/internal/dateutil"
	"github.com/alnah/go-mdnotes/internal/editor"
)

// Exit codes for the mdnotes CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Command completed
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, arguments, config, or validation
	ExitIO       = 3 // File not found, permission denied, store unavailable
	ExitBrowser  = 4 // Browser/Chrome errors
	ExitNotFound = 5 // No note matches the reference
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdnotes.ErrBrowserConnect) ||
		errors.Is(err, mdnotes.ErrPageCreate) ||
		errors.Is(err, mdnotes.ErrPageLoad) ||
		errors.Is(err, mdnotes.ErrPDFGeneration) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitBrowser
	}

	// Missing notes (exit 5)
	if errors.Is(err, mdnotes.ErrNoteNotFound) {
		return ExitNotFound
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrOpenStore) ||
		errors.Is(err, editor.ErrNoEditor) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, mdnotes.ErrAmbiguousNote) ||
		errors.Is(err, mdnotes.ErrInvalidColor) ||
		errors.Is(err, mdnotes.ErrInvalidFormat) ||
		errors.Is(err, mdnotes.ErrInvalidPageSize) ||
		errors.Is(err, mdnotes.ErrInvalidOrientation) ||
		errors.Is(err, mdnotes.ErrInvalidMargin) ||
		errors.Is(err, mdnotes.ErrInvalidAssetDir) ||
		errors.Is(err, mdnotes.ErrImportFormat) ||
		errors.Is(err, mdnotes.ErrImportDecode) ||
		errors.Is(err, mdnotes.ErrBackupVersion) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) {
		return ExitUsage
	}

	return ExitGeneral
}
