package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alnah/go-mdnotes"
	"github.com/alnah/go-mdnotes/internal/fileutil"
)

// backupPermissions keeps backups private: they hold every note.
const backupPermissions = 0o600

func runBackup(ctx context.Context, a *app, args []string) error {
	if err := requireArgs("backup", args, 0); err != nil {
		return err
	}
	return withNotebook(ctx, a, func(nb *mdnotes.Notebook) error {
		var buf bytes.Buffer
		if err := nb.Export(ctx, &buf); err != nil {
			return err
		}

		if a.flags.output == "" || a.flags.output == "-" {
			if _, err := a.env.Stdout.Write(buf.Bytes()); err != nil {
				return fmt.Errorf("%w: %v", ErrWriteOutput, err)
			}
			return nil
		}

		if err := fileutil.WriteFileAtomic(a.flags.output, buf.Bytes(), backupPermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		a.printf("Wrote %s\n", a.flags.output)
		return nil
	})
}

func runImport(ctx context.Context, a *app, args []string) error {
	if err := requireArgs("import", args, 1); err != nil {
		return err
	}
	format, err := mdnotes.ParseImportFormat(a.flags.format)
	if err != nil {
		return err
	}

	var r io.Reader = a.env.Stdin
	if args[0] != "-" {
		file, err := os.Open(args[0]) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		defer func() { _ = file.Close() }()
		r = file
	}

	return withNotebook(ctx, a, func(nb *mdnotes.Notebook) error {
		report, err := nb.Import(ctx, r, format)
		if err != nil {
			return err
		}
		a.printf("Imported %d notes, skipped %d existing\n", report.Imported, report.Skipped)
		return nil
	})
}
