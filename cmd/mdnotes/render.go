package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-mdnotes"
	"github.com/alnah/go-mdnotes/internal/pipeline"
)

// runRender renders markdown from a file or stdin to stdout.
func runRender(_ context.Context, a *app, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: usage: mdnotes render [file|-] [flags]", ErrUsage)
	}
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	source, err := readSource(a.env, path)
	if err != nil {
		return err
	}

	out := mdnotes.Render(source)
	if a.flags.safe {
		out = pipeline.NewSanitizer().Sanitize(out)
	}
	if _, err := fmt.Fprintln(a.env.Stdout, out); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
