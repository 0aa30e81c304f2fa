package main

// Notes:
// - Help output is checked for content, not exact layout.

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintUsage_ListsEveryCommand(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)

	out := buf.String()
	for _, c := range commands() {
		if !strings.Contains(out, "  "+c.name) {
			t.Errorf("usage missing command %q", c.name)
		}
	}
	assertContains(t, "usage", out, "ID prefix", "mdnotes help <command>")
}

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout []string
		wantStderr []string
	}{
		{
			name:       "no topic",
			args:       []string{"help"},
			wantCode:   ExitSuccess,
			wantStdout: []string{"Usage: mdnotes <command>", "Commands:"},
		},
		{
			name:     "export",
			args:     []string{"help", "export"},
			wantCode: ExitSuccess,
			wantStdout: []string{
				"Usage: mdnotes export <note>... | --all [flags]",
				"Formats: html (default), word, pdf, markdown",
				"--format", "--page-size", "--workers", "--config",
			},
		},
		{
			name:       "color lists palette",
			args:       []string{"help", "color"},
			wantCode:   ExitSuccess,
			wantStdout: []string{"Colors: amber, blue"},
		},
		{
			name:       "command without flags",
			args:       []string{"help", "version"},
			wantCode:   ExitSuccess,
			wantStdout: []string{"Usage: mdnotes version", "Flags:"},
		},
		{
			name:       "unknown topic",
			args:       []string{"help", "exprot"},
			wantCode:   ExitUsage,
			wantStderr: []string{"Commands:", "unknown command"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			if code := te.run(tt.args...); code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, te.stderr)
			}
			assertContains(t, "stdout", te.stdout.String(), tt.wantStdout...)
			assertContains(t, "stderr", te.stderr.String(), tt.wantStderr...)
		})
	}
}
