package main

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdnotes <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands() {
		fmt.Fprintf(w, "  %-11s%s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes are referenced by ID, ID prefix (4+ characters) or title.")
	fmt.Fprintln(w, "Run 'mdnotes help <command>' for details on a specific command.")
}

// printCommandUsage prints usage for one command. Flag descriptions come
// from the command's FlagSet.
func printCommandUsage(w io.Writer, cmd command) {
	fmt.Fprintf(w, "Usage: %s\n", strings.TrimSpace("mdnotes "+cmd.name+" "+cmd.args))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s.\n", cmd.summary)
	if extra := commandDetails[cmd.name]; extra != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, extra)
	}

	fs := newFlagSet(cmd, &cliFlags{})
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
}

// commandDetails holds extra help text shown after a command's summary.
var commandDetails = map[string]string{
	"color": "Colors: amber, blue, emerald, violet, rose, yellow, sky, teal\n",
	"export": "Formats: html (default), word, pdf, markdown\n" +
		"Files are named after the note title. PDF export needs Chrome or Chromium.\n",
	"import": "Accepts a YAML backup written by 'mdnotes backup' or the JSON array\n" +
		"exported by the web app. Notes whose ID already exists are skipped.\n",
	"render": "Reads FILE, or stdin when FILE is omitted or '-'.\n",
	"preview": "Routes: / (index), /notes/{id}, POST /api/render, /healthz\n",
}

// runHelp prints help for a specific command.
func runHelp(_ context.Context, a *app, args []string) error {
	if len(args) == 0 {
		printUsage(a.env.Stdout)
		return nil
	}

	cmd, ok := lookupCommand(args[0])
	if !ok {
		printUsage(a.env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	printCommandUsage(a.env.Stdout, cmd)
	return nil
}
