package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdnotes"
	"github.com/alnah/go-mdnotes/internal/assets"
	"github.com/alnah/go-mdnotes/internal/config"
	"github.com/alnah/go-mdnotes/internal/hints"
	"github.com/alnah/go-mdnotes/internal/terminal"
)

// Version is set at build time via ldflags.
var Version = "dev"

// command describes one CLI subcommand.
type command struct {
	name    string
	args    string // argument synopsis for usage lines
	summary string
	flags   func(*flag.FlagSet, *cliFlags)
	run     func(ctx context.Context, a *app, args []string) error
	config  bool // load configuration before running
}

// commands returns the command registry in display order.
func commands() []command {
	return []command{
		{name: "new", args: "[flags]", summary: "Create a note", flags: defineNewFlags, run: runNew, config: true},
		{name: "list", args: "[flags]", summary: "List notes, newest first", flags: defineListFlags, run: runList, config: true},
		{name: "show", args: "<note> [flags]", summary: "Print a note", flags: defineShowFlags, run: runShow, config: true},
		{name: "edit", args: "<note>", summary: "Edit a note in $VISUAL or $EDITOR", flags: defineNoFlags, run: runEdit, config: true},
		{name: "color", args: "<note> <color>", summary: "Change a note's color", flags: defineNoFlags, run: runColor, config: true},
		{name: "search", args: "<query> [flags]", summary: "Find notes containing text", flags: defineListFlags, run: runSearch, config: true},
		{name: "delete", args: "<note> [flags]", summary: "Delete a note", flags: defineDeleteFlags, run: runDelete, config: true},
		{name: "render", args: "[file|-] [flags]", summary: "Render markdown to an HTML fragment", flags: defineRenderFlags, run: runRender},
		{name: "export", args: "<note>... | --all [flags]", summary: "Export notes to HTML, Word, PDF or markdown", flags: defineExportFlags, run: runExport, config: true},
		{name: "backup", args: "[flags]", summary: "Write every note to a YAML backup", flags: defineBackupFlags, run: runBackup, config: true},
		{name: "import", args: "<file|-> [flags]", summary: "Import notes from a backup or the web app", flags: defineImportFlags, run: runImport, config: true},
		{name: "preview", args: "[flags]", summary: "Serve notes in the browser", flags: definePreviewFlags, run: runPreview, config: true},
		{name: "doctor", args: "[flags]", summary: "Check system configuration", flags: defineDoctorFlags, run: runDoctorCmd, config: true},
		{name: "completion", args: "<shell>", summary: "Generate shell completion script", flags: defineNoFlags, run: runCompletion},
		{name: "version", summary: "Show version information", flags: defineNoFlags, run: runVersion},
		{name: "help", args: "[command]", summary: "Show help for a command", flags: defineNoFlags, run: runHelp},
	}
}

// lookupCommand returns the command registered under name.
func lookupCommand(name string) (command, bool) {
	for _, c := range commands() {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// app carries per-invocation state to command handlers.
type app struct {
	env   *Environment
	envCf *envConfig
	cfg   *config.Config
	flags *cliFlags
}

// logf writes diagnostic output when --verbose is set.
func (a *app) logf(format string, args ...any) {
	if a.flags.common.verbose {
		fmt.Fprintf(a.env.Stderr, format+"\n", args...)
	}
}

// printf writes normal output unless --quiet is set.
func (a *app) printf(format string, args ...any) {
	if !a.flags.common.quiet {
		fmt.Fprintf(a.env.Stdout, format, args...)
	}
}

// runMain runs the CLI and returns the process exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := run(ctx, args, env)
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// run dispatches args (program name first) to a command.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) < 2 {
		printUsage(env.Stdout)
		return nil
	}

	name := args[1]
	switch name {
	case "-h", "--help":
		name = "help"
	case "--version":
		name = "version"
	}

	cmd, ok := lookupCommand(name)
	if !ok {
		return fmt.Errorf("%w: %s (run 'mdnotes help' for a list)", ErrUnknownCommand, name)
	}

	f := &cliFlags{}
	fs := newFlagSet(cmd, f)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printCommandUsage(env.Stdout, cmd)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.common.quiet && f.common.verbose {
		return fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}

	a := &app{env: env, envCf: loadEnvConfig(env.Getenv), flags: f}
	if cmd.config {
		cfg, err := loadConfig(f.common.config, a.envCf)
		if err != nil {
			return err
		}
		a.cfg = cfg
		if f.common.verbose {
			warnUnknownEnvVars(env.Stderr, env.Environ())
		}
	}

	return cmd.run(ctx, a, fs.Args())
}

// loadConfig loads the named config, then MDNOTES_CONFIG, then the defaults,
// and fills gaps from the environment.
func loadConfig(name string, envCf *envConfig) (*config.Config, error) {
	if name == "" {
		name = envCf.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, err
		}
	}

	applyEnvConfig(envCf, cfg)
	return cfg, nil
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdnotes.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, mdnotes.ErrNoteNotFound):
		return hints.ForNoteNotFound(nil)
	}
	return ""
}

// openNotebook opens the configured notebook and assigns colors to notes
// stored without one.
func (a *app) openNotebook(ctx context.Context) (*mdnotes.Notebook, error) {
	nb, err := a.env.OpenNotebook(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	n, err := nb.EnsureColors(ctx)
	if err != nil {
		_ = nb.Close()
		return nil, err
	}
	if n > 0 {
		a.logf("Assigned colors to %d notes", n)
	}
	return nb, nil
}

// findNote resolves ref, suggesting candidates when it is ambiguous.
func findNote(ctx context.Context, nb *mdnotes.Notebook, ref string) (*mdnotes.Note, error) {
	return resolveNote(ctx, nb, ref, nb.Find)
}

// findNoteExact is findNote without fuzzy title matching, for commands that
// destroy data.
func findNoteExact(ctx context.Context, nb *mdnotes.Notebook, ref string) (*mdnotes.Note, error) {
	return resolveNote(ctx, nb, ref, nb.FindExact)
}

func resolveNote(ctx context.Context, nb *mdnotes.Notebook, ref string,
	find func(context.Context, string) (*mdnotes.Note, error),
) (*mdnotes.Note, error) {
	ref = strings.TrimSpace(ref)
	n, err := find(ctx, ref)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, mdnotes.ErrAmbiguousNote) {
		return nil, err
	}

	notes, listErr := nb.List(ctx)
	if listErr != nil {
		return nil, err
	}
	var candidates []string
	for _, n := range notes {
		if strings.HasPrefix(n.ID, ref) {
			candidates = append(candidates, terminal.ShortID(n.ID)+" "+n.Title)
		}
	}
	return nil, fmt.Errorf("%w%s", err, hints.ForNoteNotFound(candidates))
}

// requireArgs checks the positional argument count.
func requireArgs(cmd string, args []string, n int) error {
	if len(args) != n {
		c, _ := lookupCommand(cmd)
		return fmt.Errorf("%w: usage: mdnotes %s %s", ErrUsage, cmd, c.args)
	}
	return nil
}

func runVersion(_ context.Context, a *app, _ []string) error {
	fmt.Fprintf(a.env.Stdout, "mdnotes %s\n", Version)
	return nil
}
