package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdnotes/internal/fileutil"
)

// ErrNotReady is returned by doctor when a check fails.
var ErrNotReady = errors.New("environment not ready")

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// ciVars are set by the CI systems doctor recognizes.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// doctorResult is the report printed by doctor, as text or JSON.
type doctorResult struct {
	Status   string     `json:"status"`
	Store    storeInfo  `json:"store"`
	Editor   string     `json:"editor,omitempty"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

type storeInfo struct {
	Driver string `json:"driver"`
	Path   string `json:"path,omitempty"`
	OK     bool   `json:"ok"`
	Notes  int    `json:"notes"`
}

type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable   bool   `json:"temp_writable"`
	ExportDir      string `json:"export_dir,omitempty"`
	ExportDirReady bool   `json:"export_dir_ready,omitempty"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// runDoctorCmd executes the doctor command.
// Warnings do not fail the command; errors return ErrNotReady.
func runDoctorCmd(ctx context.Context, a *app, args []string) error {
	if err := requireArgs("doctor", args, 0); err != nil {
		return err
	}

	result := runDoctor(ctx, a)

	if a.flags.json {
		enc := json.NewEncoder(a.env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	} else {
		printDoctorResult(a.env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ErrNotReady
	}
	return nil
}

func runDoctor(ctx context.Context, a *app) *doctorResult {
	result := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  a.env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: a.env.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkStore(ctx, a, result)
	checkEditor(a, result)
	checkChrome(result)
	checkEnvironment(a.env.Getenv, result)
	checkSystem(a, result)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

// checkStore opens the configured store and counts its notes.
func checkStore(ctx context.Context, a *app, result *doctorResult) {
	result.Store.Driver = a.cfg.Store.Driver
	if a.cfg.Store.Driver != "memory" {
		if path, err := a.cfg.StorePath(); err == nil {
			result.Store.Path = path
		}
	}

	nb, err := a.env.OpenNotebook(ctx, a.cfg)
	if err != nil {
		result.fail("Note store unavailable: %v", err)
		return
	}
	defer func() { _ = nb.Close() }()

	notes, err := nb.List(ctx)
	if err != nil {
		result.fail("Note store unreadable: %v", err)
		return
	}
	result.Store.OK = true
	result.Store.Notes = len(notes)
}

func checkEditor(a *app, result *doctorResult) {
	cmd, err := a.env.Editor.Command()
	if err != nil {
		result.warn("No editor found. Set $EDITOR to use 'mdnotes edit'")
		return
	}
	result.Editor = cmd
}

// checkChrome locates the browser used for PDF export. Every other format
// works without it, so problems are warnings.
func checkChrome(result *doctorResult) {
	path := result.Env.BrowserBin
	if path == "" {
		var ok bool
		if path, ok = launcher.LookPath(); !ok {
			result.warn("Chrome/Chromium not found. PDF export needs Chrome or ROD_BROWSER_BIN")
			return
		}
	}
	if !fileutil.FileExists(path) {
		result.warn("ROD_BROWSER_BIN points to a missing file: %s", path)
		return
	}

	result.Chrome = chromeInfo{
		Found:   true,
		Path:    path,
		Sandbox: result.Env.NoSandbox != "1",
	}
	version, err := browserVersion(path)
	if err != nil {
		result.warn("Could not get Chrome version: %v", err)
		return
	}
	result.Chrome.Version = version
}

func browserVersion(path string) (string, error) {
	// #nosec G204 -- path comes from ROD_BROWSER_BIN or the launcher lookup
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// checkEnvironment detects containers and CI, where Chrome usually needs
// its sandbox disabled.
func checkEnvironment(getenv func(string) string, result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)
	for _, v := range ciVars {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	sandboxed := result.Env.NoSandbox != "1"
	if sandboxed && (result.Env.Container || result.Env.CI) {
		result.warn("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for PDF export")
	}
}

// isContainer reports whether we run in a container, and which signal said so.
func isContainer(getenv func(string) string) (bool, string) {
	switch {
	case getenv("MDNOTES_CONTAINER") == "1":
		return true, "MDNOTES_CONTAINER=1"
	case fileutil.FileExists("/.dockerenv"):
		return true, "/.dockerenv"
	case getenv("container") != "":
		return true, "container=" + getenv("container")
	case getenv("KUBERNETES_SERVICE_HOST") != "":
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used by the editor and, when
// configured, the default export directory.
func checkSystem(a *app, result *doctorResult) {
	if _, cleanup, err := fileutil.WriteTempFile("ok", "txt"); err != nil {
		result.fail("Temp directory not writable: %s", os.TempDir())
	} else {
		cleanup()
		result.System.TempWritable = true
	}

	dir := a.cfg.Export.DefaultDir
	if dir == "" {
		return
	}
	result.System.ExportDir = dir
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		result.warn("Export directory %s does not exist yet; export will create it", dir)
		return
	}
	result.System.ExportDirReady = true
}

// reportLine is one [OK]/[WARN]/[ERROR] entry of the text report.
type reportLine struct {
	level string
	text  string
}

type reportSection struct {
	title string
	lines []reportLine
}

func okLine(format string, args ...any) reportLine {
	return reportLine{"OK", fmt.Sprintf(format, args...)}
}

func warnLine(text string) reportLine  { return reportLine{"WARN", text} }
func errorLine(text string) reportLine { return reportLine{"ERROR", text} }

func (r *doctorResult) sections() []reportSection {
	notes := reportSection{title: "Notes"}
	if r.Store.OK {
		notes.lines = append(notes.lines,
			okLine("Store: %s %s", r.Store.Driver, r.Store.Path),
			okLine("Notes: %d", r.Store.Notes))
	} else {
		notes.lines = append(notes.lines, errorLine("Store: unavailable"))
	}
	if r.Editor != "" {
		notes.lines = append(notes.lines, okLine("Editor: %s", r.Editor))
	} else {
		notes.lines = append(notes.lines, warnLine("Editor: not found"))
	}

	chrome := reportSection{title: "Chrome/Chromium"}
	if r.Chrome.Found {
		chrome.lines = append(chrome.lines, okLine("Found at %s", r.Chrome.Path))
		if r.Chrome.Version != "" {
			chrome.lines = append(chrome.lines, okLine("Version: %s", r.Chrome.Version))
		}
		sandbox := "enabled"
		if !r.Chrome.Sandbox {
			sandbox = "disabled (ROD_NO_SANDBOX=1)"
		}
		chrome.lines = append(chrome.lines, okLine("Sandbox: %s", sandbox))
	} else {
		chrome.lines = append(chrome.lines, warnLine("Not found (PDF export unavailable)"))
	}

	env := reportSection{title: "Environment", lines: []reportLine{okLine("Platform: %s/%s", r.Env.OS, r.Env.Arch)}}
	if r.Env.Container {
		env.lines = append(env.lines, okLine("Container: detected (%s)", r.Env.ContainerHint))
	}
	if r.Env.CI {
		env.lines = append(env.lines, okLine("CI: detected"))
	}

	system := reportSection{title: "System"}
	if r.System.TempWritable {
		system.lines = append(system.lines, okLine("Temp directory: writable"))
	} else {
		system.lines = append(system.lines, errorLine("Temp directory: not writable"))
	}
	if r.System.ExportDir != "" {
		if r.System.ExportDirReady {
			system.lines = append(system.lines, okLine("Export directory: %s", r.System.ExportDir))
		} else {
			system.lines = append(system.lines, warnLine("Export directory: "+r.System.ExportDir+" (missing)"))
		}
	}

	return []reportSection{notes, chrome, env, system}
}

var statusMessages = map[string]string{
	statusReady:    "Ready",
	statusWarnings: "Ready with warnings",
	statusErrors:   "Not ready (see errors above)",
}

// printDoctorResult writes the human-readable report.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintf(w, "mdnotes doctor\n\n")

	for _, s := range r.sections() {
		fmt.Fprintln(w, s.title)
		for _, l := range s.lines {
			fmt.Fprintf(w, "  [%s] %s\n", l.level, l.text)
		}
		fmt.Fprintln(w)
	}

	printFindings(w, "Warnings:", "WARN", r.Warnings)
	printFindings(w, "Errors:", "ERROR", r.Errors)

	fmt.Fprintf(w, "Status: %s\n", statusMessages[r.Status])
}

func printFindings(w io.Writer, heading, level string, findings []string) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintln(w, heading)
	for _, f := range findings {
		fmt.Fprintf(w, "  [%s] %s\n", level, f)
	}
	fmt.Fprintln(w)
}
