package main

import (
	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds PDF page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// assetFlags holds stylesheet and asset directory flags.
type assetFlags struct {
	style     string // name, CSS file path, or raw CSS
	assetPath string // override asset directory
}

// exportFlags holds flags for the export command.
type exportFlags struct {
	all     bool
	workers int
	timeout string
	baseDir string
	page    pageFlags
	assets  assetFlags
}

// cliFlags holds every flag a command can define. Each command registers the
// subset it uses.
type cliFlags struct {
	common  commonFlags
	json    bool
	content string
	file    string
	raw     bool
	html    bool
	force   bool
	safe    bool
	output  string
	format  string
	addr    string
	export  exportFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed output")
}

// addPageFlags adds PDF page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in millimeters (5-50)")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

func defineNoFlags(*flag.FlagSet, *cliFlags) {}

func defineNewFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.StringVarP(&f.content, "content", "m", "", "note content")
	fs.StringVarP(&f.file, "file", "f", "", "read content from file (- for stdin)")
}

func defineListFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.BoolVar(&f.json, "json", false, "output JSON")
}

func defineShowFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.BoolVar(&f.raw, "raw", false, "print markdown source")
	fs.BoolVar(&f.html, "html", false, "print rendered HTML fragment")
}

func defineDeleteFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.BoolVar(&f.force, "force", false, "do not ask for confirmation")
}

func defineRenderFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.BoolVar(&f.safe, "safe", false, "sanitize the rendered HTML")
}

func defineExportFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.BoolVar(&f.export.all, "all", false, "export every note")
	fs.StringVarP(&f.format, "format", "f", "", "format: html, word, pdf, markdown")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.export.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.export.timeout, "timeout", "t", "", "PDF timeout per note (e.g., 30s, 2m)")
	fs.StringVar(&f.export.baseDir, "base-dir", ".", "directory relative image paths resolve against (PDF)")
	addPageFlags(fs, &f.export.page)
	addAssetFlags(fs, &f.export.assets)
}

func defineBackupFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "backup file (default: stdout)")
}

func defineImportFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.StringVar(&f.format, "format", "", "input format: yaml, json (default: detect)")
}

func definePreviewFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.StringVar(&f.addr, "addr", "", "listen address (default from config)")
	addAssetFlags(fs, &f.export.assets)
}

func defineDoctorFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.BoolVar(&f.json, "json", false, "output JSON")
}

// newFlagSet builds the FlagSet of cmd with common flags included.
func newFlagSet(cmd command, f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	cmd.flags(fs, f)
	return fs
}
