package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	settings string
	quiet    bool
	verbose  bool
}

// documentFlags locate the note and the files around it.
type documentFlags struct {
	root      string
	assetsDir string
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common     commonFlags
	document   documentFlags
	uploadHost string
	noOpen     bool
	timeout    time.Duration
}

// copyFlags holds all flags for the copy command.
type copyFlags struct {
	common   commonFlags
	document documentFlags
	stdout   bool
	timeout  time.Duration
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.settings, "settings", "s", "", "settings file path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug log")
}

// addDocumentFlags adds document location flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVarP(&f.root, "root", "r", "", "document root for image references (default: nearest vault)")
	fs.StringVar(&f.assetsDir, "assets-dir", "", "directory overriding config.tex, main.tex, final_filter.lua")
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, usage io.Writer) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &exportFlags{}

	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	fs.StringVar(&f.uploadHost, "upload-host", "", "paste host receiving the zip")
	fs.BoolVar(&f.noOpen, "no-open", false, "print the Overleaf link instead of opening it")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "abort after this duration (0 = none)")

	fs.Usage = func() { printExportUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCopyFlags parses copy command flags and returns positional args.
func parseCopyFlags(args []string, usage io.Writer) (*copyFlags, []string, error) {
	fs := flag.NewFlagSet("copy", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &copyFlags{}

	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	fs.BoolVar(&f.stdout, "stdout", false, "print the LaTeX instead of copying it")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "abort after this duration (0 = none)")

	fs.Usage = func() { printCopyUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
