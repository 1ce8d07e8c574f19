package md2overleaf

import (
	"context"

	"github.com/alnah/go-md2overleaf/internal/config"
	"github.com/alnah/go-md2overleaf/internal/pipeline"
	"github.com/alnah/go-md2overleaf/internal/process"
)

// Document identifies the note to export.
type Document struct {
	Path string // Markdown note
	Root string // tree image references resolve against; "" = discovered
}

// Result describes a finished export.
type Result struct {
	ArchiveURL string // where the paste host stored the zip
	DeepLink   string // Overleaf import URL
	Opened     bool   // DeepLink was handed to a browser
}

// Notifier receives short user-facing status lines.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// Notify calls f(msg).
func (f NotifierFunc) Notify(msg string) { f(msg) }

// Browser opens URLs for the user.
type Browser interface {
	Open(ctx context.Context, url string) error
}

// BrowserFunc adapts a function to Browser.
type BrowserFunc func(ctx context.Context, url string) error

// Open calls f(ctx, url).
func (f BrowserFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

// Aliases exposing the collaborator types accepted by options.
type (
	// Runner executes external tools.
	Runner = process.Runner
	// Command describes one external tool invocation.
	Command = process.Command
	// Converter produces LaTeX from a note.
	Converter = pipeline.Converter
	// ConvertRequest describes one conversion.
	ConvertRequest = pipeline.ConvertRequest
	// Settings holds the upload host and auto-open preference.
	Settings = config.Settings
)

// DefaultSearchPath is the PATH handed to pandoc and npx.
const DefaultSearchPath = process.DefaultSearchPath

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return *config.DefaultSettings()
}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}
