package md2overleaf

import (
	"net/http"
)

// Option configures an Exporter.
type Option func(*Exporter)

// WithRunner sets the runner for pandoc and npx. Used by tests and by
// callers wrapping tools in containers.
func WithRunner(r Runner) Option {
	return func(e *Exporter) {
		e.runner = r
	}
}

// WithAssetsDir sets a directory whose config.tex, main.tex and
// final_filter.lua override the built-in ones file by file.
func WithAssetsDir(dir string) Option {
	return func(e *Exporter) {
		e.assetsDir = dir
	}
}

// WithSearchPath sets the PATH handed to external tools. An empty path
// keeps the inherited PATH.
func WithSearchPath(path string) Option {
	return func(e *Exporter) {
		e.searchPath = path
	}
}

// WithSettings sets the upload host and auto-open preference.
func WithSettings(s Settings) Option {
	return func(e *Exporter) {
		e.settings = s
	}
}

// WithNotifier sets the receiver of status lines.
func WithNotifier(n Notifier) Option {
	return func(e *Exporter) {
		e.notifier = n
	}
}

// WithBrowser sets how the Overleaf link is opened.
func WithBrowser(b Browser) Option {
	return func(e *Exporter) {
		e.browser = b
	}
}

// WithHTTPClient sets the client used for the upload.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Exporter) {
		e.httpClient = c
	}
}

// WithConverter replaces pandoc. The converter must write
// req.OutputPath.
func WithConverter(c Converter) Option {
	return func(e *Exporter) {
		e.converter = c
	}
}
