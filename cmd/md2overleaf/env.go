package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"

	md2overleaf "github.com/alnah/go-md2overleaf"
)

// exporter is the part of *md2overleaf.Exporter the commands use.
type exporter interface {
	Export(ctx context.Context, doc md2overleaf.Document) (*md2overleaf.Result, error)
	BuildTeX(ctx context.Context, doc md2overleaf.Document) (string, error)
}

// Compile-time interface implementation check.
var _ exporter = (*md2overleaf.Exporter)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout      io.Writer
	Stderr      io.Writer
	Getenv      func(string) string
	Environ     func() []string
	Clipboard   func(text string) error
	NewExporter func(opts ...md2overleaf.Option) (exporter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Getenv:    os.Getenv,
		Environ:   os.Environ,
		Clipboard: clipboard.WriteAll,
		NewExporter: func(opts ...md2overleaf.Option) (exporter, error) {
			return md2overleaf.NewExporter(opts...)
		},
	}
}

// statusNotifier prints status lines to w unless quiet.
func statusNotifier(w io.Writer, quiet bool) md2overleaf.Notifier {
	return md2overleaf.NotifierFunc(func(msg string) {
		if !quiet {
			fmt.Fprintln(w, msg)
		}
	})
}
