package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	md2overleaf "github.com/alnah/go-md2overleaf"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake exporter and environment
// ---------------------------------------------------------------------------

type fakeExporter struct {
	result *md2overleaf.Result
	text   string
	err    error
	docs   []md2overleaf.Document
}

func (f *fakeExporter) Export(_ context.Context, doc md2overleaf.Document) (*md2overleaf.Result, error) {
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeExporter) BuildTeX(_ context.Context, doc md2overleaf.Document) (string, error) {
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type testEnv struct {
	*Environment
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	vars      map[string]string
	clipboard []string
	exporter  *fakeExporter
}

// newTestEnv returns an environment whose settings file lives in a temp dir.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		vars:     map[string]string{"MD2OVERLEAF_SETTINGS": filepath.Join(t.TempDir(), "settings.yaml")},
		exporter: &fakeExporter{},
	}
	te.Environment = &Environment{
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return te.vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		Clipboard: func(text string) error {
			te.clipboard = append(te.clipboard, text)
			return nil
		},
		NewExporter: func(...md2overleaf.Option) (exporter, error) {
			return te.exporter, nil
		},
	}
	return te
}

func (te *testEnv) settingsPath() string {
	return te.vars["MD2OVERLEAF_SETTINGS"]
}

func writeSettings(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func assertErrorIs(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}
