package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestValidateAssetName
// ---------------------------------------------------------------------------

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "template with extension", input: "main.tex"},
		{name: "filter", input: "final_filter.lua"},
		{name: "empty", input: "", wantErr: true},
		{name: "traversal with slash", input: "../secret", wantErr: true},
		{name: "traversal with backslash", input: "..\\secret", wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
		{name: "hidden file", input: ".env", wantErr: true},
		{name: "absolute path", input: "/etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEmbeddedLoader_Load
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_Load(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		contains string
		wantErr  error
	}{
		{name: "main wrapper", file: MainTemplate, contains: `\include{`},
		{name: "main has title", file: MainTemplate, contains: `\title{`},
		{name: "config preamble", file: ConfigTemplate, contains: `\usepackage{float}`},
		{name: "lua filter", file: LuaFilter, contains: "function"},
		{name: "unknown file", file: "other.tex", wantErr: ErrTemplateNotFound},
		{name: "invalid name", file: "../main.tex", wantErr: ErrInvalidAssetName},
	}

	loader := NewEmbeddedLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.Load(tt.file)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Load(%q) error = %v, want %v", tt.file, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load(%q) unexpected error: %v", tt.file, err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("Load(%q) missing %q", tt.file, tt.contains)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewFilesystemLoader
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader(t.TempDir()); err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(filePath, []byte("test"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := NewFilesystemLoader(filePath)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader_Load
// ---------------------------------------------------------------------------

func TestFilesystemLoader_Load(t *testing.T) {
	t.Parallel()

	t.Run("loads existing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		want := `\documentclass{report}`
		if err := os.WriteFile(filepath.Join(dir, MainTemplate), []byte(want), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		got, err := loader.Load(MainTemplate)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got != want {
			t.Errorf("Load() = %q, want %q", got, want)
		}
	})

	t.Run("missing file returns ErrTemplateNotFound", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		_, err = loader.Load(ConfigTemplate)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("Load() error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("symlink escaping base returns ErrPathTraversal", func(t *testing.T) {
		t.Parallel()

		outside := filepath.Join(t.TempDir(), "secret.tex")
		if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		dir := t.TempDir()
		if err := os.Symlink(outside, filepath.Join(dir, MainTemplate)); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		_, err = loader.Load(MainTemplate)
		if !errors.Is(err, ErrPathTraversal) {
			t.Errorf("Load() error = %v, want ErrPathTraversal", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestAssetResolver - Custom-first fallback
// ---------------------------------------------------------------------------

func TestAssetResolver_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	custom := `\documentclass{memoir}`
	if err := os.WriteFile(filepath.Join(dir, MainTemplate), []byte(custom), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	resolver, err := NewAssetResolver(dir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}
	if !resolver.HasCustomLoader() {
		t.Fatal("expected custom loader")
	}

	t.Run("custom file wins", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.Load(MainTemplate)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got != custom {
			t.Errorf("Load() = %q, want custom content", got)
		}
	})

	t.Run("falls back to embedded", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.Load(ConfigTemplate)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !strings.Contains(got, `\usepackage{float}`) {
			t.Error("expected embedded config.tex content")
		}
	})

	t.Run("validation errors do not fall back", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.Load("../main.tex")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("Load() error = %v, want ErrInvalidAssetName", err)
		}
	})
}

func TestNewAssetResolver_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := NewAssetResolver("/nonexistent/path/abc123xyz")
	if !errors.Is(err, ErrInvalidBasePath) {
		t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
	}
}

func TestAssetResolver_Materialize(t *testing.T) {
	t.Parallel()

	t.Run("embedded filter is written to dir", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		workDir := filepath.Join(t.TempDir(), "work")

		path, err := resolver.Materialize(LuaFilter, workDir)
		if err != nil {
			t.Fatalf("Materialize() error = %v", err)
		}
		if path != filepath.Join(workDir, LuaFilter) {
			t.Errorf("Materialize() = %q, want file in work dir", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading materialized file: %v", err)
		}
		if !strings.Contains(string(data), "function") {
			t.Error("materialized filter is empty")
		}
	})

	t.Run("custom filter is used in place", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, LuaFilter), []byte("return {}"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		resolver, err := NewAssetResolver(dir)
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		workDir := t.TempDir()

		path, err := resolver.Materialize(LuaFilter, workDir)
		if err != nil {
			t.Fatalf("Materialize() error = %v", err)
		}
		if filepath.Dir(path) == workDir {
			t.Errorf("Materialize() = %q, want path inside assets dir", path)
		}
		if _, err := os.Stat(filepath.Join(workDir, LuaFilter)); !errors.Is(err, os.ErrNotExist) {
			t.Error("custom filter should not be copied to work dir")
		}
	})
}
