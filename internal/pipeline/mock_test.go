package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/alnah/go-md2overleaf/internal/assets"
	"github.com/alnah/go-md2overleaf/internal/process"
)

// mockRunner records commands and delegates to an optional handler.
type mockRunner struct {
	mu      sync.Mutex
	calls   []process.Command
	handler func(cmd process.Command) (string, string, error)
}

func (m *mockRunner) Run(_ context.Context, cmd process.Command) (string, string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, cmd)
	m.mu.Unlock()
	if m.handler == nil {
		return "", "", nil
	}
	return m.handler(cmd)
}

func (m *mockRunner) Calls() []process.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]process.Command(nil), m.calls...)
}

// mockDiagrams returns a fixed outcome per note path and counts calls.
type mockDiagrams struct {
	mu      sync.Mutex
	results map[string]string // abs md path -> png rel; absent = miss
	calls   []string
}

func (m *mockDiagrams) ExportDiagram(_ context.Context, mdPath string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, mdPath)
	png, ok := m.results[mdPath]
	return png, ok
}

// mapLoader serves templates from memory.
type mapLoader struct {
	files map[string]string
	err   error // returned for every Load when set
}

func (m *mapLoader) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	content, ok := m.files[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", assets.ErrTemplateNotFound, name)
	}
	return content, nil
}

func envValue(env []string, key string) (string, bool) {
	prefix := key + "="
	var (
		value string
		found bool
	)
	for _, kv := range env {
		if len(kv) >= len(prefix) && kv[:len(prefix)] == prefix {
			value, found = kv[len(prefix):], true
		}
	}
	return value, found
}
