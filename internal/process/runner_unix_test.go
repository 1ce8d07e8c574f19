//go:build !windows

package process

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestExecRunner_Run - Real subprocesses via /bin/sh
// ---------------------------------------------------------------------------

func TestExecRunner_Run(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolving temp dir: %v", err)
	}

	tests := []struct {
		name       string
		runner     *ExecRunner
		cmd        Command
		wantStdout string
		wantStderr string
		wantErr    error
		wantAnyErr bool
	}{
		{
			name:       "captures stdout",
			runner:     NewExecRunner(),
			cmd:        Command{Name: "sh", Args: []string{"-c", "printf hello"}},
			wantStdout: "hello",
		},
		{
			name:       "captures stderr",
			runner:     NewExecRunner(),
			cmd:        Command{Name: "sh", Args: []string{"-c", "printf oops >&2"}},
			wantStderr: "oops",
		},
		{
			name:       "uses working directory",
			runner:     NewExecRunner(),
			cmd:        Command{Name: "sh", Args: []string{"-c", "pwd -P"}, Dir: dir},
			wantStdout: dir,
		},
		{
			name:       "uses environment",
			runner:     NewExecRunner(),
			cmd:        Command{Name: "sh", Args: []string{"-c", "printf %s \"$GREETING\""}, Env: []string{"GREETING=hi"}},
			wantStdout: "hi",
		},
		{
			name:       "nonzero exit is an error",
			runner:     NewExecRunner(),
			cmd:        Command{Name: "sh", Args: []string{"-c", "exit 3"}},
			wantAnyErr: true,
		},
		{
			name:    "output over limit",
			runner:  &ExecRunner{MaxOutput: 4},
			cmd:     Command{Name: "sh", Args: []string{"-c", "printf abcdefgh"}},
			wantErr: ErrOutputTooLarge,
		},
		{
			name:       "missing binary",
			runner:     NewExecRunner(),
			cmd:        Command{Name: "definitely-not-a-real-binary-xyz"},
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, err := tt.runner.Run(context.Background(), tt.cmd)

			if tt.wantErr != nil || tt.wantAnyErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.TrimSpace(stdout) != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout, tt.wantStdout)
			}
			if stderr != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestExecRunner_Run_Canceled(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewExecRunner().Run(ctx, Command{Name: "sleep", Args: []string{"10"}})
	if err == nil {
		t.Fatal("expected error for canceled context, got nil")
	}
}
