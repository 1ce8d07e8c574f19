// Package process runs external tools with an explicit working directory,
// environment, and a bounded output buffer.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrOutputTooLarge is returned when a command writes more than the runner's
// output limit to stdout or stderr.
var ErrOutputTooLarge = errors.New("command output exceeds buffer limit")

// DefaultMaxOutput caps captured stdout and stderr per stream.
const DefaultMaxOutput = 64 << 20

// waitDelay bounds how long Run waits for output pipes after the process is
// killed on cancellation.
const waitDelay = 5 * time.Second

// Command describes one subprocess invocation.
type Command struct {
	Name string
	Args []string
	Dir  string   // working directory; empty = current
	Env  []string // nil = inherit the process environment
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner abstracts command execution to enable testing without real subprocesses.
type Runner interface {
	Run(ctx context.Context, cmd Command) (stdout string, stderr string, err error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	MaxOutput int // per stream; 0 = DefaultMaxOutput
}

// NewExecRunner creates an ExecRunner with the default output limit.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{MaxOutput: DefaultMaxOutput}
}

// Run executes the command and waits for it to finish. Canceling ctx kills
// the whole process group.
func (r *ExecRunner) Run(ctx context.Context, c Command) (string, string, error) {
	limit := r.MaxOutput
	if limit <= 0 {
		limit = DefaultMaxOutput
	}

	name := c.Name
	if searchPath, ok := lookupEnv(c.Env, "PATH"); ok {
		if resolved, err := LookPath(name, searchPath); err == nil {
			name = resolved
		}
	}

	cmd := exec.CommandContext(ctx, name, c.Args...) // #nosec G204 -- tool names are fixed by callers
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = waitDelay

	stdout := &boundedBuffer{limit: limit}
	stderr := &boundedBuffer{limit: limit}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if stdout.overflow || stderr.overflow {
		return stdout.String(), stderr.String(), fmt.Errorf("%w: %s (limit %d bytes)", ErrOutputTooLarge, c.Name, limit)
	}
	if err != nil {
		return stdout.String(), stderr.String(), fmt.Errorf("running %s: %w", c.Name, err)
	}
	return stdout.String(), stderr.String(), nil
}

// boundedBuffer keeps at most limit bytes and fails the write that crosses
// it, which makes exec close the pipe and the child exit on EPIPE.
type boundedBuffer struct {
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	room := b.limit - b.buf.Len()
	if len(p) > room {
		if room > 0 {
			b.buf.Write(p[:room])
		}
		b.overflow = true
		return max(room, 0), ErrOutputTooLarge
	}
	return b.buf.Write(p)
}

func (b *boundedBuffer) String() string {
	return b.buf.String()
}

// Compile-time interface check.
var _ Runner = (*ExecRunner)(nil)
