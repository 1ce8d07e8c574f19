package md2overleaf

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

// SystemBrowser opens URLs with the desktop's default handler, falling back
// to a locally installed Chromium-based browser.
type SystemBrowser struct {
	runner Runner
}

// NewSystemBrowser creates a SystemBrowser that launches the platform
// opener through runner.
func NewSystemBrowser(runner Runner) *SystemBrowser {
	return &SystemBrowser{runner: runner}
}

// Open hands url to xdg-open, open or the Windows URL handler. When that
// fails and a Chrome or Chromium binary is installed, the URL is opened
// there instead.
func (b *SystemBrowser) Open(ctx context.Context, url string) error {
	_, stderr, err := b.runner.Run(ctx, openCommand(runtime.GOOS, url))
	if err == nil {
		return nil
	}
	if _, found := launcher.LookPath(); found {
		launcher.Open(url)
		return nil
	}
	if stderr = strings.TrimSpace(stderr); stderr != "" {
		return fmt.Errorf("%w: %v: %s", ErrOpenBrowser, err, stderr)
	}
	return fmt.Errorf("%w: %v", ErrOpenBrowser, err)
}

func openCommand(goos, url string) Command {
	switch goos {
	case "darwin":
		return Command{Name: "open", Args: []string{url}}
	case "windows":
		return Command{Name: "rundll32", Args: []string{"url.dll,FileProtocolHandler", url}}
	default:
		return Command{Name: "xdg-open", Args: []string{url}}
	}
}

// Compile-time interface check.
var _ Browser = (*SystemBrowser)(nil)
