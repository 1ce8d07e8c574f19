// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2overleaf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// isHeadless reports CI or container environments where no desktop browser exists.
func isHeadless() bool {
	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
	return inCI || IsInContainer()
}

// ForMissingTool returns install hints for an external program not found on PATH.
func ForMissingTool(name string) string {
	var hints []string

	switch name {
	case "pandoc":
		hints = append(hints, "install pandoc from https://pandoc.org/installing.html")
	case "npx":
		hints = append(hints, "install Node.js (provides npx) to export tldraw diagrams")
	}

	// Desktop launchers often start with a minimal PATH.
	if os.Getenv("MD2OVERLEAF_PATH") == "" {
		hints = append(hints, "set MD2OVERLEAF_PATH if "+name+" lives outside the default search path")
	}

	return formatHints(hints)
}

// ForOpenBrowser returns hints when the deep link cannot be opened.
func ForOpenBrowser() string {
	if isHeadless() {
		return format("no desktop browser in CI/Docker; use --no-open and copy the printed link")
	}
	return format("use --no-open and open the printed link manually")
}

// ForUpload returns hints for upload failures.
func ForUpload(host string) string {
	return format("check connectivity to " + host + " or change it with `md2overleaf settings set upload-host <url>`")
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("the first tldraw export downloads @tldraw/cli; use --timeout flag")
}

// ForSettingsParse returns hints for a corrupt settings file.
func ForSettingsParse(path string) string {
	return format("fix or delete " + path + ", or run `md2overleaf settings reset`")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
