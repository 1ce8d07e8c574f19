package hints

// Notes:
// - ForMissingTool and ForOpenBrowser tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable

import (
	"strings"
	"testing"
)

func TestForMissingTool_Pandoc(t *testing.T) {
	t.Setenv("MD2OVERLEAF_PATH", "")

	hint := ForMissingTool("pandoc")

	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("expected hint prefix, got %q", hint)
	}
	if !strings.Contains(hint, "pandoc.org") {
		t.Error("expected pandoc install URL")
	}
	if !strings.Contains(hint, "MD2OVERLEAF_PATH") {
		t.Error("expected MD2OVERLEAF_PATH suggestion")
	}
}

func TestForMissingTool_Npx(t *testing.T) {
	t.Setenv("MD2OVERLEAF_PATH", "/opt/node/bin")

	hint := ForMissingTool("npx")

	if !strings.Contains(hint, "Node.js") {
		t.Error("expected Node.js suggestion")
	}
	if strings.Contains(hint, "MD2OVERLEAF_PATH") {
		t.Error("should not suggest MD2OVERLEAF_PATH when already set")
	}
}

func TestForMissingTool_UnknownWithPathSet(t *testing.T) {
	t.Setenv("MD2OVERLEAF_PATH", "/usr/bin")

	if hint := ForMissingTool("latexmk"); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
}

func TestForOpenBrowser_InDocker(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("JENKINS_URL", "")

	hint := ForOpenBrowser()

	if !strings.Contains(hint, "CI/Docker") {
		t.Errorf("expected headless hint, got %q", hint)
	}
}

func TestForOpenBrowser_Desktop(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("JENKINS_URL", "")

	hint := ForOpenBrowser()

	if strings.Contains(hint, "CI/Docker") {
		t.Error("should not mention CI/Docker on a desktop")
	}
	if !strings.Contains(hint, "--no-open") {
		t.Error("expected --no-open suggestion")
	}
}

func TestForUpload(t *testing.T) {
	t.Parallel()

	hint := ForUpload("https://x0.at")

	if !strings.Contains(hint, "https://x0.at") {
		t.Error("expected host in hint")
	}
	if !strings.Contains(hint, "settings set upload-host") {
		t.Error("expected settings command in hint")
	}
}

func TestForTimeout(t *testing.T) {
	t.Parallel()

	hint := ForTimeout()

	if !strings.Contains(hint, "hint:") {
		t.Error("expected hint prefix")
	}
	if !strings.Contains(hint, "--timeout") {
		t.Error("expected --timeout flag mention")
	}
}

func TestForSettingsParse(t *testing.T) {
	t.Parallel()

	hint := ForSettingsParse("/home/u/.config/go-md2overleaf/settings.yaml")

	if !strings.Contains(hint, "settings reset") {
		t.Error("expected reset suggestion")
	}
}

func TestForOutputDirectory(t *testing.T) {
	t.Parallel()

	if !strings.Contains(ForOutputDirectory(), "writable") {
		t.Error("expected writable mention")
	}
}

func TestFormatHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		hints []string
		want  string
	}{
		{name: "empty", hints: nil, want: ""},
		{name: "single", hints: []string{"a"}, want: "\n  hint: a"},
		{name: "joined", hints: []string{"a", "b"}, want: "\n  hint: a; b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatHints(tt.hints); got != tt.want {
				t.Errorf("formatHints() = %q, want %q", got, tt.want)
			}
		})
	}
}
