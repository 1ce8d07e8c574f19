package pipeline

import "testing"

// ---------------------------------------------------------------------------
// TestSanitize - Heading isolation
// ---------------------------------------------------------------------------

func TestSanitize_Headings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "heading on first line gets no leading blank", input: "# Title\ntext", want: "# Title\n\ntext"},
		{name: "blank inserted before heading", input: "text\n## Section", want: "text\n\n## Section"},
		{name: "already separated is unchanged", input: "a\n\n# H\n\nb", want: "a\n\n# H\n\nb"},
		{name: "consecutive headings get one blank", input: "# A\n## B\ntext", want: "# A\n\n## B\n\ntext"},
		{name: "trailing heading", input: "text\n# End", want: "text\n\n# End"},
		{name: "trailing heading with newline", input: "text\n# End\n", want: "text\n\n# End\n"},
		{name: "indented heading", input: "x\n  ### Deep\ny", want: "x\n\n  ### Deep\n\ny"},
		{name: "crlf normalized", input: "a\r\n# H\r\nb", want: "a\n\n# H\n\nb"},
		{name: "hashtag is not a heading", input: "a\n#tag\nb", want: "a\n#tag\nb"},
		{name: "seven hashes is not a heading", input: "a\n####### x\nb", want: "a\n####### x\nb"},
		{name: "hash without text is not a heading", input: "a\n#   \nb", want: "a\n#   \nb"},
		{name: "fenced comment untouched", input: "run:\n```sh\n# install\nmake\n```\ndone", want: "run:\n```sh\n# install\nmake\n```\ndone"},
		{name: "tilde fence untouched", input: "~~~\n# not a heading\n~~~", want: "~~~\n# not a heading\n~~~"},
		{name: "heading after fence", input: "```\ncode\n```\n# After", want: "```\ncode\n```\n\n# After"},
		{name: "inline triple backticks are not a fence", input: "```npm i``` installs it\ntext\n# Heading\nmore", want: "```npm i``` installs it\ntext\n\n# Heading\n\nmore"},
		{name: "backtick in info string is not a fence", input: "```a`b\n# H\nx", want: "```a`b\n\n# H\n\nx"},
		{name: "tilde fence info may hold backticks", input: "~~~ `x`\n# in\n~~~\n# out", want: "~~~ `x`\n# in\n~~~\n\n# out"},
		{name: "shorter closing fence does not close", input: "````\n```\n# in\n````\n# out", want: "````\n```\n# in\n````\n\n# out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSanitize - Display math unwrapping
// ---------------------------------------------------------------------------

func TestSanitize_DisplayMath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "align unwrapped",
			input: `$$\begin{align}a &= b\end{align}$$`,
			want:  `\begin{align}a &= b\end{align}`,
		},
		{
			name:  "starred with whitespace and newlines",
			input: "$$ \\begin{align*}\nx &= 1 \\\\\ny &= 2\n\\end{align*} $$",
			want:  "\\begin{align*}\nx &= 1 \\\\\ny &= 2\n\\end{align*}",
		},
		{
			name:  "gather and multline",
			input: `$$\begin{gather}g\end{gather}$$ and $$\begin{multline*}m\end{multline*}$$`,
			want:  `\begin{gather}g\end{gather} and \begin{multline*}m\end{multline*}`,
		},
		{
			name:  "mismatched environment untouched",
			input: `$$\begin{align}x\end{gather}$$`,
			want:  `$$\begin{align}x\end{gather}$$`,
		},
		{
			name:  "star mismatch untouched",
			input: `$$\begin{align*}x\end{align}$$`,
			want:  `$$\begin{align*}x\end{align}$$`,
		},
		{
			name:  "equation untouched",
			input: `$$\begin{equation}e\end{equation}$$`,
			want:  `$$\begin{equation}e\end{equation}$$`,
		},
		{
			name:  "alignat untouched",
			input: `$$\begin{alignat}{2}x\end{alignat}$$`,
			want:  `$$\begin{alignat}{2}x\end{alignat}$$`,
		},
		{
			name:  "body extends to end followed by dollars",
			input: `$$\begin{align}a\end{align} b \end{align}$$`,
			want:  `\begin{align}a\end{align} b \end{align}`,
		},
		{
			name:  "non-greedy across blocks",
			input: "$$\\begin{align}a\\end{align}$$\ntext\n$$\\begin{align}b\\end{align}$$",
			want:  "\\begin{align}a\\end{align}\ntext\n\\begin{align}b\\end{align}",
		},
		{
			name:  "inline math untouched",
			input: `$x^2$ and $$y$$`,
			want:  `$x^2$ and $$y$$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q)\n got: %q\nwant: %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"# A\n## B\ntext\n# C",
		"intro\n$$\\begin{align}x\\end{align}$$\n### H\n",
		"```\n# x\n```\n# y",
	}

	for _, input := range inputs {
		once := Sanitize(input)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q:\n once: %q\ntwice: %q", input, once, twice)
		}
	}
}
