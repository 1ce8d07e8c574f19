package pipeline

import (
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	lineBreak   = regexp.MustCompile(`\r?\n`)
	headingLine = regexp.MustCompile(`^\s*#{1,6}\s+\S`)
	fenceOpen   = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")

	// Opening of a display-math block wrapping an amsmath environment.
	// The closing side is matched by scanning, RE2 has no backreferences.
	displayMathOpen = regexp.MustCompile(`\$\$\s*\\begin\{((?:align|gather|multline)\*?)\}`)
	displayMathTail = regexp.MustCompile(`^\s*\$\$`)
)

// Sanitize prepares note text for pandoc. Every heading gets a blank line
// before and after it, and $$-wrapped align, gather and multline
// environments (starred or not) are unwrapped so pandoc passes them through
// as raw LaTeX. Lines are rejoined with "\n".
func Sanitize(text string) string {
	return unwrapDisplayMath(separateHeadings(text))
}

// separateHeadings isolates heading lines with blank lines. Lines inside
// fenced code blocks are copied unchanged.
func separateHeadings(text string) string {
	lines := lineBreak.Split(text, -1)
	out := make([]string, 0, len(lines)+len(lines)/4)

	previousBlank := true // nothing emitted yet
	var fence string      // closing marker of the open code fence, "" outside

	for i, line := range lines {
		if fence != "" {
			out = append(out, line)
			if isFenceClose(line, fence) {
				fence = ""
			}
			previousBlank = false
			continue
		}
		if marker, ok := openFence(line); ok {
			fence = marker
			out = append(out, line)
			previousBlank = false
			continue
		}

		if !headingLine.MatchString(line) {
			out = append(out, line)
			previousBlank = strings.TrimSpace(line) == ""
			continue
		}

		if !previousBlank {
			out = append(out, "")
		}
		out = append(out, line)
		previousBlank = false
		if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			out = append(out, "")
			previousBlank = true
		}
	}

	return strings.Join(out, "\n")
}

// openFence returns the marker of a fence opened by line. A backtick
// fence's info string cannot contain a backtick, so "```x``` y" is inline
// code.
func openFence(line string) (string, bool) {
	loc := fenceOpen.FindStringSubmatchIndex(line)
	if loc == nil {
		return "", false
	}
	marker := line[loc[2]:loc[3]]
	if marker[0] == '`' && strings.Contains(line[loc[1]:], "`") {
		return "", false
	}
	return marker, true
}

// isFenceClose reports whether line closes a fence opened with marker:
// same character, at least as long, nothing but spaces after it.
func isFenceClose(line, marker string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	run := len(trimmed) - len(strings.TrimLeft(trimmed, marker[:1]))
	return run >= len(marker) && strings.TrimSpace(trimmed[run:]) == ""
}

// unwrapDisplayMath rewrites "$$ \begin{E} body \end{E} $$" to
// "\begin{E} body \end{E}". The body ends at the first "\end{E}" that is
// followed by optional whitespace and "$$". An opener without such a
// closing is left untouched.
func unwrapDisplayMath(text string) string {
	var b strings.Builder
	pos := 0 // text[:pos] already handled
	search := 0

	for search < len(text) {
		loc := displayMathOpen.FindStringSubmatchIndex(text[search:])
		if loc == nil {
			break
		}
		start := search + loc[0]
		openEnd := search + loc[1]
		env := text[search+loc[2] : search+loc[3]]

		closeStart, closeEnd, ok := findDisplayMathClose(text, openEnd, env)
		if !ok {
			// Same as a failed regexp attempt: retry from the next byte.
			search = start + 1
			continue
		}

		b.WriteString(text[pos:start])
		b.WriteString(`\begin{` + env + `}`)
		b.WriteString(text[openEnd:closeStart])
		b.WriteString(`\end{` + env + `}`)
		pos = closeEnd
		search = closeEnd
	}

	if pos == 0 {
		return text
	}
	b.WriteString(text[pos:])
	return b.String()
}

// findDisplayMathClose finds the first "\end{env}" at or after from that is
// followed by optional whitespace and "$$". It returns the start of
// "\end{env}" and the end of the "$$".
func findDisplayMathClose(text string, from int, env string) (int, int, bool) {
	closer := `\end{` + env + `}`
	for i := from; i < len(text); {
		idx := strings.Index(text[i:], closer)
		if idx < 0 {
			return 0, 0, false
		}
		closeStart := i + idx
		afterEnv := closeStart + len(closer)
		if tail := displayMathTail.FindStringIndex(text[afterEnv:]); tail != nil {
			return closeStart, afterEnv + tail[1], true
		}
		i = afterEnv
	}
	return 0, 0, false
}
