package process

import (
	"os"
	"strings"
)

// DefaultSearchPath is the PATH handed to pandoc and npx. GUI-launched and
// cron-launched processes often inherit a minimal PATH that misses Homebrew
// and /usr/local installs.
const DefaultSearchPath = "/opt/homebrew/bin:/usr/local/bin:/usr/bin:/bin:/usr/sbin:/sbin"

// DefaultSearchPathFor returns the search path used when none is configured
// on goos. Windows keeps the inherited PATH, returned as "".
func DefaultSearchPathFor(goos string) string {
	if goos == "windows" {
		return ""
	}
	return DefaultSearchPath
}

// EffectiveSearchPath returns the PATH a child started with
// Environ(searchPath) resolves executables against.
func EffectiveSearchPath(searchPath string) string {
	if searchPath != "" {
		return searchPath
	}
	return os.Getenv("PATH")
}

// Environ returns a copy of the current process environment with PATH
// replaced by searchPath and extra KEY=VALUE entries appended. An empty
// searchPath keeps the inherited PATH. The process environment itself is
// never modified.
func Environ(searchPath string, extra ...string) []string {
	return buildEnv(os.Environ(), searchPath, extra)
}

func buildEnv(base []string, searchPath string, extra []string) []string {
	env := make([]string, 0, len(base)+len(extra)+1)
	for _, kv := range base {
		if searchPath != "" && isPathVar(kv) {
			continue
		}
		env = append(env, kv)
	}
	if searchPath != "" {
		env = append(env, "PATH="+searchPath)
	}
	// exec.Cmd uses the last value for duplicate keys, so extras win.
	return append(env, extra...)
}

func isPathVar(kv string) bool {
	key, _, _ := strings.Cut(kv, "=")
	return strings.EqualFold(key, "PATH")
}
