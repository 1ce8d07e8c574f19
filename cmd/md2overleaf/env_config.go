package main

import (
	"fmt"
	"io"
	"strings"
)

// envPrefix marks the environment variables read by the CLI.
const envPrefix = "MD2OVERLEAF_"

// envConfig holds configuration from environment variables.
type envConfig struct {
	SettingsPath string // MD2OVERLEAF_SETTINGS: settings file path
	UploadHost   string // MD2OVERLEAF_UPLOAD_HOST: paste host
	AssetsDir    string // MD2OVERLEAF_ASSETS_DIR: template/filter overrides
	Root         string // MD2OVERLEAF_ROOT: document root
	SearchPath   string // MD2OVERLEAF_PATH: PATH for pandoc and npx
}

// knownEnvVars lists valid MD2OVERLEAF_* environment variables.
var knownEnvVars = map[string]bool{
	"MD2OVERLEAF_SETTINGS":    true,
	"MD2OVERLEAF_UPLOAD_HOST": true,
	"MD2OVERLEAF_ASSETS_DIR":  true,
	"MD2OVERLEAF_ROOT":        true,
	"MD2OVERLEAF_PATH":        true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		SettingsPath: getenv("MD2OVERLEAF_SETTINGS"),
		UploadHost:   getenv("MD2OVERLEAF_UPLOAD_HOST"),
		AssetsDir:    getenv("MD2OVERLEAF_ASSETS_DIR"),
		Root:         getenv("MD2OVERLEAF_ROOT"),
		SearchPath:   getenv("MD2OVERLEAF_PATH"),
	}
}

// warnUnknownEnvVars prints a warning for each unrecognized MD2OVERLEAF_* variable.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// firstNonEmpty returns the first non-empty value: flag > env > fallback.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
