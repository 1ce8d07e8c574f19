// Package assets provides the LaTeX templates and pandoc filter bundled with
// every export.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in defaults)
//	    ├── FilesystemLoader  - loads from an assets directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the exporter. Each file is looked up in
// the custom directory first and falls back to the embedded default, so a
// user can override main.tex alone and keep the built-in config.tex.
//
// # Directory Structure
//
//	{basePath}/
//	├── config.tex        # preamble copied next to main.tex
//	├── main.tex          # wrapper; first \title{} and \include{} are rewritten
//	└── final_filter.lua  # pandoc --lua-filter
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
