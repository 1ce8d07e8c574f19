// Package pipeline implements the Markdown-to-LaTeX export stages.
//
// The stages run strictly in sequence:
//   - Sanitize normalizes heading spacing and display math so pandoc parses
//     the note unambiguously
//   - PandocConverter writes the sanitized text to a hidden sibling file and
//     runs pandoc with the bundled Lua filter
//   - Rewriter turns image references and diagram embeds in the LaTeX into
//     figure environments and records the files they point at
//   - TldrawExporter rasterizes a diagram note through @tldraw/cli
//   - StageBuilder assembles the project tree (LaTeX, assets, config.tex,
//     main.tex) in a fresh temporary directory
//
// Packaging and upload of the finished tree live in internal/packager.
package pipeline
