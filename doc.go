// Package md2overleaf exports a Markdown note as an Overleaf project.
//
// # Quick Start
//
//	exp, err := md2overleaf.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := exp.Export(ctx, md2overleaf.Document{
//	    Path: "/vault/notes/my_note.md",
//	    Root: "/vault",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.DeepLink)
//
// # Export Pipeline
//
// Export runs these stages in order:
//
//  1. Sanitize the note (heading spacing, $$-wrapped align environments)
//  2. Convert it to LaTeX with pandoc and the bundled Lua filter
//  3. Rewrite image references and tldraw embeds into figure environments,
//     copying the referenced files into a temporary staging tree together
//     with config.tex and main.tex
//  4. Zip the staging tree and upload it to a paste host (x0.at by default)
//  5. Build the Overleaf import link and open it in a browser
//
// BuildTeX stops after stage 3 and returns the rewritten LaTeX.
//
// # External Tools
//
// pandoc must be installed. Diagram embeds need Node.js for
// `npx @tldraw/cli`. Both are looked up on a fixed search path
// (DefaultSearchPath) because GUI-launched processes often inherit a
// minimal PATH; override it with WithSearchPath.
//
// # Temporary Files
//
// Each run writes to <root>/.md2overleaf/<name>/ and to a staging directory
// under the OS temp dir. Both are removed when the run ends, whether it
// succeeded or not. Concurrent runs for the same note share the first
// directory and must be avoided.
//
// # Logging
//
// Diagnostics go to the zerolog logger carried by the context
// (zerolog.Ctx). Short user-facing status lines go to the Notifier.
package md2overleaf
