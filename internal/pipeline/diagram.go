package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-md2overleaf/internal/fileutil"
	"github.com/alnah/go-md2overleaf/internal/process"
)

// diagramLanguage is the info string of the fence holding diagram JSON.
const diagramLanguage = "tldraw"

// errNoDiagram marks a note without a tldraw fence.
var errNoDiagram = errors.New("no tldraw code block")

// DiagramExporterFactory builds the exporter used for one staging run.
type DiagramExporterFactory func(sourceRoot, stageDir, workDir string) DiagramExporter

// TldrawExporter rasterizes the first tldraw code block of a note to PNG
// with `npx @tldraw/cli`.
type TldrawExporter struct {
	Runner     process.Runner
	SearchPath string
	SourceRoot string // npx working directory
	StageDir   string // PNGs land in StageDir/pictures
	WorkDir    string // holds the temporary .tldr file
}

// NewTldrawFactory returns a DiagramExporterFactory producing TldrawExporters
// that share runner and searchPath.
func NewTldrawFactory(runner process.Runner, searchPath string) DiagramExporterFactory {
	return func(sourceRoot, stageDir, workDir string) DiagramExporter {
		return &TldrawExporter{
			Runner:     runner,
			SearchPath: searchPath,
			SourceRoot: sourceRoot,
			StageDir:   stageDir,
			WorkDir:    workDir,
		}
	}
}

// ExportDiagram writes StageDir/pictures/<name>.png for the note at mdPath.
// Every failure is logged and reported as ok=false.
func (e *TldrawExporter) ExportDiagram(ctx context.Context, mdPath string) (string, bool) {
	log := zerolog.Ctx(ctx).With().
		Str("component", "pipeline/TldrawExporter.ExportDiagram").
		Str("note", mdPath).
		Logger()

	pngRel, err := e.export(ctx, mdPath)
	switch {
	case errors.Is(err, errNoDiagram):
		log.Debug().Msg("note has no tldraw code block")
		return "", false
	case err != nil:
		log.Warn().Err(err).Msg("tldraw export failed")
		return "", false
	}
	log.Info().Str("png", pngRel).Msg("tldraw diagram exported")
	return pngRel, true
}

func (e *TldrawExporter) export(ctx context.Context, mdPath string) (string, error) {
	source, err := os.ReadFile(mdPath) // #nosec G304 -- mdPath is contained in the source root
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDiagramExport, err)
	}
	drawing, ok := extractDiagram(source)
	if !ok {
		return "", errNoDiagram
	}

	name := strings.TrimSuffix(filepath.Base(mdPath), ".md")
	pngRel := "pictures/" + name + ".png"
	pngAbs := filepath.Join(e.StageDir, filepath.FromSlash(pngRel))
	if err := os.MkdirAll(filepath.Dir(pngAbs), fileutil.DirPerm); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDiagramExport, err)
	}

	tmp := filepath.Join(e.WorkDir, name+".tldr")
	if err := fileutil.WriteFile(tmp, drawing); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDiagramExport, err)
	}
	defer os.Remove(tmp)

	cmd := process.Command{
		Name: "npx",
		Args: TldrawArgs(tmp, pngAbs),
		Dir:  e.SourceRoot,
		Env:  process.Environ(e.SearchPath, "npm_config_yes=true"),
	}
	if _, stderr, err := e.Runner.Run(ctx, cmd); err != nil {
		return "", fmt.Errorf("%w: %w: %s", ErrDiagramExport, err, strings.TrimSpace(stderr))
	}
	if !fileutil.FileExists(pngAbs) {
		return "", fmt.Errorf("%w: %s not written", ErrDiagramExport, pngAbs)
	}
	return pngRel, nil
}

// TldrawArgs returns the npx command line exporting input to a PNG at output.
func TldrawArgs(input, output string) []string {
	return []string{
		"-y", "@tldraw/cli", "export", input,
		"--format", "png",
		"--output", output,
		"--overwrite",
	}
}

// extractDiagram returns the body of the first fenced code block whose
// language is tldraw.
func extractDiagram(source []byte) (string, bool) {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var (
		body  bytes.Buffer
		found bool
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok || string(fence.Language(source)) != diagramLanguage {
			return ast.WalkContinue, nil
		}
		lines := fence.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			body.Write(seg.Value(source))
		}
		found = true
		return ast.WalkStop, nil
	})
	return body.String(), found
}

// Compile-time interface check.
var _ DiagramExporter = (*TldrawExporter)(nil)
