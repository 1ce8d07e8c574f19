package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2overleaf/internal/fileutil"
	"github.com/alnah/go-md2overleaf/internal/process"
)

// sanitizedSuffix names the hidden sibling holding the sanitized note.
const sanitizedSuffix = ".md2overleaf.sanitized.md"

// pandocInputFormat enables lists that directly follow a paragraph line.
const pandocInputFormat = "markdown+lists_without_preceding_blankline"

// ConvertRequest describes one pandoc run.
type ConvertRequest struct {
	SourcePath string // note to convert
	SourceRoot string // pandoc working directory; image paths resolve against it
	FilterPath string // --lua-filter
	OutputPath string // LaTeX file pandoc writes
}

// Converter turns a note into LaTeX on disk.
type Converter interface {
	Convert(ctx context.Context, req ConvertRequest) error
}

// PandocConverter runs the pandoc executable.
type PandocConverter struct {
	Runner     process.Runner
	SearchPath string // PATH handed to pandoc; "" keeps the inherited PATH
}

// NewPandocConverter creates a PandocConverter.
func NewPandocConverter(runner process.Runner, searchPath string) *PandocConverter {
	return &PandocConverter{Runner: runner, SearchPath: searchPath}
}

// Convert sanitizes req.SourcePath into a hidden sibling file, runs pandoc
// on it and removes the sibling afterwards. Failures wrap ErrConversion.
// Convert does not check that pandoc actually wrote req.OutputPath.
func (c *PandocConverter) Convert(ctx context.Context, req ConvertRequest) error {
	log := zerolog.Ctx(ctx).With().Str("component", "pipeline/PandocConverter.Convert").Logger()

	original, err := os.ReadFile(req.SourcePath)
	if err != nil {
		return fmt.Errorf("%w: reading note: %v", ErrConversion, err)
	}

	tmp := fileutil.HiddenSibling(req.SourcePath, sanitizedSuffix)
	if err := os.WriteFile(tmp, []byte(Sanitize(string(original))), fileutil.FilePerm); err != nil {
		return fmt.Errorf("%w: writing sanitized note: %v", ErrConversion, err)
	}
	defer func() {
		if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", tmp).Msg("removing sanitized note")
		}
	}()

	cmd := process.Command{
		Name: "pandoc",
		Args: PandocArgs(tmp, req.FilterPath, req.OutputPath),
		Dir:  req.SourceRoot,
		Env:  process.Environ(c.SearchPath),
	}
	log.Info().Stringer("command", cmd).Msg("running pandoc")

	_, stderr, err := c.Runner.Run(ctx, cmd)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrConversion, ctxErr)
		}
		if stderr = strings.TrimSpace(stderr); stderr != "" {
			return fmt.Errorf("%w: %w: %s", ErrConversion, err, stderr)
		}
		return fmt.Errorf("%w: %w", ErrConversion, err)
	}
	if stderr = strings.TrimSpace(stderr); stderr != "" {
		log.Debug().Str("stderr", stderr).Msg("pandoc warnings")
	}
	return nil
}

// PandocArgs returns the pandoc command line for converting input to output.
func PandocArgs(input, filterPath, output string) []string {
	return []string{
		input,
		"--lua-filter=" + filterPath,
		"--from=" + pandocInputFormat,
		"--metadata=lang:he",
		"--metadata=dir:rtl",
		"-o",
		output,
	}
}

// Compile-time interface check.
var _ Converter = (*PandocConverter)(nil)
