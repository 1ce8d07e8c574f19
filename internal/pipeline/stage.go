package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2overleaf/internal/assets"
	"github.com/alnah/go-md2overleaf/internal/fileutil"
)

var (
	titleCommand   = regexp.MustCompile(`\\title\s*\{[^}]*\}`)
	includeCommand = regexp.MustCompile(`\\include\s*\{[^}]*\}`)
	titleSeparator = regexp.MustCompile(`[_-]+`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	texSuffix      = regexp.MustCompile(`(?i)\.tex$`)
)

// StageRequest describes one staging run.
type StageRequest struct {
	LatexPath  string // pandoc output
	BaseName   string // note name without extension; names <base>.tex
	SourceRoot string // image and diagram references resolve against it
	WorkDir    string // scratch space for diagram exports
}

// Stage is an assembled project tree. The caller removes Dir.
type Stage struct {
	Text string // final LaTeX written to Dir/<base>.tex
	Dir  string
}

// StageBuilder assembles staging trees.
type StageBuilder struct {
	Templates assets.Loader
	Diagrams  DiagramExporterFactory // nil: diagram embeds are reported missing
	TempDir   string                 // parent of staging dirs; "" = os.TempDir()
}

// Build creates a fresh staging directory holding the rewritten LaTeX, every
// referenced asset that exists, config.tex and main.tex. Missing assets and
// templates are logged and skipped. On error the directory is removed and
// the error wraps ErrStageBuild.
func (b *StageBuilder) Build(ctx context.Context, req StageRequest) (_ *Stage, err error) {
	log := zerolog.Ctx(ctx).With().Str("component", "pipeline/StageBuilder.Build").Logger()

	if texName := req.BaseName + ".tex"; strings.EqualFold(texName, assets.ConfigTemplate) ||
		strings.EqualFold(texName, assets.MainTemplate) {
		return nil, fmt.Errorf("%w: note name %q collides with the %s template", ErrStageBuild, req.BaseName, texName)
	}

	dir, err := os.MkdirTemp(b.TempDir, "md2overleaf-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating staging directory: %v", ErrStageBuild, err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				log.Warn().Err(rmErr).Str("dir", dir).Msg("removing staging directory")
			}
		}
	}()

	tex, err := os.ReadFile(req.LatexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading LaTeX: %v", ErrStageBuild, err)
	}

	rewriter := &Rewriter{SourceRoot: req.SourceRoot}
	if b.Diagrams != nil {
		rewriter.Diagrams = b.Diagrams(req.SourceRoot, dir, req.WorkDir)
	}
	text, refs := rewriter.Rewrite(ctx, string(tex))

	for _, a := range refs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStageBuild, err)
		}
		if !fileutil.FileExists(a.Source) {
			log.Warn().Str("path", a.Source).Msg("missing referenced image")
			continue
		}
		dst := filepath.Join(dir, filepath.FromSlash(a.Rel))
		if err := fileutil.CopyFile(a.Source, dst); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStageBuild, err)
		}
	}

	if err := fileutil.WriteFile(filepath.Join(dir, req.BaseName+".tex"), text); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStageBuild, err)
	}

	if err := b.writeTemplate(log, dir, assets.ConfigTemplate, nil); err != nil {
		return nil, err
	}
	if err := b.writeTemplate(log, dir, assets.MainTemplate, func(s string) string {
		return FillMainTemplate(s, req.BaseName)
	}); err != nil {
		return nil, err
	}

	log.Debug().Str("dir", dir).Int("assets", len(refs)).Msg("staging tree ready")
	return &Stage{Text: text, Dir: dir}, nil
}

// writeTemplate copies a template into dir, optionally transformed.
// A template that does not exist is skipped with a warning.
func (b *StageBuilder) writeTemplate(log zerolog.Logger, dir, name string, transform func(string) string) error {
	if b.Templates == nil {
		log.Warn().Str("template", name).Msg("no template loader configured")
		return nil
	}
	content, err := b.Templates.Load(name)
	if errors.Is(err, assets.ErrTemplateNotFound) {
		log.Warn().Str("template", name).Msg("template not found, skipped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: loading %s: %v", ErrStageBuild, name, err)
	}
	if transform != nil {
		content = transform(content)
	}
	if err := fileutil.WriteFile(filepath.Join(dir, name), content); err != nil {
		return fmt.Errorf("%w: %v", ErrStageBuild, err)
	}
	return nil
}

// FillMainTemplate points the first \include{} at baseName and sets the
// first \title{} to a title derived from it.
func FillMainTemplate(tmpl, baseName string) string {
	base := texSuffix.ReplaceAllString(baseName, "")
	tmpl = replaceFirst(titleCommand, tmpl, `\title{`+DocumentTitle(base)+`}`)
	return replaceFirst(includeCommand, tmpl, `\include{`+base+`}`)
}

// DocumentTitle turns a file base name into a title: "my_note-v2" becomes
// "my note v2".
func DocumentTitle(baseName string) string {
	title := texSuffix.ReplaceAllString(baseName, "")
	title = titleSeparator.ReplaceAllString(title, " ")
	title = whitespaceRun.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// replaceFirst substitutes the first match of re literally.
func replaceFirst(re *regexp.Regexp, src, replacement string) string {
	loc := re.FindStringIndex(src)
	if loc == nil {
		return src
	}
	return src[:loc[0]] + replacement + src[loc[1]:]
}
