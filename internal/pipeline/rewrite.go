package pipeline

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2overleaf/internal/fileutil"
)

// Reference shapes in pandoc's LaTeX output.
var (
	// ![[path.png]] wiki embeds survive pandoc as escaped brackets.
	wikiImageRef = regexp.MustCompile(`!\{\[\}\{\[\}([^{}]+\.png)\{\]\}\{\]\}`)

	// Standard markdown images under pictures/.
	boundedImageRef = regexp.MustCompile(`\\pandocbounded\{\s*\\includegraphics(?:\[[^\]]*\])?\{(pictures/[^}]+)\}\s*\}`)

	// ![[pictures/diagram.md]] embeds of diagram notes.
	diagramEmbedRef = regexp.MustCompile(`!\{\[\}\{\[\}(pictures/[^{}]+?\.md)\{\]\}\{\]\}`)

	labelUnsafe    = regexp.MustCompile(`[^A-Za-z0-9]+`)
	labelExtension = regexp.MustCompile(`\.[^.]+$`)
)

// missingDiagramMarker prefixes the comment left for a diagram that could
// not be exported.
const missingDiagramMarker = "% [md2overleaf] missing tldraw export for "

// Asset is a file referenced by the LaTeX that must be copied into the
// staging tree.
type Asset struct {
	Source string // absolute path under the source root
	Rel    string // forward-slash path relative to the source and stage roots
}

// DiagramExporter rasterizes a diagram note. It returns the PNG path
// relative to the stage root, or ok=false when no image was produced.
type DiagramExporter interface {
	ExportDiagram(ctx context.Context, mdPath string) (pngRel string, ok bool)
}

// Rewriter replaces image references and diagram embeds with LaTeX figure
// environments.
type Rewriter struct {
	SourceRoot string
	Diagrams   DiagramExporter // nil: every diagram embed is reported missing
}

// Rewrite returns the rewritten LaTeX and the assets it references, in
// first-reference order without duplicates. Unresolvable references and
// failed diagram exports never abort the rewrite.
func (r *Rewriter) Rewrite(ctx context.Context, tex string) (string, []Asset) {
	log := zerolog.Ctx(ctx).With().Str("component", "pipeline/Rewriter.Rewrite").Logger()

	var assets []Asset
	seen := make(map[string]bool)
	record := func(raw string) string {
		rel := decodeReference(log, raw)
		abs, err := fileutil.JoinLocal(r.SourceRoot, rel)
		if err != nil {
			log.Warn().Str("reference", rel).Msg("image reference escapes the source root, not copied")
			return rel
		}
		if !seen[rel] {
			seen[rel] = true
			assets = append(assets, Asset{Source: abs, Rel: rel})
		}
		return rel
	}

	tex = replaceAllSubmatchFunc(wikiImageRef, tex, func(groups []string) string {
		return figureBlock(record(groups[1]))
	})
	tex = replaceAllSubmatchFunc(boundedImageRef, tex, func(groups []string) string {
		return figureBlock(record(groups[1]))
	})

	exported := make(map[string]string) // rel -> replacement
	tex = replaceAllSubmatchFunc(diagramEmbedRef, tex, func(groups []string) string {
		rel := strings.TrimSpace(groups[1])
		if replacement, ok := exported[rel]; ok {
			return replacement
		}
		replacement := missingDiagramMarker + rel
		if pngRel, ok := r.exportDiagram(ctx, rel); ok {
			replacement = diagramBlock(pngRel)
		}
		exported[rel] = replacement
		return replacement
	})

	return tex, assets
}

func (r *Rewriter) exportDiagram(ctx context.Context, rel string) (string, bool) {
	if r.Diagrams == nil {
		return "", false
	}
	abs, err := fileutil.JoinLocal(r.SourceRoot, rel)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Str("component", "pipeline/Rewriter.Rewrite").
			Str("reference", rel).Msg("diagram reference escapes the source root")
		return "", false
	}
	return r.Diagrams.ExportDiagram(ctx, abs)
}

// decodeReference percent-decodes a path and converts backslashes to
// forward slashes. A malformed escape keeps the raw text.
func decodeReference(log zerolog.Logger, raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		log.Warn().Err(err).Str("reference", raw).Msg("malformed percent-escape, using raw path")
		decoded = raw
	}
	return strings.ReplaceAll(decoded, `\`, "/")
}

// figureLabel derives the \label suffix from a relative path:
// "pictures/My Plot.png" becomes "My-Plot".
func figureLabel(rel string) string {
	base := strings.TrimPrefix(rel, "pictures/")
	base = labelExtension.ReplaceAllString(base, "")
	return labelUnsafe.ReplaceAllString(base, "-")
}

func figureBlock(rel string) string {
	return "\\begin{figure}[H]\n" +
		"  \\centering\n" +
		"  \\includegraphics[width=\\linewidth]{" + rel + "}\n" +
		"  \\caption{}\n" +
		"  \\label{fig:" + figureLabel(rel) + "}\n" +
		"\\end{figure}"
}

func diagramBlock(pngRel string) string {
	return `\begin{figure}[H] \centering \includegraphics[width=\linewidth]{` + pngRel + `} \end{figure}`
}

// replaceAllSubmatchFunc is regexp.ReplaceAllStringFunc with access to
// capture groups. The replacement is inserted literally.
func replaceAllSubmatchFunc(re *regexp.Regexp, src string, repl func(groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(src, -1)
	if matches == nil {
		return src
	}

	var b strings.Builder
	last := 0
	for _, loc := range matches {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = src[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(src[last:loc[0]])
		b.WriteString(repl(groups))
		last = loc[1]
	}
	b.WriteString(src[last:])
	return b.String()
}
