package md2overleaf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2overleaf/internal/assets"
	"github.com/alnah/go-md2overleaf/internal/fileutil"
	"github.com/alnah/go-md2overleaf/internal/packager"
	"github.com/alnah/go-md2overleaf/internal/pipeline"
	"github.com/alnah/go-md2overleaf/internal/process"
)

// Status lines sent to the Notifier.
const (
	MsgConversionDone   = "Conversion complete. Preparing ZIP..."
	MsgUploading        = "Uploading to Overleaf..."
	MsgOpening          = "Opening in Overleaf..."
	MsgUploadDone       = "Upload complete. See log for Overleaf URL."
	MsgConversionFailed = "Pandoc conversion failed. See log for details."
	MsgExportFailed     = "Packaging or upload failed. See log for details."
	MsgBuildFailed      = "Failed to build TeX. See log for details."
	MsgOpenFailed       = "Could not open the browser. See log for Overleaf URL."
	MsgNoDocument       = "No active note selected."
	MsgFailed           = "Export failed. See log for details."
)

const (
	// workDirName is created under the document root for intermediate files.
	workDirName = ".md2overleaf"
	// rootMarker identifies an Obsidian vault root during discovery.
	rootMarker = ".obsidian"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.Converter       = (*pipeline.PandocConverter)(nil)
	_ pipeline.DiagramExporter = (*pipeline.TldrawExporter)(nil)
	_ assets.Loader            = (*assets.AssetResolver)(nil)
	_ process.Runner           = (*process.ExecRunner)(nil)
)

// Exporter runs the note-to-Overleaf pipeline.
// Create with NewExporter. An Exporter is safe for concurrent use on
// different documents.
type Exporter struct {
	runner     Runner
	assetsDir  string
	searchPath string
	settings   Settings
	notifier   Notifier
	browser    Browser
	httpClient *http.Client
	converter  Converter
	tempDir    string // parent of staging directories; "" = os.TempDir()

	resolver *assets.AssetResolver
	stager   *pipeline.StageBuilder
}

// NewExporter creates an Exporter. Returns ErrInvalidAssetsDir when
// WithAssetsDir names an unusable directory, or a settings validation error.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		runner:     process.NewExecRunner(),
		searchPath: process.DefaultSearchPathFor(runtime.GOOS),
		settings:   DefaultSettings(),
		notifier:   nopNotifier{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}

	if err := e.settings.Validate(); err != nil {
		return nil, err
	}

	resolver, err := assets.NewAssetResolver(e.assetsDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetsDir, err)
	}
	e.resolver = resolver

	if e.converter == nil {
		e.converter = pipeline.NewPandocConverter(e.runner, e.searchPath)
	}
	if e.browser == nil {
		e.browser = NewSystemBrowser(e.runner)
	}
	if e.httpClient == nil {
		e.httpClient = http.DefaultClient
	}
	e.stager = &pipeline.StageBuilder{
		Templates: e.resolver,
		Diagrams:  pipeline.NewTldrawFactory(e.runner, e.searchPath),
		TempDir:   e.tempDir,
	}
	return e, nil
}

// job holds the resolved paths of one run.
type job struct {
	source  string // absolute note path
	root    string // absolute document root
	base    string // note name without .md
	workDir string // <root>/.md2overleaf/<base>
}

// Export converts, stages, zips and uploads doc, then opens the Overleaf
// link when auto-open is enabled. A browser failure is logged and reported
// through Result.Opened, not as an error.
func (e *Exporter) Export(ctx context.Context, doc Document) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
			e.notifier.Notify(MsgFailed)
		}
	}()

	j, err := newJob(doc)
	if err != nil {
		e.notifier.Notify(MsgNoDocument)
		return nil, err
	}
	log := zerolog.Ctx(ctx).With().
		Str("component", "md2overleaf/Exporter.Export").
		Str("document", j.source).
		Logger()

	if err := e.prepare(ctx, j); err != nil {
		log.Error().Err(err).Msg("preparing work directory failed")
		e.notifier.Notify(MsgFailed)
		return nil, err
	}
	defer e.removeAll(log, j.workDir)

	latexPath, err := e.convert(ctx, j)
	if err != nil {
		log.Error().Err(err).Msg("conversion failed")
		e.notifier.Notify(MsgConversionFailed)
		return nil, err
	}
	e.notifier.Notify(MsgConversionDone)

	archiveURL, err := e.packageAndUpload(ctx, j, latexPath)
	if err != nil {
		log.Error().Err(err).Msg("packaging or upload failed")
		e.notifier.Notify(MsgExportFailed)
		return nil, err
	}

	res = &Result{
		ArchiveURL: archiveURL,
		DeepLink:   packager.DeepLink(archiveURL, j.base),
	}
	log.Info().Str("url", res.DeepLink).Msg("overleaf link ready")

	if !e.settings.AutoOpen {
		e.notifier.Notify(MsgUploadDone)
		return res, nil
	}
	e.notifier.Notify(MsgOpening)
	if err := e.browser.Open(ctx, res.DeepLink); err != nil {
		log.Warn().Err(err).Str("url", res.DeepLink).Msg("opening browser failed")
		e.notifier.Notify(MsgOpenFailed)
		return res, nil
	}
	res.Opened = true
	return res, nil
}

// BuildTeX converts and stages doc and returns the rewritten LaTeX. Nothing
// is uploaded and no files are left behind.
func (e *Exporter) BuildTeX(ctx context.Context, doc Document) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
			e.notifier.Notify(MsgFailed)
		}
	}()

	j, err := newJob(doc)
	if err != nil {
		e.notifier.Notify(MsgNoDocument)
		return "", err
	}
	log := zerolog.Ctx(ctx).With().
		Str("component", "md2overleaf/Exporter.BuildTeX").
		Str("document", j.source).
		Logger()

	if err := e.prepare(ctx, j); err != nil {
		log.Error().Err(err).Msg("preparing work directory failed")
		e.notifier.Notify(MsgFailed)
		return "", err
	}
	defer e.removeAll(log, j.workDir)

	latexPath, err := e.convert(ctx, j)
	if err != nil {
		log.Error().Err(err).Msg("conversion failed")
		e.notifier.Notify(MsgConversionFailed)
		return "", err
	}

	stage, err := e.stage(ctx, j, latexPath)
	if err != nil {
		log.Error().Err(err).Msg("staging failed")
		e.notifier.Notify(MsgBuildFailed)
		return "", err
	}
	defer e.removeAll(log, stage.Dir)

	return stage.Text, nil
}

// newJob validates doc and resolves its paths.
func newJob(doc Document) (*job, error) {
	if strings.TrimSpace(doc.Path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrNoDocument)
	}
	if !strings.EqualFold(filepath.Ext(doc.Path), ".md") {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, doc.Path)
	}
	source, err := filepath.Abs(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDocument, err)
	}
	if !fileutil.FileExists(source) {
		return nil, fmt.Errorf("%w: %s not found", ErrNoDocument, source)
	}

	root := doc.Root
	if root == "" {
		root = FindRoot(source)
	}
	if root, err = filepath.Abs(root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDocument, err)
	}

	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return &job{
		source:  source,
		root:    root,
		base:    base,
		workDir: filepath.Join(root, workDirName, base),
	}, nil
}

// FindRoot returns the closest ancestor of notePath holding a .obsidian
// directory, or the note's own directory when there is none.
func FindRoot(notePath string) string {
	noteDir := filepath.Dir(notePath)
	for dir := noteDir; ; {
		if info, err := os.Stat(filepath.Join(dir, rootMarker)); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return noteDir
		}
		dir = parent
	}
}

// prepare creates the work directory.
func (e *Exporter) prepare(ctx context.Context, j *job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(j.workDir, fileutil.DirPerm); err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	return nil
}

// convert runs the converter and checks that it wrote its output.
func (e *Exporter) convert(ctx context.Context, j *job) (string, error) {
	filter, err := e.resolver.Materialize(assets.LuaFilter, j.workDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversion, err)
	}
	zerolog.Ctx(ctx).Debug().
		Str("component", "md2overleaf/Exporter.convert").
		Bool("customAssets", e.resolver.HasCustomLoader()).
		Str("filter", filter).
		Msg("lua filter ready")

	out := filepath.Join(j.workDir, j.base+".tex")
	if err := e.converter.Convert(ctx, ConvertRequest{
		SourcePath: j.source,
		SourceRoot: j.root,
		FilterPath: filter,
		OutputPath: out,
	}); err != nil {
		return "", err
	}
	if !fileutil.FileExists(out) {
		return "", fmt.Errorf("%w: %s", ErrOutputMissing, out)
	}
	return out, nil
}

func (e *Exporter) stage(ctx context.Context, j *job, latexPath string) (*pipeline.Stage, error) {
	return e.stager.Build(ctx, pipeline.StageRequest{
		LatexPath:  latexPath,
		BaseName:   j.base,
		SourceRoot: j.root,
		WorkDir:    j.workDir,
	})
}

func (e *Exporter) packageAndUpload(ctx context.Context, j *job, latexPath string) (string, error) {
	log := zerolog.Ctx(ctx).With().Str("component", "md2overleaf/Exporter.packageAndUpload").Logger()

	stage, err := e.stage(ctx, j, latexPath)
	if err != nil {
		return "", err
	}
	defer e.removeAll(log, stage.Dir)

	archive, err := packager.Archive(ctx, stage.Dir, j.workDir)
	if err != nil {
		return "", err
	}

	uploader := packager.NewUploader(e.settings.UploadHost, e.httpClient)
	log.Debug().Str("endpoint", uploader.Endpoint()).Str("archive", archive).Msg("archive ready")
	e.notifier.Notify(MsgUploading)
	return uploader.Upload(ctx, archive)
}

// removeAll deletes a temporary directory. Failures are logged only.
func (e *Exporter) removeAll(log zerolog.Logger, dir string) {
	if err := os.RemoveAll(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("dir", dir).Msg("removing temporary directory")
	}
}
