package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	md2overleaf "github.com/alnah/go-md2overleaf"
	"github.com/alnah/go-md2overleaf/internal/config"
	"github.com/alnah/go-md2overleaf/internal/hints"
	"github.com/alnah/go-md2overleaf/internal/packager"
	"github.com/alnah/go-md2overleaf/internal/process"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage     = errors.New("invalid usage")
	ErrClipboard = errors.New("failed to write clipboard")
)

// MsgCopied is printed after copy puts the LaTeX on the clipboard.
const MsgCopied = "TeX copied to clipboard."

// runConfig is the resolved configuration of one export or copy run.
type runConfig struct {
	doc          md2overleaf.Document
	settingsPath string
	settings     md2overleaf.Settings
	assetsDir    string
	searchPath   string // "" = library default
}

// resolveRunConfig merges flags, environment and the settings file.
// Precedence: CLI flags > env vars > settings file > defaults.
func resolveRunConfig(args []string, common commonFlags, doc documentFlags, uploadHost string, env *envConfig) (*runConfig, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one markdown note, got %d arguments", ErrUsage, len(args))
	}

	path := firstNonEmpty(common.settings, env.SettingsPath)
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	settings, err := config.NewStore(path).Load()
	if err != nil {
		if errors.Is(err, config.ErrSettingsParse) {
			return nil, fmt.Errorf("%w%s", err, hints.ForSettingsParse(path))
		}
		return nil, err
	}
	if host := firstNonEmpty(uploadHost, env.UploadHost); host != "" {
		if err := settings.Set("upload-host", host); err != nil {
			return nil, err
		}
	}

	return &runConfig{
		doc: md2overleaf.Document{
			Path: args[0],
			Root: firstNonEmpty(doc.root, env.Root),
		},
		settingsPath: path,
		settings:     *settings,
		assetsDir:    firstNonEmpty(doc.assetsDir, env.AssetsDir),
		searchPath:   env.SearchPath,
	}, nil
}

// options builds the exporter options for cfg.
func (cfg *runConfig) options(notifier md2overleaf.Notifier) []md2overleaf.Option {
	opts := []md2overleaf.Option{
		md2overleaf.WithSettings(cfg.settings),
		md2overleaf.WithAssetsDir(cfg.assetsDir),
		md2overleaf.WithNotifier(notifier),
	}
	if cfg.searchPath != "" {
		opts = append(opts, md2overleaf.WithSearchPath(cfg.searchPath))
	}
	return opts
}

// uploadHost returns the effective paste host for hints.
func (cfg *runConfig) uploadHost() string {
	return packager.NewUploader(cfg.settings.UploadHost, nil).Endpoint()
}

// runExport uploads a note to Overleaf and prints the deep link on stdout.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return parseError(err)
	}
	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg, err := resolveRunConfig(positional, flags.common, flags.document, flags.uploadHost, loadEnvConfig(env.Getenv))
	if err != nil {
		return err
	}
	if flags.noOpen {
		cfg.settings.AutoOpen = false
	}

	logger := newLogger(env.Stderr, flags.common)
	ctx = logger.WithContext(ctx)
	ctx, cancel := withTimeout(ctx, flags.timeout)
	defer cancel()

	exp, err := env.NewExporter(cfg.options(statusNotifier(env.Stderr, flags.common.quiet))...)
	if err != nil {
		return err
	}
	res, err := exp.Export(ctx, cfg.doc)
	if err != nil {
		return summarize(ctx, err, cfg)
	}

	fmt.Fprintln(env.Stdout, res.DeepLink)
	if cfg.settings.AutoOpen && !res.Opened && !flags.common.quiet {
		fmt.Fprintln(env.Stderr, "warning: could not open the browser"+hints.ForOpenBrowser())
	}
	return nil
}

// runCopy builds the LaTeX for a note and copies it to the clipboard.
func runCopy(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCopyFlags(args, env.Stderr)
	if err != nil {
		return parseError(err)
	}
	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg, err := resolveRunConfig(positional, flags.common, flags.document, "", loadEnvConfig(env.Getenv))
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common)
	ctx = logger.WithContext(ctx)
	ctx, cancel := withTimeout(ctx, flags.timeout)
	defer cancel()

	notifier := statusNotifier(env.Stderr, flags.common.quiet)
	exp, err := env.NewExporter(cfg.options(notifier)...)
	if err != nil {
		return err
	}
	text, err := exp.BuildTeX(ctx, cfg.doc)
	if err != nil {
		return summarize(ctx, err, cfg)
	}

	if flags.stdout {
		_, err := fmt.Fprint(env.Stdout, text)
		return err
	}
	if err := env.Clipboard(text); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboard, err)
	}
	notifier.Notify(MsgCopied)
	return nil
}

// parseError maps a flag parse failure to ErrUsage. A help request is
// not an error.
func parseError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// runFailure is an exporter error the notifier has already announced.
// Error names the failure class and hint; Unwrap keeps the full chain.
type runFailure struct {
	err     error
	summary string
}

func (e *runFailure) Error() string { return e.summary }
func (e *runFailure) Unwrap() error { return e.err }

// failureClasses are checked in order; the first match names the failure.
var failureClasses = []error{
	md2overleaf.ErrNoDocument,
	md2overleaf.ErrInvalidExtension,
	md2overleaf.ErrInvalidAssetsDir,
	md2overleaf.ErrConversion,
	md2overleaf.ErrStageBuild,
	md2overleaf.ErrArchive,
	md2overleaf.ErrUpload,
	context.DeadlineExceeded,
	context.Canceled,
	os.ErrPermission,
	os.ErrNotExist,
}

// summarize logs the full error chain at debug level and returns a short
// error for stderr.
func summarize(ctx context.Context, err error, cfg *runConfig) error {
	zerolog.Ctx(ctx).Debug().Err(err).Msg("run failed")

	summary := err.Error()
	for _, class := range failureClasses {
		if errors.Is(err, class) {
			summary = class.Error()
			break
		}
	}
	return &runFailure{err: err, summary: summary + hintFor(err, cfg)}
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, cfg *runConfig) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, md2overleaf.ErrConversion) &&
		(errors.Is(err, exec.ErrNotFound) || errors.Is(err, process.ErrNotFound)):
		return hints.ForMissingTool("pandoc")
	case errors.Is(err, md2overleaf.ErrUpload):
		return hints.ForUpload(cfg.uploadHost())
	case errors.Is(err, os.ErrPermission):
		return hints.ForOutputDirectory()
	}
	return ""
}
