package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-md2overleaf/internal/config"
	"github.com/alnah/go-md2overleaf/internal/hints"
	"github.com/alnah/go-md2overleaf/internal/process"
)

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"`
	Pandoc   toolInfo     `json:"pandoc"`
	Npx      toolInfo     `json:"npx"`
	Browser  toolInfo     `json:"browser"`
	Settings settingsInfo `json:"settings"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// toolInfo holds the detection result for one external program.
type toolInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// settingsInfo describes the settings file.
type settingsInfo struct {
	Path       string `json:"path"`
	Valid      bool   `json:"valid"`
	UploadHost string `json:"upload_host,omitempty"`
	AutoOpen   bool   `json:"auto_open"`
}

// systemInfo holds system check results.
type systemInfo struct {
	OS           string `json:"os"`
	Arch         string `json:"arch"`
	SearchPath   string `json:"search_path"`
	TempWritable bool   `json:"temp_writable"`
}

// doctorProbes are the lookups doctor performs. Replaced in tests.
type doctorProbes struct {
	runner       process.Runner
	lookPath     func(name, searchPath string) (string, error)
	browserPath  func() (string, bool)
	searchPath   string
	settingsPath string
	tempDir      string
}

func defaultProbes(env *Environment) (*doctorProbes, error) {
	ec := loadEnvConfig(env.Getenv)
	p := &doctorProbes{
		runner:       process.NewExecRunner(),
		lookPath:     process.LookPath,
		browserPath:  launcher.LookPath,
		searchPath:   firstNonEmpty(ec.SearchPath, process.DefaultSearchPathFor(runtime.GOOS)),
		settingsPath: ec.SettingsPath,
		tempDir:      os.TempDir(),
	}
	if p.settingsPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		p.settingsPath = path
	}
	return p, nil
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	jsonOutput := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return report(env, parseError(err))
	}

	probes, err := defaultProbes(env)
	if err != nil {
		return report(env, err)
	}
	result := runDoctor(ctx, probes)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks concurrently.
func runDoctor(ctx context.Context, p *doctorProbes) *doctorResult {
	result := &doctorResult{
		System: systemInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			SearchPath: p.searchPath,
		},
		Settings: settingsInfo{Path: p.settingsPath},
	}

	// Each probe owns one field of result.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Pandoc = probeTool(gctx, p, "pandoc", "--version")
		return nil
	})
	g.Go(func() error {
		result.Npx = probeTool(gctx, p, "npx", "--version")
		return nil
	})
	g.Go(func() error {
		if path, ok := p.browserPath(); ok {
			result.Browser = toolInfo{Found: true, Path: path}
		}
		return nil
	})
	g.Go(func() error {
		result.System.TempWritable = tempWritable(p.tempDir)
		return nil
	})
	var settingsErr error
	g.Go(func() error {
		s, err := config.NewStore(p.settingsPath).Load()
		if err != nil {
			settingsErr = err
			return nil
		}
		result.Settings.Valid = true
		result.Settings.UploadHost = firstNonEmpty(s.UploadHost, config.DefaultUploadHost)
		result.Settings.AutoOpen = s.AutoOpen
		return nil
	})
	_ = g.Wait()

	if !result.Pandoc.Found {
		result.Errors = append(result.Errors, "pandoc not found"+hints.ForMissingTool("pandoc"))
	}
	if !result.Npx.Found {
		result.Warnings = append(result.Warnings, "npx not found, tldraw diagrams will be skipped"+hints.ForMissingTool("npx"))
	}
	if !result.Browser.Found {
		result.Warnings = append(result.Warnings, "no Chrome/Chromium found for the browser fallback")
	}
	if settingsErr != nil {
		result.Errors = append(result.Errors, settingsErr.Error()+hints.ForSettingsParse(p.settingsPath))
	}
	if !result.System.TempWritable {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", p.tempDir))
	}

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

// probeTool locates name on the search path and asks it for its version.
func probeTool(ctx context.Context, p *doctorProbes, name, versionFlag string) toolInfo {
	path, err := p.lookPath(name, process.EffectiveSearchPath(p.searchPath))
	if err != nil {
		return toolInfo{}
	}
	info := toolInfo{Found: true, Path: path}
	stdout, _, err := p.runner.Run(ctx, process.Command{
		Name: path,
		Args: []string{versionFlag},
		Env:  process.Environ(p.searchPath),
	})
	if err == nil {
		info.Version, _, _ = strings.Cut(strings.TrimSpace(stdout), "\n")
	}
	return info
}

func tempWritable(dir string) bool {
	f, err := os.CreateTemp(dir, "md2overleaf-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2overleaf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Tools")
	printTool(w, "pandoc", r.Pandoc, "ERROR")
	printTool(w, "npx", r.Npx, "WARN")
	printTool(w, "browser", r.Browser, "WARN")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Settings")
	if r.Settings.Valid {
		fmt.Fprintf(w, "  [OK] %s\n", r.Settings.Path)
		fmt.Fprintf(w, "  [OK] Upload host: %s\n", r.Settings.UploadHost)
		fmt.Fprintf(w, "  [OK] Auto-open: %t\n", r.Settings.AutoOpen)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s\n", r.Settings.Path)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.System.OS, r.System.Arch)
	fmt.Fprintf(w, "  [OK] Search path: %s\n", firstNonEmpty(r.System.SearchPath, "inherited PATH"))
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to export")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printTool(w io.Writer, name string, t toolInfo, missing string) {
	if !t.Found {
		fmt.Fprintf(w, "  [%s] %s: not found\n", missing, name)
		return
	}
	if t.Version != "" {
		fmt.Fprintf(w, "  [OK] %s: %s (%s)\n", name, t.Path, t.Version)
		return
	}
	fmt.Fprintf(w, "  [OK] %s: %s\n", name, t.Path)
}
