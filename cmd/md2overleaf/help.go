package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2overleaf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Upload a markdown note to Overleaf")
	fmt.Fprintln(w, "  copy       Copy the LaTeX of a markdown note")
	fmt.Fprintln(w, "  settings   Show or change upload host and auto-open")
	fmt.Fprintln(w, "  doctor     Check pandoc, npx and system setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2overleaf help <command>' for details on a specific command.")
}

func printDocumentFlags(w io.Writer) {
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "  -r, --root <dir>          Root for image references (default: nearest .obsidian vault)")
	fmt.Fprintln(w, "      --assets-dir <dir>    Overrides for config.tex, main.tex, final_filter.lua")
	fmt.Fprintln(w, "  -t, --timeout <d>         Abort after this duration, e.g. 2m (default: none)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -s, --settings <path>     Settings file")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug log")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2OVERLEAF_SETTINGS, MD2OVERLEAF_UPLOAD_HOST, MD2OVERLEAF_ASSETS_DIR,")
	fmt.Fprintln(w, "  MD2OVERLEAF_ROOT, MD2OVERLEAF_PATH (PATH for pandoc and npx)")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2overleaf export <note.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a note with pandoc, zip it with its images and templates,")
	fmt.Fprintln(w, "upload the zip and open it in Overleaf. The link is printed on stdout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Upload:")
	fmt.Fprintln(w, "      --upload-host <url>   Paste host receiving the zip")
	fmt.Fprintln(w, "      --no-open             Print the link without opening a browser")
	fmt.Fprintln(w)
	printDocumentFlags(w)
}

// printCopyUsage prints usage for the copy command.
func printCopyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2overleaf copy <note.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a note and copy the final LaTeX to the clipboard.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --stdout              Print the LaTeX instead of copying it")
	fmt.Fprintln(w)
	printDocumentFlags(w)
}

// printSettingsUsage prints usage for the settings command.
func printSettingsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2overleaf settings <action> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Actions:")
	fmt.Fprintln(w, "  show                      Print the current settings")
	fmt.Fprintln(w, "  set <key> <value>         Set upload-host (URL) or auto-open (true/false)")
	fmt.Fprintln(w, "  reset                     Restore the defaults")
	fmt.Fprintln(w, "  path                      Print the settings file location")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -s, --settings <path>     Settings file")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2overleaf doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check pandoc, npx, browser, settings and temp directory.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "copy":
		printCopyUsage(env.Stdout)
	case "settings":
		printSettingsUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2overleaf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2overleaf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
