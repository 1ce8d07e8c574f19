package main

import (
	"errors"
	"os"

	md2overleaf "github.com/alnah/go-md2overleaf"
	"github.com/alnah/go-md2overleaf/internal/config"
)

// Exit codes for the md2overleaf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Export or copy finished
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, settings, or arguments
	ExitIO         = 3 // Note not found, permission denied, clipboard
	ExitConversion = 4 // pandoc or staging failed
	ExitUpload     = 5 // Archiving or upload failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, md2overleaf.ErrConversion) ||
		errors.Is(err, md2overleaf.ErrStageBuild) {
		return ExitConversion
	}

	if errors.Is(err, md2overleaf.ErrArchive) ||
		errors.Is(err, md2overleaf.ErrUpload) {
		return ExitUpload
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, md2overleaf.ErrInvalidExtension) ||
		errors.Is(err, md2overleaf.ErrInvalidAssetsDir) ||
		errors.Is(err, config.ErrSettingsParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidUploadHost) ||
		errors.Is(err, config.ErrUnknownKey) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitUsage
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2overleaf.ErrNoDocument) ||
		errors.Is(err, ErrClipboard) {
		return ExitIO
	}

	return ExitGeneral
}
