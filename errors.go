package md2overleaf

import (
	"errors"

	"github.com/alnah/go-md2overleaf/internal/packager"
	"github.com/alnah/go-md2overleaf/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrNoDocument       = errors.New("no document")
	ErrInvalidExtension = errors.New("document is not a markdown file")
	ErrInvalidAssetsDir = errors.New("invalid assets directory")

	// Pipeline errors.
	ErrConversion    = pipeline.ErrConversion
	ErrOutputMissing = pipeline.ErrOutputMissing // also matches ErrConversion
	ErrStageBuild    = pipeline.ErrStageBuild

	// Packaging errors.
	ErrArchive = packager.ErrArchive
	ErrUpload  = packager.ErrUpload
)

// UploadError carries the paste host's reply when it is not a URL.
// It matches ErrUpload.
type UploadError = packager.UploadError

// ErrOpenBrowser indicates no browser could be launched for the deep link.
var ErrOpenBrowser = errors.New("cannot open browser")
