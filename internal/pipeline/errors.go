package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline stages.
var (
	// ErrConversion indicates pandoc failed or its input could not be prepared.
	ErrConversion = errors.New("pandoc conversion failed")

	// ErrOutputMissing indicates pandoc exited cleanly without writing output.
	// It also matches ErrConversion.
	ErrOutputMissing = fmt.Errorf("%w: output file missing", ErrConversion)

	// ErrStageBuild indicates the staging tree could not be assembled.
	ErrStageBuild = errors.New("staging failed")

	// ErrDiagramExport indicates a diagram could not be rasterized.
	// It is logged and never returned by exported functions.
	ErrDiagramExport = errors.New("diagram export failed")
)
