package assets

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/alnah/go-md2overleaf/internal/fileutil"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the file is not found in the custom location.
type AssetResolver struct {
	custom   *FilesystemLoader // nil if no assets directory configured
	embedded Loader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// Load returns a file's content, trying the custom directory first.
func (r *AssetResolver) Load(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.Load(name)
	}

	content, err := r.custom.Load(name)
	if err == nil {
		return content, nil
	}
	// Only fall back for "not found" errors, not validation or I/O errors
	if !errors.Is(err, ErrTemplateNotFound) {
		return "", err
	}
	return r.embedded.Load(name)
}

// Materialize returns an on-disk path for the named file. A file from the
// custom directory is used in place; an embedded default is written into dir.
func (r *AssetResolver) Materialize(name, dir string) (string, error) {
	if r.custom != nil {
		path, err := r.custom.Locate(name)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, ErrTemplateNotFound) {
			return "", err
		}
	}

	content, err := r.embedded.Load(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := fileutil.WriteFile(path, content); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", ErrAssetRead, name, err)
	}
	return path, nil
}

// HasCustomLoader returns true if an assets directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ Loader = (*AssetResolver)(nil)
