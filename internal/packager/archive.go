package packager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"

	"github.com/alnah/go-md2overleaf/internal/fileutil"
)

// ErrArchive indicates the staging tree could not be zipped.
var ErrArchive = errors.New("archive creation failed")

// Archive zips every regular file under stageDir into outDir/<uuid>.zip and
// returns the archive path. Entry names are forward-slash paths relative to
// stageDir. A partial archive is removed on failure.
func Archive(ctx context.Context, stageDir, outDir string) (_ string, err error) {
	log := zerolog.Ctx(ctx).With().Str("component", "packager/Archive").Logger()

	if err := os.MkdirAll(outDir, fileutil.DirPerm); err != nil {
		return "", fmt.Errorf("%w: %v", ErrArchive, err)
	}
	name := filepath.Join(outDir, uuid.NewString()+".zip")

	f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, fileutil.FilePerm) // #nosec G304 -- name is generated
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrArchive, err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.Remove(name); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				log.Warn().Err(rmErr).Str("path", name).Msg("removing partial archive")
			}
		}
	}()

	z := zip.NewWriter(f)
	z.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	count := 0
	walkErr := filepath.WalkDir(stageDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(stageDir, p)
		if err != nil {
			return err
		}
		count++
		return addFile(z, p, filepath.ToSlash(rel))
	})

	closeZipErr := z.Close()
	closeFileErr := f.Close()
	if err := errors.Join(walkErr, closeZipErr, closeFileErr); err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchive, err)
	}

	log.Debug().Str("path", name).Int("files", count).Msg("archive written")
	return name, nil
}

func addFile(z *zip.Writer, src, name string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := z.CreateHeader(hdr)
	if err != nil {
		return err
	}
	in, err := os.Open(src) // #nosec G304 -- src is inside the staging directory
	if err != nil {
		return err
	}
	defer in.Close()

	_, err = io.Copy(w, in)
	return err
}
