package packager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultEndpoint is used when no upload host is configured.
const DefaultEndpoint = "https://x0.at"

// maxResponseSize bounds the paste host's reply.
const maxResponseSize = 32 << 20

// ErrUpload indicates the archive could not be uploaded.
var ErrUpload = errors.New("upload failed")

// UploadError carries the paste host's reply when it is not a URL.
// It matches ErrUpload.
type UploadError struct {
	Status int
	Body   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed (HTTP %d): %s", e.Status, strings.TrimSpace(e.Body))
}

// Is reports whether target is ErrUpload.
func (e *UploadError) Is(target error) bool {
	return target == ErrUpload
}

// Uploader posts archives to a paste host as multipart/form-data.
type Uploader struct {
	endpoint string
	client   *http.Client
}

// NewUploader creates an Uploader for host. Trailing slashes are dropped
// and an empty host means DefaultEndpoint. A nil client means
// http.DefaultClient.
func NewUploader(host string, client *http.Client) *Uploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Uploader{endpoint: NormalizeEndpoint(host), client: client}
}

// NormalizeEndpoint trims whitespace and trailing slashes from host.
func NormalizeEndpoint(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return DefaultEndpoint
	}
	return host
}

// Endpoint returns the normalized upload URL.
func (u *Uploader) Endpoint() string {
	return u.endpoint
}

// Upload sends the archive in the "file" form field and returns the URL the
// host replied with. The reply, trimmed, must start with "http"; its first
// whitespace-separated token is the URL. Any other reply yields an
// *UploadError holding the raw body.
func (u *Uploader) Upload(ctx context.Context, archivePath string) (string, error) {
	log := zerolog.Ctx(ctx).With().
		Str("component", "packager/Uploader.Upload").
		Str("endpoint", u.endpoint).
		Logger()

	body, contentType, err := multipartBody(archivePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	req.Header.Set("Content-Type", contentType)

	log.Info().Str("archive", filepath.Base(archivePath)).Int("bytes", body.Len()).Msg("uploading archive")
	res, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	defer res.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUpload, err)
	}
	if len(reply) > maxResponseSize {
		return "", fmt.Errorf("%w: response exceeds %d bytes", ErrUpload, maxResponseSize)
	}

	archiveURL, ok := ParseUploadResponse(string(reply))
	if !ok {
		return "", &UploadError{Status: res.StatusCode, Body: string(reply)}
	}
	log.Debug().Int("status", res.StatusCode).Str("url", archiveURL).Msg("upload accepted")
	return archiveURL, nil
}

// ParseUploadResponse extracts the archive URL from a paste host reply.
func ParseUploadResponse(reply string) (string, bool) {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "http") {
		return "", false
	}
	return strings.Fields(trimmed)[0], true
}

func multipartBody(archivePath string) (*bytes.Buffer, string, error) {
	f, err := os.Open(archivePath) // #nosec G304 -- archive path is generated by Archive
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(archivePath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
