// Package fsx abstracts the artifact store used for generated images and
// documents. Paths are slash separated and relative to the store root.
package fsx

import (
	"context"
	"path"
	"strings"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
)

// FileReader provides read access.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileWriter stores data with an explicit content type.
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte, contentType string) error
}

// FileDeleter removes files.
type FileDeleter interface {
	// DeleteDir removes every file under dir. Missing dirs are not an error.
	DeleteDir(ctx context.Context, dir string) error
}

// URLResolver turns a stored path into a URL a client can fetch.
type URLResolver interface {
	URL(ctx context.Context, path string) (string, error)
}

// FileSystem combines all store operations.
type FileSystem interface {
	FileReader
	FileWriter
	FileDeleter
	URLResolver
}

var fsxErrors = errx.NewRegistry("FSX")

var (
	ErrNotFound     = fsxErrors.Register("NOT_FOUND", errx.TypeNotFound, 404, "File not found")
	ErrInvalidPath  = fsxErrors.Register("INVALID_PATH", errx.TypeValidation, 400, "Invalid file path")
	ErrWriteFailed  = fsxErrors.Register("WRITE_FAILED", errx.TypeInternal, 500, "Failed to write file")
	ErrReadFailed   = fsxErrors.Register("READ_FAILED", errx.TypeInternal, 500, "Failed to read file")
	ErrDeleteFailed = fsxErrors.Register("DELETE_FAILED", errx.TypeInternal, 500, "Failed to delete file")
	ErrURLFailed    = fsxErrors.Register("URL_FAILED", errx.TypeInternal, 500, "Failed to resolve file URL")
)

func NotFound(p string) *errx.Error {
	return fsxErrors.New(ErrNotFound).WithDetail("path", p)
}

func InvalidPath(p string) *errx.Error {
	return fsxErrors.New(ErrInvalidPath).WithDetail("path", p)
}

func Failure(code *errx.ErrorCode, p string, cause error) *errx.Error {
	return fsxErrors.NewWithCause(code, cause).WithDetail("path", p)
}

// Clean normalizes p and rejects absolute paths or paths escaping the root.
func Clean(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" || strings.HasPrefix(p, "/") {
		return "", InvalidPath(p)
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", InvalidPath(p)
	}
	return cleaned, nil
}

// ContentType guesses a MIME type from the file extension.
func ContentType(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".html":
		return "text/html; charset=utf-8"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// ExtensionFor returns a file extension for a MIME type.
func ExtensionFor(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
