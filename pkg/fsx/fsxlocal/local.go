package fsxlocal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/aiwriter/pkg/fsx"
)

// LocalFileSystem stores files under a base directory and exposes them
// through a public URL prefix served by the HTTP layer.
type LocalFileSystem struct {
	basePath  string
	publicURL string
}

// NewLocalFileSystem creates basePath if needed. publicURL is the prefix
// files are reachable under, e.g. "http://localhost:8080/files".
func NewLocalFileSystem(basePath, publicURL string) (*LocalFileSystem, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	return &LocalFileSystem{
		basePath:  abs,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (l *LocalFileSystem) BasePath() string {
	return l.basePath
}

func (l *LocalFileSystem) fullPath(p string) (string, string, error) {
	clean, err := fsx.Clean(p)
	if err != nil {
		return "", "", err
	}
	return clean, filepath.Join(l.basePath, filepath.FromSlash(clean)), nil
}

func (l *LocalFileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	clean, full, err := l.fullPath(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fsx.NotFound(clean)
		}
		return nil, fsx.Failure(fsx.ErrReadFailed, clean, err)
	}
	return data, nil
}

func (l *LocalFileSystem) Exists(ctx context.Context, p string) (bool, error) {
	clean, full, err := l.fullPath(p)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fsx.Failure(fsx.ErrReadFailed, clean, err)
	}
	return !info.IsDir(), nil
}

// WriteFile writes atomically through a temp file in the target directory.
// The content type is implied by the extension when served.
func (l *LocalFileSystem) WriteFile(ctx context.Context, p string, data []byte, contentType string) error {
	clean, full, err := l.fullPath(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fsx.Failure(fsx.ErrWriteFailed, clean, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".tmp-*")
	if err != nil {
		return fsx.Failure(fsx.ErrWriteFailed, clean, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fsx.Failure(fsx.ErrWriteFailed, clean, err)
	}
	if err := tmp.Close(); err != nil {
		return fsx.Failure(fsx.ErrWriteFailed, clean, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fsx.Failure(fsx.ErrWriteFailed, clean, err)
	}
	return nil
}

func (l *LocalFileSystem) DeleteDir(ctx context.Context, dir string) error {
	clean, full, err := l.fullPath(dir)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(full); err != nil {
		return fsx.Failure(fsx.ErrDeleteFailed, clean, err)
	}
	return nil
}

func (l *LocalFileSystem) URL(ctx context.Context, p string) (string, error) {
	clean, err := fsx.Clean(p)
	if err != nil {
		return "", err
	}
	return l.publicURL + "/" + clean, nil
}
