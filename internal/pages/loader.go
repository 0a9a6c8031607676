package pages

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrPageUnavailable reports a page that could not be read.
var ErrPageUnavailable = errors.New("pages: page unavailable")

// Loader reads HTML pages from a directory on every request so content can
// be edited without a restart.
type Loader struct {
	basePath string
}

// NewLoader roots a Loader at basePath. The directory need not exist yet.
func NewLoader(basePath string) (*Loader, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("pages: base path is required")
	}
	return &Loader{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (l *Loader) BasePath() string {
	if l == nil {
		return ""
	}
	return l.basePath
}

// Read returns the bytes of the page stored under name.
func (l *Loader) Read(ctx context.Context, name string) ([]byte, error) {
	if l == nil {
		return nil, ErrPageUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleanKey, err := sanitizeKey(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(l.basePath, filepath.FromSlash(cleanKey)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPageUnavailable, cleanKey)
		}
		return nil, fmt.Errorf("%w: %v", ErrPageUnavailable, err)
	}
	return data, nil
}

// sanitizeKey normalizes a key and prevents escaping the page root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("pages: name is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.ToSlash(filepath.Clean(key))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("pages: invalid name")
	}
	return cleaned, nil
}
