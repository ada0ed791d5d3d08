package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes uploads under a base directory that the server exposes
// via static file serving. References are URL paths under baseURL.
type LocalStore struct {
	baseDir string
	baseURL string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates a disk-backed store rooted at baseDir.
func NewLocalStore(baseDir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes the stream to baseDir/folder/<uuid><ext> and returns the URL
// path it will be served from.
func (s *LocalStore) Save(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (string, error) {
	dir := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}

	name := uuid.New().String() + filepath.Ext(filename)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.baseURL + path.Join("/", folder, name), nil
}

// Remove maps the reference back to a path under baseDir and deletes it.
// References outside baseURL are ignored.
func (s *LocalStore) Remove(ctx context.Context, ref string) error {
	rel, ok := strings.CutPrefix(ref, s.baseURL+"/")
	if !ok {
		return nil
	}
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}
	return os.Remove(filepath.Join(s.baseDir, rel))
}
