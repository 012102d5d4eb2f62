// Package media stores post images on local disk below MEDIA_ROOT.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PostsDir is the subdirectory of the media root holding post images.
const PostsDir = "posts"

// DiskStore implements posts.ImageStore on the local filesystem
type DiskStore struct {
	logger   *slog.Logger
	root     string
	maxWidth int
}

// NewDiskStore creates the media root if needed
func NewDiskStore(root string, maxWidth int, logger *slog.Logger) (*DiskStore, error) {
	if root == "" {
		return nil, fmt.Errorf("media root is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Join(root, PostsDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &DiskStore{root: root, maxWidth: maxWidth, logger: logger}, nil
}

// Root returns the directory served under /media/
func (s *DiskStore) Root() string {
	return s.root
}

// Validate checks the header only: an accepted format within MaxPixels.
// Pixels are decoded once, by Save. The client-supplied filename is not trusted.
func (s *DiskStore) Validate(_ string, data []byte) error {
	_, err := inspect(data)
	return err
}

// Save writes the image under a fresh name and returns its path relative to the root,
// e.g. "posts/3f0c...e1.png".
func (s *DiskStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out, ext, err := prepare(data, s.maxWidth)
	if err != nil {
		return "", err
	}

	rel := PostsDir + "/" + uuid.NewString() + ext
	path := filepath.Join(s.root, filepath.FromSlash(rel))

	// Write to a temp file then rename to avoid partial files on crash
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, out, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	s.logger.Debug("image stored", "upload", filename, "path", rel, "bytes", len(out))
	return rel, nil
}

// Delete removes a stored image. Missing files are not an error.
func (s *DiskStore) Delete(_ context.Context, rel string) error {
	path, err := s.resolve(rel)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve maps a stored relative path to a file under the posts directory
func (s *DiskStore) resolve(rel string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(rel)))
	if !strings.HasPrefix(clean, PostsDir+"/") || strings.Contains(clean, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
