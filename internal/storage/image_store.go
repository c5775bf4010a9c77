// Package storage keeps uploaded product images on the local filesystem
// under the public images directory.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultImage is the placeholder every product starts with. It is shared
// across products and must never be deleted.
const DefaultImage = "default.jpg"

// FileInfo is the metadata returned to the client after an upload.
type FileInfo struct {
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
}

// ImageStore writes and removes image files inside a single directory.
type ImageStore struct {
	dir string
}

// NewImageStore creates the directory if needed and returns a store
// rooted at it.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Save writes the uploaded content under a fresh uuid-based name, keeping
// the original extension, and returns the stored file's metadata.
func (s *ImageStore) Save(r io.Reader, originalName, mimeType string) (*FileInfo, error) {
	fileName := uuid.New().String() + filepath.Ext(originalName)

	f, err := os.Create(filepath.Join(s.dir, fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write image file: %w", err)
	}

	return &FileInfo{
		FileName:     fileName,
		OriginalName: originalName,
		Size:         size,
		MimeType:     mimeType,
	}, nil
}

// Remove deletes an image by name. Empty names, the default placeholder
// and already-missing files are all no-ops.
func (s *ImageStore) Remove(fileName string) error {
	if fileName == "" || fileName == DefaultImage {
		return nil
	}

	// Names arrive from stored records or request payloads; strip any path
	// component so removal cannot escape the images directory.
	err := os.Remove(filepath.Join(s.dir, filepath.Base(fileName)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	return nil
}
