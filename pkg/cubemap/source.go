package cubemap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/df07/go-cubemap-sh/pkg/loaders"
)

// ErrNotDirectory is returned when a cubemap path is not a directory
var ErrNotDirectory = errors.New("cubemap: not a directory")

// FaceSource provides the decoded pixels of each cubemap face. LoadFace is
// called concurrently for different faces.
type FaceSource interface {
	LoadFace(ctx context.Context, face Face) (*loaders.ImageData, error)
}

// FaceSourceFunc adapts a function to the FaceSource interface
type FaceSourceFunc func(ctx context.Context, face Face) (*loaders.ImageData, error)

// LoadFace implements FaceSource
func (f FaceSourceFunc) LoadFace(ctx context.Context, face Face) (*loaders.ImageData, error) {
	return f(ctx, face)
}

// DirectorySource loads faces from px.<ext>, nx.<ext>, ... in a directory
type DirectorySource struct {
	Dir       string
	Extension string
}

// NewDirectorySource validates that dir is a directory
func NewDirectorySource(dir, extension string) (*DirectorySource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cubemap path %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrNotDirectory, dir)
	}
	if extension == "" {
		extension = "hdr"
	}
	return &DirectorySource{Dir: dir, Extension: extension}, nil
}

// Path returns the file path of a face image
func (s *DirectorySource) Path(face Face) string {
	return filepath.Join(s.Dir, face.FileName(s.Extension))
}

// LoadFace implements FaceSource
func (s *DirectorySource) LoadFace(ctx context.Context, face Face) (*loaders.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path(face)
	img, err := loaders.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("face %s (%s): %w", face, path, err)
	}
	return img, nil
}
