// Package storage keeps uploaded venue images on the local file system.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the public path under which stored images are served.
const URLPrefix = "/images/"

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// ErrUnsupportedImage is returned for file names without an image extension.
var ErrUnsupportedImage = errors.New("unsupported image type")

// Images writes files into Dir under random names.
type Images struct {
	Dir string
}

func NewImages(dir string) (*Images, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Images{Dir: dir}, nil
}

// Save stores r as <uuid><ext>, keeping the extension of the uploaded file
// name, and returns the public path.
func (s *Images) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExt[ext] {
		return "", ErrUnsupportedImage
	}
	name := uuid.NewString() + ext
	f, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return URLPrefix + name, nil
}

// Remove deletes the file behind a public path. Paths outside URLPrefix
// and files that are already gone are ignored.
func (s *Images) Remove(publicPath string) error {
	if !strings.HasPrefix(publicPath, URLPrefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(publicPath, URLPrefix))
	err := os.Remove(filepath.Join(s.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
