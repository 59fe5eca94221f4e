package storage

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	ErrFileNotFound    = errors.New("FILE_NOT_FOUND")
	ErrInvalidFileName = errors.New("INVALID_FILE_NAME")
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// ProofStore keeps payment proof images. Names returned by Save are the only
// names Open accepts.
type ProofStore interface {
	Save(data []byte, contentType string) (string, error)
	Open(name string) ([]byte, string, error)
	Remove(name string) error
}

type FileStore struct {
	fs  afero.Fs
	dir string
}

func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

func NewOsFileStore(dir string) (ProofStore, error) {
	return NewFileStore(afero.NewOsFs(), dir)
}

func (s *FileStore) Save(data []byte, contentType string) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		ext = ".img"
	}

	name := uuid.NewString() + ext
	if err := afero.WriteFile(s.fs, path.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write proof %s: %w", name, err)
	}
	return name, nil
}

func (s *FileStore) Open(name string) ([]byte, string, error) {
	if !validName(name) {
		return nil, "", ErrInvalidFileName
	}

	data, err := afero.ReadFile(s.fs, path.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrFileNotFound
		}
		return nil, "", fmt.Errorf("read proof %s: %w", name, err)
	}

	return data, http.DetectContentType(data), nil
}

func (s *FileStore) Remove(name string) error {
	if !validName(name) {
		return ErrInvalidFileName
	}

	if err := s.fs.Remove(path.Join(s.dir, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrFileNotFound
		}
		return fmt.Errorf("remove proof %s: %w", name, err)
	}
	return nil
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, ".")
}
