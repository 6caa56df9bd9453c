package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store keeps request-scoped uploads in a single directory. Every saved file
// gets a generated name, so concurrent requests never share a path.
type Store struct {
	dir    string
	logger *zap.Logger
	remove func(string) error
}

type Option func(*Store)

// WithRemoveFunc replaces os.Remove as the delete primitive.
func WithRemoveFunc(fn func(string) error) Option {
	return func(s *Store) {
		if fn != nil {
			s.remove = fn
		}
	}
}

// NewStore creates dir if it does not exist yet.
func NewStore(dir string, logger *zap.Logger, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("upload dir required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	s := &Store{dir: dir, logger: logger, remove: os.Remove}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// Save copies r into a new file. The caller owns the returned File and must
// Release it.
func (s *Store) Save(name string, r io.Reader) (*File, error) {
	base := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(base))
	path := filepath.Join(s.dir, uuid.NewString()+ext)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create upload: %w", err)
	}
	size, copyErr := io.Copy(dst, r)
	closeErr := dst.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = s.remove(path)
		return nil, fmt.Errorf("write upload: %w", err)
	}
	s.logger.Debug("upload stored", zap.String("path", path), zap.String("name", base), zap.Int64("size", size))
	return &File{
		Name:  base,
		Path:  path,
		Size:  size,
		store: s,
	}, nil
}

// File is a temporary upload. Release deletes it exactly once no matter how
// many times, or from how many goroutines, it is called.
type File struct {
	Name string
	Path string
	Size int64

	store      *Store
	once       sync.Once
	releaseErr error
}

// Open opens the stored file for reading.
func (f *File) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// Release removes the file from disk.
func (f *File) Release() error {
	f.once.Do(func() {
		err := f.store.remove(f.Path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			f.store.logger.Warn("remove upload failed", zap.String("path", f.Path), zap.Error(err))
			f.releaseErr = err
			return
		}
		f.store.logger.Debug("upload released", zap.String("path", f.Path))
	})
	return f.releaseErr
}
