// Package upload stores product images on local disk and serves them under
// a public URL prefix.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	// DefaultMaxSize caps a single image at 5 MiB.
	DefaultMaxSize = 5 << 20
	// URLPrefix is where stored images are served from.
	URLPrefix = "/uploads"

	sniffLen = 3072
)

var (
	ErrMissingFile     = errors.New("image file is required")
	ErrUnsupportedType = errors.New("unsupported image type, allowed: JPEG, PNG, WebP")
	ErrTooLarge        = errors.New("image too large, max size is 5 MB")
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

// Store writes images into Dir.
type Store struct {
	Dir     string
	MaxSize int64

	now func() time.Time
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir, MaxSize: DefaultMaxSize, now: time.Now}, nil
}

// Save checks the content of r, writes it under a unique sanitised name and
// returns the public path ("/uploads/<file>").
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read image: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", ErrMissingFile
	}
	if !allowed(mimetype.Detect(head)) {
		return "", ErrUnsupportedType
	}

	name := fmt.Sprintf("%d_%s_%s", s.now().Unix(), uuid.NewString()[:8], SecureFilename(filename))
	dest := filepath.Join(s.Dir, name)
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(io.MultiReader(bytes.NewReader(head), r), s.maxSize()+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		os.Remove(dest)
		return "", fmt.Errorf("write image: %w", err)
	case written > s.maxSize():
		os.Remove(dest)
		return "", ErrTooLarge
	case closeErr != nil:
		os.Remove(dest)
		return "", fmt.Errorf("close image: %w", closeErr)
	}
	return URLPrefix + "/" + name, nil
}

// Remove deletes a file previously returned by Save. Paths outside the
// upload prefix are ignored.
func (s *Store) Remove(publicPath string) error {
	if !strings.HasPrefix(publicPath, URLPrefix+"/") {
		return nil
	}
	name := filepath.Base(publicPath)
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) maxSize() int64 {
	if s.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return s.MaxSize
}

func allowed(m *mimetype.MIME) bool {
	for _, t := range allowedTypes {
		if m.Is(t) {
			return true
		}
	}
	return false
}

// SecureFilename strips directories and every character except letters,
// digits, '_', '-' and '.'.
func SecureFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		}
		return -1
	}, base)
	safe = strings.TrimLeft(safe, ".")
	if safe == "" {
		return "image"
	}
	return safe
}
