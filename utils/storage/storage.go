package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/penoFahmi/e-arsip-sub000/config"
)

var (
	ErrUnsupportedFile = errors.New("file must be a PDF or an image (pdf, jpg, jpeg, png)")
	ErrObjectNotFound  = errors.New("stored object not found")
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// File is an upload handed to a Store.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store persists uploaded files and returns the path to keep in the database.
type Store interface {
	Put(ctx context.Context, key string, f File) (string, error)
	Delete(ctx context.Context, path string) error
	URL(ctx context.Context, path string) (string, error)
}

// FromFileHeader opens a multipart upload. The caller closes the returned closer.
func FromFileHeader(fh *multipart.FileHeader) (File, io.Closer, error) {
	src, err := fh.Open()
	if err != nil {
		return File{}, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        src,
	}, src, nil
}

// CheckExtension rejects anything that is not a PDF or image.
func CheckExtension(name string) error {
	if !allowedExtensions[strings.ToLower(filepath.Ext(name))] {
		return ErrUnsupportedFile
	}
	return nil
}

// NewKey builds a unique object key such as surat-masuk/2025/<uuid>.pdf.
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(prefix, fmt.Sprint(time.Now().Year()), uuid.NewString()+ext)
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.StorageLocal:
		return NewLocalStore(cfg.LocalDir)
	case config.StorageS3, "":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
