package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps files under a directory on disk. URLs point at the
// authenticated /files route.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Root() string { return s.root }

// Path returns the file on disk for key.
func (s *LocalStore) Path(key string) (string, error) {
	return s.resolve(key)
}

func (s *LocalStore) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *LocalStore) Put(_ context.Context, key string, f File) (string, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, f.Body); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return key, out.Close()
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	dst, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(_ context.Context, key string) (string, error) {
	return "/files/" + strings.TrimPrefix(filepath.ToSlash(key), "/"), nil
}
