package services

import (
	"context"
	"fmt"

	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
)

// Object key prefixes per attachment kind.
const (
	PrefixScan         = "surat-masuk"
	PrefixTindakLanjut = "tindak-lanjut"
	PrefixSuratKeluar  = "surat-keluar"
	PrefixBukti        = "bukti-terima"
)

func checkUploads(field string, files []storage.File, fields map[string]string) {
	for _, f := range files {
		if err := storage.CheckExtension(f.Name); err != nil {
			fields[field] = err.Error()
			return
		}
	}
}

// putFiles stores every file and returns their paths. On failure the files
// already stored are removed again.
func putFiles(ctx context.Context, store storage.Store, prefix string, files []storage.File) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p, err := store.Put(ctx, storage.NewKey(prefix, f.Name), f)
		if err != nil {
			removeFiles(ctx, store, paths...)
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func putFile(ctx context.Context, store storage.Store, prefix string, f *storage.File) (string, error) {
	if f == nil {
		return "", nil
	}
	paths, err := putFiles(ctx, store, prefix, []storage.File{*f})
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// removeFiles deletes stored objects best effort; failures are only logged.
func removeFiles(ctx context.Context, store storage.Store, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := store.Delete(ctx, p); err != nil {
			logger.App().WithError(err).WithField("path", p).Warn("failed to remove stored file")
		}
	}
}
