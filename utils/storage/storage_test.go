package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/penoFahmi/e-arsip-sub000/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textFile(name, body string) File {
	return File{Name: name, ContentType: "application/pdf", Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestLocalStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStore(filepath.Join(root, "arsip"))
	require.NoError(t, err)

	key, err := store.Put(ctx, "surat-masuk/2025/a.pdf", textFile("a.pdf", "isi surat"))
	require.NoError(t, err)
	assert.Equal(t, "surat-masuk/2025/a.pdf", key)

	p, err := store.Path(key)
	require.NoError(t, err)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "isi surat", string(b))

	url, err := store.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/files/surat-masuk/2025/a.pdf", url)

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))
	// hapus ulang tidak error
	assert.NoError(t, store.Delete(ctx, key))
}

func TestLocalStoreStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)

	p, err := store.Path("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, root))
	assert.Equal(t, filepath.Join(root, "etc", "passwd"), p)
}

func TestCheckExtensionAndNewKey(t *testing.T) {
	assert.NoError(t, CheckExtension("scan.PDF"))
	assert.NoError(t, CheckExtension("foto.jpeg"))
	assert.ErrorIs(t, CheckExtension("macro.docm"), ErrUnsupportedFile)
	assert.ErrorIs(t, CheckExtension("tanpa-ekstensi"), ErrUnsupportedFile)

	key := NewKey("surat-masuk", "Scan Surat.PDF")
	year := time.Now().Format("2006")
	assert.True(t, strings.HasPrefix(key, "surat-masuk/"+year+"/"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)
	assert.NotEqual(t, key, NewKey("surat-masuk", "Scan Surat.PDF"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.URL(ctx, "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	key, err := store.Put(ctx, "k.pdf", textFile("k.pdf", "x"))
	require.NoError(t, err)
	url, err := store.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "memory://k.pdf", url)
	assert.Equal(t, 1, store.Len())

	store.FailPut = true
	_, err = store.Put(ctx, "l.pdf", textFile("l.pdf", "y"))
	assert.Error(t, err)
	assert.False(t, store.Has("l.pdf"))

	require.NoError(t, store.Delete(ctx, key))
	assert.Equal(t, 0, store.Len())
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	s, err := New(context.Background(), config.StorageConfig{Driver: config.StorageLocal, LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)
}
