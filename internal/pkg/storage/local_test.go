package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/files/")
	require.NoError(t, err)
	ctx := context.Background()

	p, err := s.Upload(ctx, strings.NewReader("a,b"), "exports/x/report.csv", "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "exports/x/report.csv", p)

	url, err := s.GetURL(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "/files/exports/x/report.csv", url)

	data, err := fs.ReadFile(s.FS(), p)
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))

	require.NoError(t, s.Delete(ctx, p))
	_, err = os.Stat(filepath.Join(root, "exports", "x", "report.csv"))
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, s.Delete(ctx, p), "deleting twice is fine")
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)

	for _, p := range []string{"../escape.csv", "/etc/passwd", "a/../../b", "."} {
		_, err := s.Upload(context.Background(), strings.NewReader("x"), p, "text/plain")
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestLocalStorage_Purge(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/files")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Upload(ctx, strings.NewReader("old"), "exports/old/a.csv", "text/csv")
	require.NoError(t, err)
	_, err = s.Upload(ctx, strings.NewReader("new"), "exports/new/b.csv", "text/csv")
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, "exports", "old"), past, past))

	n, err := s.Purge(ctx, "exports", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = fs.Stat(s.FS(), "exports/old/a.csv")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = fs.Stat(s.FS(), "exports/new/b.csv")
	assert.NoError(t, err)

	n, err = s.Purge(ctx, "missing", time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}
