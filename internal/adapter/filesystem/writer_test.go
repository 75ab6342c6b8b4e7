package filesystem

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/couchcryptid/levee-files/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonldDoc(t *testing.T, name string) *output.JSONLD {
	t.Helper()
	doc := output.NewJSONLD(name)
	require.NoError(t, doc.Finalize())
	return doc
}

func TestWriter_CreatesDirAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "result")
	w := NewWriter(dir, slog.Default())

	require.NoError(t, w.Load(context.Background(), jsonldDoc(t, "levees.json")))

	data, err := os.ReadFile(filepath.Join(dir, "levees.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
	assert.Equal(t, dir, w.Dir())

	_, err = os.Stat(filepath.Join(dir, "levees.json"+tmpSuffix))
	assert.True(t, os.IsNotExist(err), "temp file should not survive")
}

func TestWriter_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "levees.json")
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0o644))

	w := NewWriter(dir, slog.Default())
	require.NoError(t, w.Load(context.Background(), jsonldDoc(t, "levees.json")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriter_UnwritableDir(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w := NewWriter(filepath.Join(blocker, "out"), slog.Default())
	err := w.Load(context.Background(), jsonldDoc(t, "levees.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmitterWrite)
}

func TestWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWriter(t.TempDir(), slog.Default())
	err := w.Load(ctx, jsonldDoc(t, "levees.json"))
	assert.ErrorIs(t, err, context.Canceled)
}
