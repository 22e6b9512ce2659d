package repair

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileStoreLoad(t *testing.T) {
	t.Parallel()
	store := NewFileStore(zap.NewNop())

	t.Run("returns file contents verbatim", func(t *testing.T) {
		t.Parallel()
		code := "def f(x):\n    return x\n"
		path := filepath.Join(t.TempDir(), "f.py")
		require.NoError(t, os.WriteFile(path, []byte(code), 0o644))

		got, err := store.Load(path)
		require.NoError(t, err)
		assert.Equal(t, code, got)
	})

	t.Run("missing file names the path", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "absent.py")

		_, err := store.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not find file")
		assert.Contains(t, err.Error(), path)
	})

	t.Run("unreadable target reports a read error", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		_, err := store.Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading file")
	})
}
