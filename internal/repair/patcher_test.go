package repair

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeTempProgram(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPatcherApply(t *testing.T) {
	t.Parallel()
	patcher := NewPatcher(zap.NewNop())

	t.Run("replaces the targeted line in place", func(t *testing.T) {
		t.Parallel()
		code := "def f(x):\n    return x - 1\n"
		path := writeTempProgram(t, code)

		updated, err := patcher.Apply(path, code, 2, "    return x + 1")
		require.NoError(t, err)
		assert.Equal(t, "def f(x):\n    return x + 1\n", updated)

		onDisk, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, updated, string(onDisk))
	})

	t.Run("reindents a bare candidate to the original width", func(t *testing.T) {
		t.Parallel()
		code := "def f(x):\n        return x - 1\n"
		path := writeTempProgram(t, code)

		updated, err := patcher.Apply(path, code, 2, "return x + 1")
		require.NoError(t, err)
		assert.Equal(t, "def f(x):\n        return x + 1\n", updated)
	})

	t.Run("keeps candidate indentation when already sufficient", func(t *testing.T) {
		t.Parallel()
		code := "def f(x):\n  return x\n"
		path := writeTempProgram(t, code)

		updated, err := patcher.Apply(path, code, 2, "      return x + 1")
		require.NoError(t, err)
		assert.Equal(t, "def f(x):\n      return x + 1\n", updated)
	})

	t.Run("guarantees exactly one line terminator", func(t *testing.T) {
		t.Parallel()
		code := "a = 1\nb = 2\n"
		path := writeTempProgram(t, code)

		updated, err := patcher.Apply(path, code, 1, "a = 3\n\n")
		require.NoError(t, err)
		assert.Equal(t, "a = 3\nb = 2\n", updated)
	})

	t.Run("counts tab indentation toward the width", func(t *testing.T) {
		t.Parallel()
		code := "def f(x):\n\treturn x - 1\n"
		path := writeTempProgram(t, code)

		updated, err := patcher.Apply(path, code, 2, "return x + 1")
		require.NoError(t, err)
		assert.Equal(t, "def f(x):\n return x + 1\n", updated)
	})

	t.Run("handles a file without trailing newline", func(t *testing.T) {
		t.Parallel()
		code := "a = 1\nb = 2"
		path := writeTempProgram(t, code)

		updated, err := patcher.Apply(path, code, 2, "b = 3")
		require.NoError(t, err)
		assert.Equal(t, "a = 1\nb = 3\n", updated)
	})

	t.Run("rejects out-of-range line numbers without touching the file", func(t *testing.T) {
		t.Parallel()
		code := "a = 1\nb = 2\n"
		path := writeTempProgram(t, code)

		for _, lineNo := range []int{0, -1, 3, 100} {
			_, err := patcher.Apply(path, code, lineNo, "c = 3")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "out of range")
		}

		onDisk, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, code, string(onDisk))
	})
}

func TestSplitKeepEnds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a\n", "b\n"}, splitKeepEnds("a\nb\n"))
	assert.Equal(t, []string{"a\n", "b"}, splitKeepEnds("a\nb"))
	assert.Empty(t, splitKeepEnds(""))
}
