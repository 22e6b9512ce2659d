package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/quixfix/internal/config"
)

// setupPrograms points the package config at a temp programs tree. The cfg
// variable is package state, so these tests do not run in parallel.
func setupPrograms(t *testing.T, names ...string) string {
	t.Helper()

	root := t.TempDir()
	programsDir := filepath.Join(root, "python_programs")
	require.NoError(t, os.MkdirAll(programsDir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(programsDir, name), []byte("x = 1\n"), 0o644))
	}

	prev := cfg
	t.Cleanup(func() { cfg = prev })

	cfg = config.NewDefaultConfig()
	cfg.Repair.ProgramsRoot = root
	return programsDir
}

func TestResolveProgram(t *testing.T) {
	programsDir := setupPrograms(t, "gcd.py", "quicksort.py")

	t.Run("bare name gets the source suffix", func(t *testing.T) {
		got, err := resolveProgram("gcd")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(programsDir, "gcd.py"), got)
	})

	t.Run("full name is accepted as-is", func(t *testing.T) {
		got, err := resolveProgram("quicksort.py")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(programsDir, "quicksort.py"), got)
	})

	t.Run("unknown program lists what is available", func(t *testing.T) {
		_, err := resolveProgram("knapsack")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "knapsack.py not found")
		assert.Contains(t, err.Error(), "gcd.py, quicksort.py")
	})
}

func TestResolveProgramMissingDirectory(t *testing.T) {
	setupPrograms(t)
	cfg.Repair.ProgramsRoot = filepath.Join(t.TempDir(), "absent")

	_, err := resolveProgram("gcd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListPrograms(t *testing.T) {
	programsDir := setupPrograms(t, "b.py", "a.py", "notes.txt")
	require.NoError(t, os.MkdirAll(filepath.Join(programsDir, "subdir.py"), 0o755))

	names, err := listPrograms(programsDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", "b.py"}, names)
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "repair")
	assert.Contains(t, names, "batch")
	assert.Equal(t, Version, root.Version)
}
