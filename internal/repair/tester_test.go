package repair

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/quixfix/internal/config"
)

// newShellRunner builds a TestRunner whose "harness" is a shell script
// written into a temp directory, so tests need no Python toolchain.
func newShellRunner(t *testing.T, script string, timeout time.Duration) *TestRunner {
	t.Helper()
	rootDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "harness.sh"), []byte(script), 0o644))

	return NewTestRunner(zap.NewNop(), config.RepairConfig{
		ProgramsRoot: rootDir,
		TesterScript: "harness.sh",
		Python:       "/bin/sh",
		TestTimeout:  timeout,
	})
}

func TestTestRunnerRun(t *testing.T) {
	t.Parallel()

	t.Run("returns harness output and passes the base name", func(t *testing.T) {
		t.Parallel()
		runner := newShellRunner(t, "echo \"Testing $1: all 7 cases passed\"\n", 5*time.Second)

		out := runner.Run(context.Background(), "/some/dir/gcd.py")
		assert.Contains(t, out, "Testing gcd.py")
		assert.True(t, TestsPassed(out))
	})

	t.Run("keeps output of a failing harness exit", func(t *testing.T) {
		t.Parallel()
		runner := newShellRunner(t, "echo \"FAIL: case 3 at line 12\"\nexit 1\n", 5*time.Second)

		out := runner.Run(context.Background(), "gcd.py")
		assert.Contains(t, out, "FAIL: case 3")
		assert.False(t, TestsPassed(out))
	})

	t.Run("timeout degrades to a sentinel string", func(t *testing.T) {
		t.Parallel()
		runner := newShellRunner(t, "sleep 5\n", 100*time.Millisecond)

		out := runner.Run(context.Background(), "gcd.py")
		assert.Contains(t, out, "ERROR: Test execution timed out")
		assert.False(t, TestsPassed(out))
	})

	t.Run("invocation failure degrades to a sentinel string", func(t *testing.T) {
		t.Parallel()
		runner := newShellRunner(t, "echo unused\n", 5*time.Second)
		runner.python = "/nonexistent/interpreter"

		out := runner.Run(context.Background(), "gcd.py")
		assert.Contains(t, out, "ERROR: Failed to run tests")
		assert.False(t, TestsPassed(out))
	})

	t.Run("empty output is normalized", func(t *testing.T) {
		t.Parallel()
		runner := newShellRunner(t, "exit 0\n", 5*time.Second)

		out := runner.Run(context.Background(), "gcd.py")
		assert.Equal(t, "No test output generated", out)
	})
}

func TestTestsPassed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		output   string
		expected bool
	}{
		{"clean pass", "all 10 cases passed", true},
		{"explicit fail token", "FAIL: case 2", false},
		{"lowercase fail token", "2 tests failed", false},
		{"error token", "ZeroDivisionError: division by zero", false},
		{"lowercase error token", "error: bad input", false},
		{"empty output counts as pass", "", true},
		{"sentinel counts as failure", "ERROR: Test execution timed out after 30 seconds", false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, TestsPassed(tc.output))
		})
	}
}
