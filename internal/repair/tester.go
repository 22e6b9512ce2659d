// internal/repair/tester.go
package repair

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/quixfix/internal/config"
)

// TestRunner invokes the external test harness as a blocking subprocess with
// a fixed timeout. Every failure mode degrades to a sentinel string in the
// returned output: a hung or broken harness is a failed attempt, not a
// reason to abort the repair loop.
type TestRunner struct {
	logger  *zap.Logger
	rootDir string
	tester  string
	python  string
	timeout time.Duration
}

// NewTestRunner creates a runner bound to the configured harness.
func NewTestRunner(logger *zap.Logger, cfg config.RepairConfig) *TestRunner {
	return &TestRunner{
		logger:  logger.Named("test-runner"),
		rootDir: cfg.ProgramsRoot,
		tester:  cfg.TesterScript,
		python:  cfg.Python,
		timeout: cfg.TestTimeout,
	}
}

// Run executes the harness against the named file and returns its combined
// output. The harness is invoked with the file's base name and the programs
// root as working directory.
func (r *TestRunner) Run(ctx context.Context, filePath string) string {
	filename := filepath.Base(filePath)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.python, r.tester, filename)
	cmd.Dir = r.rootDir

	start := time.Now()
	out, err := cmd.CombinedOutput()
	r.logger.Debug("Test harness finished.",
		zap.String("file", filename),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("ERROR: Test execution timed out after %d seconds", int(r.timeout.Seconds()))
	}

	if err != nil {
		// A non-zero exit with output is the harness reporting failures;
		// anything else is an invocation problem.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return fmt.Sprintf("ERROR: Failed to run tests - %v", err)
		}
	}

	if strings.TrimSpace(string(out)) == "" {
		return "No test output generated"
	}
	return string(out)
}

// TestsPassed derives pass/fail from harness output: the run passed only if
// the output contains neither "FAIL" nor "ERROR", case-insensitively.
func TestsPassed(output string) bool {
	upper := strings.ToUpper(output)
	return !strings.Contains(upper, "FAIL") && !strings.Contains(upper, "ERROR")
}
