// internal/repair/patcher.go
package repair

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Patcher rewrites exactly one line of a source file, preserving the
// original line's indentation, and persists the result immediately. Writes
// are not transactional across attempts: there is no rollback of an earlier
// accepted candidate.
type Patcher struct {
	logger *zap.Logger
}

// NewPatcher creates a new patch applier.
func NewPatcher(logger *zap.Logger) *Patcher {
	return &Patcher{logger: logger.Named("patcher")}
}

// Apply replaces line lineNo (1-based) of code with newLine, writes the full
// result back to path, and returns the updated text. A line number outside
// [1, total lines] is a hard range error and leaves the file untouched.
func (p *Patcher) Apply(path, code string, lineNo int, newLine string) (string, error) {
	lines := splitKeepEnds(code)
	if lineNo < 1 || lineNo > len(lines) {
		return "", fmt.Errorf("line number %d is out of range (1-%d)", lineNo, len(lines))
	}

	original := lines[lineNo-1]
	indent := len(original) - len(strings.TrimLeft(original, " \t"))

	// Re-indent the candidate unless it already carries at least the
	// original leading whitespace.
	trimmed := strings.TrimSpace(newLine)
	if trimmed != "" && !strings.HasPrefix(newLine, strings.Repeat(" ", indent)) {
		newLine = strings.Repeat(" ", indent) + trimmed
	}

	// Exactly one line terminator.
	newLine = strings.TrimRight(newLine, "\r\n") + "\n"

	p.logger.Info("Applying single-line patch.",
		zap.String("path", path),
		zap.Int("line", lineNo),
		zap.String("replacement", strings.TrimSpace(newLine)),
	)

	lines[lineNo-1] = newLine
	updated := strings.Join(lines, "")

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return "", fmt.Errorf("error applying patch to %s at line %d: %w", path, lineNo, err)
	}
	return updated, nil
}

// splitKeepEnds splits code into lines that retain their terminators, the
// way bufio or Python readlines would.
func splitKeepEnds(code string) []string {
	lines := strings.SplitAfter(code, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
