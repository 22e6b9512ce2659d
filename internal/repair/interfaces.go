// internal/repair/interfaces.go
package repair

import "context"

// SourceStore reads the program text of the file under repair.
type SourceStore interface {
	// Load returns the full text of the file at path.
	Load(path string) (string, error)
}

// TestOracle runs the external test harness against the current state of a
// file and returns its raw combined output. Harness-level problems (timeouts,
// invocation failures) are folded into the returned text as sentinel error
// strings rather than surfaced as errors; they are domain signals, not
// system faults.
type TestOracle interface {
	Run(ctx context.Context, filePath string) string
}

// PatchOracle builds a repair prompt from the session diagnosis, calls the
// generative oracle, and sanitizes the reply into a single candidate
// replacement line.
type PatchOracle interface {
	Generate(ctx context.Context, s *RepairSession) (string, error)
}

// PatchApplier rewrites exactly one line of the given code, persists the
// result to path, and returns the updated text.
type PatchApplier interface {
	Apply(path, code string, lineNo int, newLine string) (string, error)
}

// DiffReporter produces a human-readable unified diff between the original
// and final code. It is reporting-only: internal failures degrade to an
// error string instead of propagating.
type DiffReporter interface {
	Unified(original, final, label string) string
}
