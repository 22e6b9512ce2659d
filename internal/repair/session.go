// internal/repair/session.go
package repair

import "github.com/google/uuid"

// FunctionContext is the structured diagnosis of the code surrounding the
// suspected fault line.
type FunctionContext struct {
	// FunctionName is the name of the enclosing function, or empty when the
	// fault sits outside any function (e.g. top-level code).
	FunctionName string
	// FunctionStartLine is the 1-based line of the enclosing function header,
	// or 0 when unknown.
	FunctionStartLine int
	// ErrorLine is the 1-based fault line this context was computed for.
	ErrorLine int
	// ContextLines is a window of source lines around ErrorLine, clamped to
	// the file bounds.
	ContextLines []string
	// ContextStartLine is the 1-based line number of ContextLines[0].
	ContextStartLine int
}

// RepairSession is the single mutable record threaded through every stage of
// the repair loop. It is created once per target, updated in place by each
// stage, and treated as immutable once the controller reaches a terminal
// state.
type RepairSession struct {
	// ID correlates all log lines of one repair run.
	ID       string
	FilePath string

	// OriginalCode is the snapshot captured at load time; it is never
	// mutated afterwards and exists solely for the final diff report.
	OriginalCode string
	// CurrentCode is the live text of the file, mutated only by a
	// successful patch application.
	CurrentCode string

	ErrorLineNo int
	PatchLine   string
	TestOutput  string
	TestsPassed bool

	Attempts    int
	MaxAttempts int

	Success bool
	// ErrorMessage is set when a stage hits a system-level failure. Once
	// set it is sticky and forces the controller into the Failure state.
	ErrorMessage string

	FunctionContext FunctionContext
}

// NewSession creates a fresh session for one repair target.
func NewSession(filePath string, maxAttempts int) *RepairSession {
	return &RepairSession{
		ID:          uuid.NewString(),
		FilePath:    filePath,
		ErrorLineNo: 1,
		MaxAttempts: maxAttempts,
	}
}

// failSystem records a system-level failure. The first message wins; later
// failures never overwrite it.
func (s *RepairSession) failSystem(msg string) {
	if s.ErrorMessage == "" {
		s.ErrorMessage = msg
	}
	s.Success = false
}
