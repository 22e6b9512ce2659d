// internal/repair/controller.go
package repair

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// failureTailBudget bounds the raw test output echoed in the failure report.
const failureTailBudget = 300

// State identifies a stage of the repair state machine.
type State string

const (
	StateLoad     State = "load"
	StateLocalize State = "localize"
	StateGenerate State = "generate"
	StateApply    State = "apply"
	StateValidate State = "validate"
	StateSuccess  State = "success"
	StateFailure  State = "failure"
)

// Controller sequences the repair stages as an explicit finite-state
// machine, owns the retry budget, and decides Success or Failure. All
// collaborators are injected once at construction.
type Controller struct {
	logger  *zap.Logger
	store   SourceStore
	tests   TestOracle
	oracle  PatchOracle
	patcher PatchApplier
	differ  DiffReporter
	loc     Localizer
	out     io.Writer
}

// NewController wires up a controller with its collaborators. Terminal
// reports are written to out.
func NewController(logger *zap.Logger, store SourceStore, tests TestOracle, oracle PatchOracle, patcher PatchApplier, differ DiffReporter, out io.Writer) *Controller {
	return &Controller{
		logger:  logger.Named("repair-controller"),
		store:   store,
		tests:   tests,
		oracle:  oracle,
		patcher: patcher,
		differ:  differ,
		out:     out,
	}
}

// Run drives the session from Load to a terminal state and returns it. The
// loop is strictly bounded by the session's MaxAttempts; there is no
// unbounded retry path. Stages never propagate errors upward: system
// failures land in the session's sticky error field and route to Failure.
func (c *Controller) Run(ctx context.Context, s *RepairSession) *RepairSession {
	c.logger.Info("Starting repair session.",
		zap.String("session_id", s.ID),
		zap.String("file", s.FilePath),
		zap.Int("max_attempts", s.MaxAttempts),
	)

	state := StateLoad
	for {
		switch state {
		case StateLoad:
			c.load(s)
		case StateLocalize:
			c.localize(ctx, s)
		case StateGenerate:
			c.generate(ctx, s)
		case StateApply:
			c.apply(s)
		case StateValidate:
			c.validate(ctx, s)
		case StateSuccess:
			c.finishSuccess(s)
			return s
		case StateFailure:
			c.finishFailure(s)
			return s
		}
		state = c.next(state, s)
	}
}

// next is the transition table. A sticky system error short-circuits to
// Failure from any stage; the Validate decision implements the bounded
// retry loop.
func (c *Controller) next(state State, s *RepairSession) State {
	if s.ErrorMessage != "" {
		return StateFailure
	}

	switch state {
	case StateLoad:
		return StateLocalize
	case StateLocalize:
		return StateGenerate
	case StateGenerate:
		return StateApply
	case StateApply:
		return StateValidate
	case StateValidate:
		if s.TestsPassed {
			return StateSuccess
		}
		if s.Attempts >= s.MaxAttempts {
			return StateFailure
		}
		return StateGenerate
	default:
		return StateFailure
	}
}

// -- Stages --

// load captures the immutable original snapshot and seeds the live copy.
func (c *Controller) load(s *RepairSession) {
	code, err := c.store.Load(s.FilePath)
	if err != nil {
		s.failSystem(fmt.Sprintf("Failed to load code: %v", err))
		return
	}
	s.OriginalCode = code
	s.CurrentCode = code
}

// localize runs the harness and derives the structured diagnosis.
func (c *Controller) localize(ctx context.Context, s *RepairSession) {
	output := c.tests.Run(ctx, s.FilePath)
	s.TestOutput = output
	s.TestsPassed = TestsPassed(output)
	s.ErrorLineNo = c.loc.ExtractErrorLine(output)
	s.FunctionContext = c.loc.FunctionContextAt(s.CurrentCode, s.ErrorLineNo)

	c.logger.Info("Defect localized.",
		zap.String("session_id", s.ID),
		zap.Int("error_line", s.ErrorLineNo),
		zap.String("category", string(c.loc.ClassifyError(output))),
		zap.String("function", s.FunctionContext.FunctionName),
		zap.Bool("tests_passed", s.TestsPassed),
	)
}

// generate consumes one attempt and asks the oracle for a candidate line.
func (c *Controller) generate(ctx context.Context, s *RepairSession) {
	s.Attempts++
	patch, err := c.oracle.Generate(ctx, s)
	if err != nil {
		s.failSystem(fmt.Sprintf("Failed to generate patch: %v", err))
		return
	}
	s.PatchLine = patch
}

// apply rewrites the fault line and persists the file.
func (c *Controller) apply(s *RepairSession) {
	updated, err := c.patcher.Apply(s.FilePath, s.CurrentCode, s.ErrorLineNo, s.PatchLine)
	if err != nil {
		s.failSystem(fmt.Sprintf("Failed to apply patch: %v", err))
		return
	}
	s.CurrentCode = updated
}

// validate re-runs the harness against the patched file. The diagnosis from
// localize is deliberately not recomputed; each attempt targets the
// originally identified line.
func (c *Controller) validate(ctx context.Context, s *RepairSession) {
	output := c.tests.Run(ctx, s.FilePath)
	s.TestOutput = output
	s.TestsPassed = TestsPassed(output)
}

// -- Terminal handlers --

func (c *Controller) finishSuccess(s *RepairSession) {
	s.Success = true
	diff := c.differ.Unified(s.OriginalCode, s.CurrentCode, filepath.Base(s.FilePath))

	c.logger.Info("Repair successful.",
		zap.String("session_id", s.ID),
		zap.String("file", s.FilePath),
		zap.Int("attempts", s.Attempts),
	)

	banner := strings.Repeat("=", 60)
	fmt.Fprintf(c.out, "\n%s\nREPAIR SUCCESSFUL\n%s\n", banner, banner)
	fmt.Fprintf(c.out, "File:       %s\n", s.FilePath)
	fmt.Fprintf(c.out, "Attempts:   %d\n", s.Attempts)
	fmt.Fprintf(c.out, "Error Line: %d\n", s.ErrorLineNo)
	fmt.Fprintf(c.out, "\nFinal Patch Applied:\n  Line %d: %s\n", s.ErrorLineNo, strings.TrimSpace(s.PatchLine))
	fmt.Fprintf(c.out, "\nUnified Diff:\n%s\n%s\n", diff, banner)
}

func (c *Controller) finishFailure(s *RepairSession) {
	s.Success = false
	category := c.loc.ClassifyError(s.TestOutput)

	c.logger.Warn("Repair failed.",
		zap.String("session_id", s.ID),
		zap.String("file", s.FilePath),
		zap.Int("attempts", s.Attempts),
		zap.String("category", string(category)),
		zap.String("system_error", s.ErrorMessage),
	)

	banner := strings.Repeat("=", 60)
	fmt.Fprintf(c.out, "\n%s\nREPAIR FAILED\n%s\n", banner, banner)
	fmt.Fprintf(c.out, "File:       %s\n", s.FilePath)
	fmt.Fprintf(c.out, "Attempts:   %d/%d\n", s.Attempts, s.MaxAttempts)
	fmt.Fprintf(c.out, "Error Line: %d\n", s.ErrorLineNo)
	fmt.Fprintf(c.out, "Error Type: %s\n", category)
	fmt.Fprintf(c.out, "\nLast Error Output:\n%s\n", tail(s.TestOutput, failureTailBudget))

	if s.ErrorMessage != "" {
		fmt.Fprintf(c.out, "\nSystem Error: %s\n", s.ErrorMessage)
	}

	fmt.Fprint(c.out, "\nSuggested Manual Investigation:\n")
	fmt.Fprint(c.out, "- Check for off-by-one errors in loops and array access\n")
	fmt.Fprint(c.out, "- Verify boundary conditions and edge cases\n")
	fmt.Fprint(c.out, "- Look for incorrect operators (==, !=, <, <=, >, >=)\n")
	fmt.Fprint(c.out, "- Check variable initialization and scope\n")
	fmt.Fprintf(c.out, "%s\n", banner)
}
