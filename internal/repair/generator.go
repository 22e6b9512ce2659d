// internal/repair/generator.go
package repair

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/quixfix/api/schemas"
	"github.com/xkilldash9x/quixfix/internal/config"
)

// outputTailBudget bounds how much raw test output goes into the prompt.
const outputTailBudget = 500

const repairSystemPrompt = `You are an expert Python debugging assistant specializing in algorithmic bug fixes. You respond with exactly one corrected line of code and nothing else.`

// PatchGenerator builds a bounded repair prompt from the session diagnosis,
// queries the generative oracle, and sanitizes its free-form reply into a
// single candidate replacement line.
type PatchGenerator struct {
	logger      *zap.Logger
	llm         schemas.LLMClient
	loc         Localizer
	temperature float64
}

// NewPatchGenerator creates a generator backed by the given LLM client.
func NewPatchGenerator(logger *zap.Logger, llm schemas.LLMClient, cfg config.LLMConfig) *PatchGenerator {
	return &PatchGenerator{
		logger:      logger.Named("patch-generator"),
		llm:         llm,
		temperature: cfg.Temperature,
	}
}

// Generate produces one sanitized candidate line for the session's fault.
// An oracle failure is a system-level error; it is not retried here. Retries
// happen only at the controller level via a whole new attempt.
func (g *PatchGenerator) Generate(ctx context.Context, s *RepairSession) (string, error) {
	prompt := g.buildPrompt(s)

	response, err := g.llm.Generate(ctx, schemas.GenerationRequest{
		SystemPrompt: repairSystemPrompt,
		UserPrompt:   prompt,
		Options:      schemas.GenerationOptions{Temperature: g.temperature},
	})
	if err != nil {
		return "", fmt.Errorf("LLM generation failed: %w", err)
	}

	candidate := sanitizeCandidate(response)
	g.logger.Info("Patch candidate generated.",
		zap.String("session_id", s.ID),
		zap.Int("attempt", s.Attempts),
		zap.String("candidate", strings.TrimSpace(candidate)),
	)
	return candidate, nil
}

// buildPrompt assembles the repair prompt: function label, error category, a
// numbered code window with the fault line marked, the tail of the test
// output, and the attempt number.
func (g *PatchGenerator) buildPrompt(s *RepairSession) string {
	functionLabel := "Code section"
	if s.FunctionContext.FunctionName != "" {
		functionLabel = fmt.Sprintf("Function '%s'", s.FunctionContext.FunctionName)
	}

	category := g.loc.ClassifyError(s.TestOutput)
	window := renderWindow(s.FunctionContext)

	return fmt.Sprintf(`CONTEXT:
- %s
- Error Type: %s
- This is attempt #%d

FAULTY CODE (line %d marked with >>>):
`+"```python"+`
%s
`+"```"+`

TEST FAILURE OUTPUT:
`+"```"+`
%s
`+"```"+`

INSTRUCTIONS:
1. Analyze the error carefully - this is likely a small algorithmic defect
2. Common issues: off-by-one errors, wrong operators, incorrect boundary conditions, missing edge cases
3. Focus on the EXACT line marked with >>> - provide only the corrected version of that line
4. Maintain the same indentation and code style
5. Do not add explanations, comments, or multiple lines

RESPONSE FORMAT:
Provide ONLY the corrected line %d with proper indentation:`,
		functionLabel, category, s.Attempts,
		s.ErrorLineNo, window,
		tail(s.TestOutput, outputTailBudget),
		s.ErrorLineNo)
}

// renderWindow formats the context window with 1-based line numbers and a
// ">>>" marker on the fault line.
func renderWindow(fc FunctionContext) string {
	var b strings.Builder
	for i, line := range fc.ContextLines {
		num := fc.ContextStartLine + i
		marker := "    "
		if num == fc.ErrorLine {
			marker = ">>> "
		}
		fmt.Fprintf(&b, "%s%3d: %s\n", marker, num, line)
	}
	return strings.TrimRight(b.String(), "\n")
}

// sanitizeCandidate reduces a free-form oracle reply to a single usable
// line: the first non-empty line that is not a markdown fence. Leading
// indentation of that line is preserved for the patch applier.
func sanitizeCandidate(response string) string {
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "```") {
			continue
		}
		return strings.TrimRight(line, " \t\r")
	}
	return ""
}

// tail returns the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
