// internal/repair/localizer.go
package repair

import (
	"regexp"
	"strconv"
	"strings"
)

// contextRadius is the number of lines captured on each side of the fault.
const contextRadius = 5

// ErrorCategory is a descriptive label for the kind of failure seen in test
// output. Categories feed prompt construction and diagnostics only; no
// control flow branches on them.
type ErrorCategory string

const (
	CategoryIndex   ErrorCategory = "Index Error (likely off-by-one or boundary issue)"
	CategoryKey     ErrorCategory = "Key Error (missing dictionary key)"
	CategoryType    ErrorCategory = "Type Error (incorrect data type usage)"
	CategoryValue   ErrorCategory = "Value Error (invalid value)"
	CategoryName    ErrorCategory = "Name Error (undefined variable)"
	CategoryLogic   ErrorCategory = "Logic Error (incorrect algorithm behavior)"
	CategoryTimeout ErrorCategory = "Infinite Loop or Performance Issue"
	CategoryGeneral ErrorCategory = "General Error"
)

// linePatterns match "line N" style references, ordered most specific first.
// The first pattern that matches anywhere in the text wins; later patterns
// are never consulted, even if they would disagree.
var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)File "[^"]+", line (\d+)`),
	regexp.MustCompile(`(?i)Error on line (\d+)`),
	regexp.MustCompile(`(?i)at line (\d+)`),
	regexp.MustCompile(`(?i)Line (\d+):`),
	regexp.MustCompile(`(?i)line (\d+)`),
}

// categoryKeywords is the classification priority list. The first keyword
// found in the output decides the category.
var categoryKeywords = []struct {
	keyword  string
	category ErrorCategory
}{
	{"indexerror", CategoryIndex},
	{"keyerror", CategoryKey},
	{"typeerror", CategoryType},
	{"valueerror", CategoryValue},
	{"nameerror", CategoryName},
	{"assertion", CategoryLogic},
	{"infinite", CategoryTimeout},
	{"timeout", CategoryTimeout},
	{"timed out", CategoryTimeout},
}

// Localizer turns raw test output into a structured diagnosis: the fault
// line, an error category, and the enclosing function context.
type Localizer struct{}

// ExtractErrorLine returns the 1-based line number referenced by the test
// output, or 1 when no recognizable reference exists.
func (Localizer) ExtractErrorLine(output string) int {
	for _, pattern := range linePatterns {
		if m := pattern.FindStringSubmatch(output); len(m) > 1 {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
				return n
			}
		}
	}
	return 1
}

// ClassifyError scans the output for known failure keywords in priority
// order and returns the matching category, defaulting to CategoryGeneral.
func (Localizer) ClassifyError(output string) ErrorCategory {
	lower := strings.ToLower(output)
	for _, entry := range categoryKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.category
		}
	}
	return CategoryGeneral
}

// FunctionContextAt locates the function enclosing lineNo and captures a
// fixed-radius window of surrounding lines, clamped to the file bounds.
func (Localizer) FunctionContextAt(code string, lineNo int) FunctionContext {
	lines := strings.Split(code, "\n")

	fc := FunctionContext{ErrorLine: lineNo}

	// Scan upward for the nearest function header. Nothing found means the
	// fault sits in top-level code.
	start := lineNo - 1
	if start > len(lines)-1 {
		start = len(lines) - 1
	}
	for i := start; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "def ") {
			name := strings.TrimPrefix(trimmed, "def ")
			if idx := strings.Index(name, "("); idx >= 0 {
				name = name[:idx]
			}
			fc.FunctionName = strings.TrimSpace(name)
			fc.FunctionStartLine = i + 1
			break
		}
	}

	startIdx := lineNo - 1 - contextRadius
	if startIdx < 0 {
		startIdx = 0
	}
	endIdx := lineNo + contextRadius
	if endIdx > len(lines) {
		endIdx = len(lines)
	}
	if startIdx < endIdx {
		fc.ContextLines = lines[startIdx:endIdx]
	}
	fc.ContextStartLine = startIdx + 1

	return fc
}
