// internal/repair/differ.go
package repair

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Differ renders unified diffs for the terminal reports. It runs only after
// a terminal state, so any internal failure degrades to an error string
// rather than affecting the repair outcome.
type Differ struct{}

// Unified returns a unified diff between the original and final code.
// Identical inputs yield an empty string.
func (Differ) Unified(original, final, label string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(final),
		FromFile: label + " (original)",
		ToFile:   label + " (patched)",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("Error generating diff: %v", err)
	}
	return diff
}
