package diff

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/kobzarvs/qcore/internal/rope"
)

// Unified renders the change from left to right as a unified diff with
// contextLines lines of context. Equal texts produce an empty string.
func Unified(left, right rope.Rope, fromName, toName string, contextLines int) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(left.String()),
		B:        difflib.SplitLines(right.String()),
		FromFile: fromName,
		ToFile:   toName,
		Context:  max(contextLines, 0),
	}
	out, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("unified diff: %w", err)
	}
	return out, nil
}
