package validate

import (
	"fmt"
	"strings"
)

// Issue codes surfaced by the rule evaluator.
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeLength        = "length"
	CodePattern       = "pattern"
	CodeInvalidFormat = "invalid_format"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeNotInteger    = "not_integer"
	CodeNotMultiple   = "not_multiple"
	CodeDateBounds    = "date_bounds"
	CodeMustAccept    = "must_accept"
)

// Issue is a single validation entry keyed by a dotted field path.
type Issue struct {
	Path    string
	Code    string
	Message string
	// Params carries structured parameters ({"min": 1, "max": 10}) for i18n
	// and observability.
	Params map[string]any
}

// Issues is a collection of validation entries that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(iss)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// ByPath indexes issues by their dotted path, keeping the first message per
// field. Later issues for the same path lose, matching fail-closed rule
// ordering.
func (iss Issues) ByPath() map[string]string {
	if len(iss) == 0 {
		return nil
	}
	out := make(map[string]string, len(iss))
	for _, it := range iss {
		if _, exists := out[it.Path]; exists {
			continue
		}
		out[it.Path] = it.Message
	}
	return out
}
