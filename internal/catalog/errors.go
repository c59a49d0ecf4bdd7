package catalog

import (
	"fmt"
	"strings"
)

// NotFoundError indicates an unknown vehicle ID. Suggestions hold the
// closest known IDs so the caller can offer corrections.
type NotFoundError struct {
	Kind        Kind
	ID          string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q not found", e.Kind, e.ID)
	if len(e.Suggestions) > 0 {
		b.WriteString("; did you mean: ")
		b.WriteString(strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

// InvalidFilterError indicates a filter value outside the catalog's known
// values, with the closest valid values as suggestions.
type InvalidFilterError struct {
	Filter      string
	Value       string
	Suggestions []string
}

func (e *InvalidFilterError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s %q", e.Filter, e.Value)
	if len(e.Suggestions) > 0 {
		b.WriteString("; did you mean: ")
		b.WriteString(strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}
