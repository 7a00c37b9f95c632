package validation

import (
	"sort"
	"strings"
)

// Error collects field-level validation failures for one input payload.
// Handlers unwrap it with errors.As to render per-field messages.
type Error struct {
	Fields map[string]string
}

// NewError returns an empty validation error ready to collect fields.
func NewError() *Error {
	return &Error{Fields: make(map[string]string)}
}

// Add records a failure message for a field. The first message wins.
func (e *Error) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// Empty reports whether any failure has been recorded.
func (e *Error) Empty() bool {
	return len(e.Fields) == 0
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, message := range e.Fields {
		parts = append(parts, field+": "+message)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}
