package book

import (
	"fmt"
	"strings"
)

// Severity classifies a validation finding.
type Severity string

const (
	// SeverityError aborts parsing or generation.
	SeverityError Severity = "error"
	// SeverityWarning is collected but non-fatal; the document is still
	// produced so a human can inspect and hand-correct it.
	SeverityWarning Severity = "warning"
)

// ValidationError is a single finding collected during parsing or
// generation.
type ValidationError struct {
	Severity Severity
	Message  string
}

func (v ValidationError) String() string {
	return fmt.Sprintf("%s: %s", v.Severity, v.Message)
}

// Diagnostics accumulates validation findings for one parse or generate
// call. The core holds no process-wide state; every entry belongs to
// the call that produced it.
type Diagnostics struct {
	entries []ValidationError
}

// Errorf records an error-severity finding.
func (d *Diagnostics) Errorf(format string, args ...any) {
	d.entries = append(d.entries, ValidationError{
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warnf records a warning-severity finding.
func (d *Diagnostics) Warnf(format string, args ...any) {
	d.entries = append(d.entries, ValidationError{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Entries returns all findings in collection order.
func (d *Diagnostics) Entries() []ValidationError {
	return d.entries
}

// Warnings returns the warning-severity findings in collection order.
func (d *Diagnostics) Warnings() []ValidationError {
	var out []ValidationError
	for _, e := range d.entries {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}

// HasErrors reports whether any error-severity finding was collected.
func (d *Diagnostics) HasErrors() bool {
	for _, e := range d.entries {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns a *ParseError aggregating all error-severity findings, or
// nil if none were collected.
func (d *Diagnostics) Err() error {
	var errs []ValidationError
	for _, e := range d.entries {
		if e.Severity == SeverityError {
			errs = append(errs, e)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ParseError{Errors: errs}
}

// ParseError aggregates every error-severity finding of one call.
type ParseError struct {
	Errors []ValidationError
}

func (e *ParseError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, v := range e.Errors {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("%d validation error(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}
