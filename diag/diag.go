// Package diag accumulates the diagnostics of a single compilation.
//
// A compilation never stops at the first problem it finds. Every check
// records into a Context and the caller decides what to do once the
// compilation has returned.
package diag

import (
	"errors"
	"fmt"
)

type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Location identifies the input element a diagnostic originates from.
type Location interface {
	String() string
}

type Diagnostic struct {
	Severity Severity
	Message  string
	Location Location
}

func (d Diagnostic) Error() string {
	if d.Location == nil {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}

// Context is owned by exactly one compilation and is not safe for
// concurrent use.
type Context struct {
	diagnostics []Diagnostic
	errors      int
}

func NewContext() *Context {
	return &Context{}
}

func (c *Context) Errorf(loc Location, format string, args ...any) {
	c.add(Error, loc, fmt.Sprintf(format, args...))
}

func (c *Context) Warnf(loc Location, format string, args ...any) {
	c.add(Warning, loc, fmt.Sprintf(format, args...))
}

func (c *Context) add(sev Severity, loc Location, msg string) {
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: sev,
		Message:  msg,
		Location: loc,
	})
	if sev == Error {
		c.errors++
	}
}

// Failed reports whether at least one error has been recorded.
func (c *Context) Failed() bool {
	return c.errors > 0
}

// Diagnostics returns a copy of everything recorded so far, in order.
func (c *Context) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Err joins all recorded errors. Warnings are not included.
func (c *Context) Err() error {
	return Join(c.diagnostics)
}

// Join returns the errors among diagnostics as a single error, or nil.
func Join(diagnostics []Diagnostic) error {
	var errs []error
	for _, d := range diagnostics {
		if d.Severity == Error {
			errs = append(errs, d)
		}
	}
	return errors.Join(errs...)
}
