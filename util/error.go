// Package util provides the ambient helpers shared by the configuration and
// data-modeling packages: hierarchical error accumulation, strict JSON
// structural validation, and small generic utilities.
package util

import (
	"fmt"
	"strings"
)

// ErrorLogger accumulates configuration errors with a "current hierarchy"
// prefix (e.g. "pid_group / pid_alpha / gain_table[2]") so that each
// reported error names exactly where in a nested configuration document it
// occurred.
type ErrorLogger struct {
	hierarchy []string
	errors    []string
}

func (e *ErrorLogger) Push(s string) {
	e.hierarchy = append(e.hierarchy, s)
}

func (e *ErrorLogger) Pop() {
	if len(e.hierarchy) == 0 {
		panic("util.ErrorLogger: Pop() with empty hierarchy")
	}
	e.hierarchy = e.hierarchy[:len(e.hierarchy)-1]
}

// CurrentDepth returns the current hierarchy depth, for balanced push/pop
// checks around a recursive validation call.
func (e *ErrorLogger) CurrentDepth() int {
	return len(e.hierarchy)
}

// CheckDepth panics if the hierarchy depth does not match d; intended to be
// deferred at the top of a recursive validation call to catch an unbalanced
// Push/Pop.
func (e *ErrorLogger) CheckDepth(d int) {
	if len(e.hierarchy) != d {
		panic(fmt.Sprintf("util.ErrorLogger: unbalanced Push/Pop: depth %d, expected %d",
			len(e.hierarchy), d))
	}
}

func (e *ErrorLogger) ErrorString(s string, args ...interface{}) {
	msg := fmt.Sprintf(s, args...)
	if len(e.hierarchy) > 0 {
		msg = strings.Join(e.hierarchy, " / ") + ": " + msg
	}
	e.errors = append(e.errors, msg)
}

func (e *ErrorLogger) Error(err error) {
	if err != nil {
		e.ErrorString("%v", err)
	}
}

func (e *ErrorLogger) HaveErrors() bool {
	return len(e.errors) > 0
}

func (e *ErrorLogger) Errors() []string {
	return append([]string(nil), e.errors...)
}

func (e *ErrorLogger) String() string {
	return strings.Join(e.errors, "\n")
}

// AsError returns an error wrapping all accumulated messages, or nil if
// none were recorded.
func (e *ErrorLogger) AsError() error {
	if !e.HaveErrors() {
		return nil
	}
	return fmt.Errorf("%s", e.String())
}
