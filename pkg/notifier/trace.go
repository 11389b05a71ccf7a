// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package notifier

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

const (
	// maxTraceDepth stops the cause walk on pathological or cyclic chains.
	maxTraceDepth = 64
	// maxCallerFrames bounds the stack captured for errors without one.
	maxCallerFrames = 32
)

// notifierPkg prefixes the function names of this package in stack frames.
var notifierPkg = reflect.TypeOf(Notifier{}).PkgPath() + "."

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// FormatTrace renders err and every cause reachable through Unwrap, outer
// to inner, as "<type>: <message>" lines followed by one "\tat" line per
// stack frame when the error carries a github.com/pkg/errors stack.
func FormatTrace(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	writeTrace(&b, err, "", 0)
	return b.String()
}

func writeTrace(b *strings.Builder, err error, prefix string, depth int) {
	if depth >= maxTraceDepth {
		b.WriteString(prefix)
		b.WriteString("...\n")
		return
	}
	err, stack := unfold(err)

	b.WriteString(prefix)
	b.WriteString(TypeName(err))
	b.WriteString(": ")
	b.WriteString(err.Error())
	b.WriteString("\n")
	for _, f := range stack {
		writeFrame(b, f)
	}

	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, cause := range u.Unwrap() {
			if !isNilError(cause) {
				writeTrace(b, cause, "Caused by: ", depth+1)
			}
		}
	case interface{ Unwrap() error }:
		if cause := u.Unwrap(); !isNilError(cause) {
			writeTrace(b, cause, "Caused by: ", depth+1)
		}
	}
}

// unfold skips wrappers that only attach a stack (errors.WithStack) and
// returns the wrapped error together with the nearest stack trace.
func unfold(err error) (error, errors.StackTrace) {
	var stack errors.StackTrace
	for i := 0; i < maxTraceDepth; i++ {
		st, ok := err.(stackTracer)
		if !ok {
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		cause := u.Unwrap()
		if isNilError(cause) || cause.Error() != err.Error() {
			break
		}
		stack = st.StackTrace()
		err = cause
	}
	if st, ok := err.(stackTracer); ok {
		stack = st.StackTrace()
	}
	return err, stack
}

func writeFrame(b *strings.Builder, f errors.Frame) {
	name, file, _ := strings.Cut(fmt.Sprintf("%+s", f), "\n\t")
	fmt.Fprintf(b, "\tat %s (%s:%d)\n", name, file, f)
}

// TypeName returns the dynamic Go type of err, looking through wrappers
// that only attach a stack trace.
func TypeName(err error) string {
	if err == nil {
		return "<nil>"
	}
	err, _ = unfold(err)
	return fmt.Sprintf("%T", err)
}

// isNilError reports whether err is nil or a typed nil such as a nil
// pointer stored in an error interface.
func isNilError(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// callerStack attaches the stack of the code reporting err to an error
// that carries no stack itself.
type callerStack struct {
	error
	stack errors.StackTrace
}

func (c *callerStack) Unwrap() error { return c.error }

func (c *callerStack) StackTrace() errors.StackTrace { return c.stack }

// withCallerStack returns err unchanged when any error in its chain already
// carries a stack trace. Otherwise it attaches the current stack, starting
// at the first frame outside this package's reporting entry points.
func withCallerStack(err error) error {
	var st stackTracer
	if errors.As(err, &st) {
		return err
	}
	return &callerStack{error: err, stack: callers()}
}

func callers() errors.StackTrace {
	pcs := make([]uintptr, maxCallerFrames)
	n := runtime.Callers(2, pcs)
	stack := make(errors.StackTrace, 0, n)
	leading := true
	for _, pc := range pcs[:n] {
		if leading && isReportingFrame(pc) {
			continue
		}
		leading = false
		stack = append(stack, errors.Frame(pc))
	}
	return stack
}

// isReportingFrame matches the notifier's own entry points, which would
// otherwise head every captured stack.
func isReportingFrame(pc uintptr) bool {
	fn := runtime.FuncForPC(pc - 1)
	if fn == nil {
		return false
	}
	name, ok := strings.CutPrefix(fn.Name(), notifierPkg)
	if !ok {
		return false
	}
	return strings.HasPrefix(name, "(*Notifier).") ||
		name == "HandleException" ||
		name == "withCallerStack" ||
		name == "callers"
}
