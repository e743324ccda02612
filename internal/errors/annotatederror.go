// Package errors provides error annotation with structured logging attributes.
// It re-exports the stdlib helpers so call sites only need one errors import.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

// annotatedError carries a message, an optional wrapped cause, slog attributes
// and the source location where it was created.
type annotatedError struct {
	msg    string
	err    error
	attrs  []slog.Attr
	source string
}

// NewSentinel creates an error suitable for package-level sentinel values.
func NewSentinel(msg string) error {
	return &annotatedError{
		msg:    msg,
		source: callerSource(1),
	}
}

// Wrap annotates err with a message and slog attributes. The attributes
// surface in logs through [SlogError]. A nil err is allowed for convenience.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    msg,
		err:    err,
		attrs:  attrs,
		source: callerSource(1),
	}
}

// DecoratePanic converts a recovered panic value into an error whose source
// location points at the panic site.
func DecoratePanic(excp any) error {
	return &annotatedError{
		msg:    fmt.Sprintf("panic: %v", excp),
		source: panicSource(),
	}
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	cause := e.err.Error()
	if cause == "" {
		return e.msg
	}
	return e.msg + ": " + cause
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// SlogError renders err as a grouped slog attribute with the accumulated
// annotations and the source location of the deepest annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}
	attrs := []slog.Attr{slog.String("message", err.Error())}
	var (
		annotations []slog.Attr
		source      string
	)
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		var annotated *annotatedError
		if annotated, _ = e.(*annotatedError); annotated == nil {
			continue
		}
		annotations = append(annotations, annotated.attrs...)
		if annotated.source != "" {
			source = annotated.source
		}
	}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Attr{Key: "annotations", Value: slog.GroupValue(annotations...)})
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Attr{Key: "error", Value: slog.GroupValue(attrs...)}
}

// callerSource returns the file:line of the caller skip frames up the stack.
func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// panicSource walks past runtime.gopanic to find the frame that panicked.
func panicSource() string {
	var pcs [32]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	seenPanic := false
	for {
		frame, more := frames.Next()
		if seenPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
		if frame.Function == "runtime.gopanic" {
			seenPanic = true
		}
		if !more {
			return ""
		}
	}
}

// Stdlib re-exports.

func New(text string) error {
	return stderrors.New(text)
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
