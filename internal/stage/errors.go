// Package stage defines the error taxonomy shared by every step of the
// driver acquisition pipeline.
//
// Each failure is reported as a *Error that records which stage failed, what
// kind of failure it was, and the command or URL involved. Callers match on
// the kind with errors.Is:
//
//	if errors.Is(err, stage.ErrRegistry) {
//	    // registry answered but the answer was unusable
//	}
//
// The wrapped cause stays reachable as well, so errors.Is(err,
// context.DeadlineExceeded) still works for timeouts.
package stage

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds.
var (
	// ErrUnsupportedPlatform means no introspection procedure exists for the
	// OS and browser combination.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrProcess means the introspection command could not be started or
	// produced no output.
	ErrProcess = errors.New("process error")
	// ErrIntrospection means output was captured but held no version.
	ErrIntrospection = errors.New("introspection error")
	// ErrNetwork covers transport failures: DNS, TLS, resets, timeouts.
	ErrNetwork = errors.New("network error")
	// ErrRegistry means the registry was reachable but the response was unusable.
	ErrRegistry = errors.New("registry error")
	// ErrFilesystem means the destination could not be created or written.
	ErrFilesystem = errors.New("filesystem error")
)

// Stage names a step of the pipeline.
type Stage string

const (
	Platform Stage = "platform"
	Version  Stage = "version"
	Release  Stage = "release"
	Artifact Stage = "artifact"
)

// String returns the stage name.
func (s Stage) String() string {
	return string(s)
}

// Error is a pipeline failure.
type Error struct {
	Stage  Stage
	Kind   error  // one of the Err* sentinels
	Target string // command line or URL involved, may be empty
	Err    error  // underlying cause, may be nil
}

// New creates a stage error.
func New(s Stage, kind error, target string, cause error) *Error {
	return &Error{Stage: s, Kind: kind, Target: target, Err: cause}
}

// Error formats as "stage: kind: target: cause", omitting empty parts.
func (e *Error) Error() string {
	parts := []string{string(e.Stage)}
	if e.Kind != nil {
		parts = append(parts, e.Kind.Error())
	}
	if e.Target != "" {
		parts = append(parts, e.Target)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Of returns the stage that produced err, or "" if err is not a stage error.
func Of(err error) Stage {
	var se *Error
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// KindOf returns the failure kind of err, or nil if err is not a stage error.
func KindOf(err error) error {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return nil
}

// Errorf is shorthand for New with a formatted cause.
func Errorf(s Stage, kind error, target, format string, args ...any) *Error {
	return New(s, kind, target, fmt.Errorf(format, args...))
}
