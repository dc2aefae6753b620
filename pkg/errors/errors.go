// Package errors provides structured error handling for the fiber reconciler.
//
// Faults raised inside a render or commit are panics carrying one of the
// types below. Nothing in the engine recovers them; the flush boundary
// (platform.Queue.Flush, platform.Loop.Run) converts them back into errors
// with [FromRecovered] and reports them through the global [ErrorHandler].
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindNotImplemented indicates an input shape the reconciler does not model.
	KindNotImplemented
	// KindInvariant indicates a corrupted fiber tree or broken hook contract.
	KindInvariant
	// KindInvalidChild indicates a children value of an unsupported type.
	KindInvalidChild
	// KindHost indicates a failure reported by the host configuration.
	KindHost
	// KindComponent indicates a panic raised by user code in a component or effect.
	KindComponent
	// KindPanic indicates a recovered panic of unknown origin.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotImplemented:
		return "not-implemented"
	case KindInvariant:
		return "invariant"
	case KindInvalidChild:
		return "invalid-child"
	case KindHost:
		return "host"
	case KindComponent:
		return "component"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

var (
	// ErrNotImplemented matches every ReconcileError of kind KindNotImplemented.
	ErrNotImplemented = stderrors.New("not implemented")
	// ErrInvariant matches every ReconcileError of kind KindInvariant.
	ErrInvariant = stderrors.New("invariant violation")
	// ErrInvalidChild matches every ReconcileError of kind KindInvalidChild.
	ErrInvalidChild = stderrors.New("invalid child")
)

// ReconcileError is raised by the reconciler itself.
type ReconcileError struct {
	// Op is the operation that failed (e.g., "core.placeChild").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Fiber describes the fiber being processed, if any.
	Fiber string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ReconcileError) Error() string {
	if e.Fiber != "" {
		return fmt.Sprintf("%s [%s] fiber=%s: %v", e.Op, e.Kind, e.Fiber, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *ReconcileError) Is(target error) bool {
	switch target {
	case ErrNotImplemented:
		return e.Kind == KindNotImplemented
	case ErrInvariant:
		return e.Kind == KindInvariant
	case ErrInvalidChild:
		return e.Kind == KindInvalidChild
	}
	return false
}

func newReconcileError(op string, kind ErrorKind, format string, args ...any) *ReconcileError {
	return &ReconcileError{
		Op:         op,
		Kind:       kind,
		Err:        fmt.Errorf(format, args...),
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
}

// NotImplemented returns an error for an input the reconciler does not model.
func NotImplemented(op, format string, args ...any) *ReconcileError {
	return newReconcileError(op, KindNotImplemented, format, args...)
}

// Invariant returns an error for a broken internal invariant.
func Invariant(op, format string, args ...any) *ReconcileError {
	return newReconcileError(op, KindInvariant, format, args...)
}

// InvalidChild returns an error for a children value of an unsupported type.
func InvalidChild(op string, child any) *ReconcileError {
	return newReconcileError(op, KindInvalidChild, "unsupported child of type %T", child)
}

// Phase names where a component panic happened.
type Phase string

const (
	PhaseRender   Phase = "render"
	PhaseCreate   Phase = "effect.create"
	PhaseDestroy  Phase = "effect.destroy"
	PhaseDispatch Phase = "dispatch"
)

// ComponentError represents a panic raised by user code while rendering a
// component or running one of its effects.
type ComponentError struct {
	// Component is the display name of the component.
	Component string
	// Phase is where the panic happened.
	Phase Phase
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error, set when the panic value was an error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ComponentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error in %s (%s): %v", e.Component, e.Phase, e.Err)
	}
	return fmt.Sprintf("panic in %s (%s): %v", e.Component, e.Phase, e.Recovered)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "platform.Queue.Flush").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// FromRecovered converts a recovered panic value into an error. Typed
// reconciler and component errors are returned unchanged; anything else is
// wrapped in a PanicError for op.
func FromRecovered(op string, r any) error {
	switch v := r.(type) {
	case nil:
		return nil
	case *ReconcileError:
		return v
	case *ComponentError:
		return v
	case *PanicError:
		return v
	}
	return &PanicError{
		Op:         op,
		Value:      r,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
}

// Is, As, New and Join forward to the standard library so callers need a
// single errors import.
var (
	Is   = stderrors.Is
	As   = stderrors.As
	New  = stderrors.New
	Join = stderrors.Join
)

// ErrorHandler receives errors reported at the flush boundary.
type ErrorHandler interface {
	// HandleError is called for reconciler faults.
	HandleError(err *ReconcileError)
	// HandleComponentError is called when a component or effect panics.
	HandleComponentError(err *ComponentError)
	// HandlePanic is called when any other panic is recovered.
	HandlePanic(err *PanicError)
}
