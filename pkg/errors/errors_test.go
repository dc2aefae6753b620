package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestReconcileErrorString(t *testing.T) {
	err := &ReconcileError{
		Op:   "core.placeChild",
		Kind: KindInvariant,
		Err:  New("no host parent"),
	}
	want := "core.placeChild [invariant]: no host parent"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestReconcileErrorWithFiber(t *testing.T) {
	err := &ReconcileError{
		Op:    "core.beginWork",
		Kind:  KindNotImplemented,
		Fiber: "HostText",
		Err:   New("unknown"),
	}
	got := err.Error()
	if !strings.Contains(got, "fiber=HostText") {
		t.Errorf("error string %q should contain fiber", got)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindNotImplemented, "not-implemented"},
		{KindInvariant, "invariant"},
		{KindInvalidChild, "invalid-child"},
		{KindHost, "host"},
		{KindComponent, "component"},
		{KindPanic, "panic"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"not implemented", NotImplemented("op", "x"), ErrNotImplemented, true},
		{"invariant", Invariant("op", "x"), ErrInvariant, true},
		{"invalid child", InvalidChild("op", 3.5), ErrInvalidChild, true},
		{"kind mismatch", Invariant("op", "x"), ErrNotImplemented, false},
		{"wrapped", fmt.Errorf("flush: %w", NotImplemented("op", "x")), ErrNotImplemented, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.target); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConstructorsCaptureStack(t *testing.T) {
	err := Invariant("core.commitPlacement", "missing parent %d", 7)
	if err.StackTrace == "" {
		t.Error("expected stack trace")
	}
	if err.Timestamp.IsZero() {
		t.Error("expected timestamp")
	}
	if got := err.Err.Error(); got != "missing parent 7" {
		t.Errorf("Err = %q, want %q", got, "missing parent 7")
	}
}

func TestComponentErrorString(t *testing.T) {
	err := &ComponentError{Component: "Counter", Phase: PhaseRender, Recovered: "boom"}
	if got, want := err.Error(), "panic in Counter (render): boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	inner := New("bad state")
	err2 := &ComponentError{Component: "Counter", Phase: PhaseCreate, Recovered: inner, Err: inner}
	if got, want := err2.Error(), "error in Counter (effect.create): bad state"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err2, inner) {
		t.Error("ComponentError should unwrap to the panicked error")
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "platform.Queue.Flush"
	if got, want := err.Error(), "panic in platform.Queue.Flush: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestFromRecovered(t *testing.T) {
	if FromRecovered("op", nil) != nil {
		t.Error("nil recovered value should yield nil")
	}

	re := Invariant("op", "x")
	if got := FromRecovered("flush", re); got != re {
		t.Errorf("ReconcileError should pass through, got %T", got)
	}

	ce := &ComponentError{Component: "A", Phase: PhaseRender}
	if got := FromRecovered("flush", ce); got != ce {
		t.Errorf("ComponentError should pass through, got %T", got)
	}

	got := FromRecovered("flush", "boom")
	pe, ok := got.(*PanicError)
	if !ok {
		t.Fatalf("expected *PanicError, got %T", got)
	}
	if pe.Op != "flush" || pe.Value != "boom" {
		t.Errorf("PanicError = %+v", pe)
	}
}

func TestReportDispatchesByType(t *testing.T) {
	var errs, comps, panics int
	handler := &testHandler{
		onError:     func(*ReconcileError) { errs++ },
		onComponent: func(*ComponentError) { comps++ },
		onPanic:     func(*PanicError) { panics++ },
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(Invariant("op", "x"))
	Report(&ComponentError{Component: "A"})
	Report(&PanicError{Value: 1})
	Report(New("plain"))
	Report(nil)

	if errs != 1 || comps != 1 || panics != 2 {
		t.Errorf("got errs=%d comps=%d panics=%d, want 1/1/2", errs, comps, panics)
	}
}

func TestReportSetsTimestamp(t *testing.T) {
	var captured *ComponentError
	handler := &testHandler{onComponent: func(err *ComponentError) { captured = err }}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&ComponentError{Component: "A"})
	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	var capturedPanic *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			capturedPanic = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	var err error
	func() {
		defer Recover("test.recover", &err)
		panic("intentional test panic")
	}()

	if capturedPanic == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if capturedPanic.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", capturedPanic.Value, "intentional test panic")
	}
	if capturedPanic.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", capturedPanic.Op, "test.recover")
	}
	if err != capturedPanic {
		t.Errorf("Recover should store the reported error, got %v", err)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if DefaultHandler == nil {
		t.Error("SetHandler(nil) should set default LogHandler, not nil")
	}
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHandler(&buf)
	h.HandleError(Invariant("core.commitPlacement", "no host parent"))
	h.HandleComponentError(&ComponentError{Component: "Counter", Phase: PhaseDestroy, Recovered: "boom"})
	h.HandlePanic(&PanicError{Op: "flush", Value: "x"})

	out := buf.String()
	for _, want := range []string{"reconciler error", "core.commitPlacement", "component error", "Counter", "panic"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
}

type testHandler struct {
	onError     func(*ReconcileError)
	onComponent func(*ComponentError)
	onPanic     func(*PanicError)
}

func (h *testHandler) HandleError(err *ReconcileError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandleComponentError(err *ComponentError) {
	if h.onComponent != nil {
		h.onComponent(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
