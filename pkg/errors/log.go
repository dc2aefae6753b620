package errors

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// LogHandler is an ErrorHandler that writes errors to a zerolog logger.
type LogHandler struct {
	// Verbose enables stack traces in the output.
	Verbose bool

	log zerolog.Logger
}

// NewLogHandler returns a LogHandler writing console output to w.
// A nil writer means stderr.
func NewLogHandler(w io.Writer) *LogHandler {
	if w == nil {
		w = os.Stderr
	}
	return &LogHandler{log: zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger()}
}

// NewLogHandlerFromLogger returns a LogHandler writing to an existing logger.
func NewLogHandlerFromLogger(log zerolog.Logger) *LogHandler {
	return &LogHandler{log: log}
}

// HandleError logs a ReconcileError.
func (h *LogHandler) HandleError(err *ReconcileError) {
	if err == nil {
		return
	}
	ev := h.log.Error().
		Str("op", err.Op).
		Str("kind", err.Kind.String()).
		Err(err.Err)
	if err.Fiber != "" {
		ev = ev.Str("fiber", err.Fiber)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("reconciler error")
}

// HandleComponentError logs a ComponentError.
func (h *LogHandler) HandleComponentError(err *ComponentError) {
	if err == nil {
		return
	}
	ev := h.log.Error().
		Str("component", err.Component).
		Str("phase", string(err.Phase))
	if err.Err != nil {
		ev = ev.Err(err.Err)
	} else {
		ev = ev.Interface("recovered", err.Recovered)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("component error")
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	ev := h.log.Error().Interface("value", err.Value)
	if err.Op != "" {
		ev = ev.Str("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("panic")
}
