package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler is the global error handler.
	// It defaults to a LogHandler writing to stderr.
	DefaultHandler ErrorHandler = NewLogHandler(nil)

	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h ErrorHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		DefaultHandler = NewLogHandler(nil)
	} else {
		DefaultHandler = h
	}
}

func getHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report dispatches err to the matching method of the global handler.
// Errors that are not one of this package's types are wrapped in a PanicError.
func Report(err error) {
	if err == nil {
		return
	}
	h := getHandler()
	if h == nil {
		return
	}
	var (
		re *ReconcileError
		ce *ComponentError
		pe *PanicError
	)
	switch {
	case As(err, &re):
		if re.Timestamp.IsZero() {
			re.Timestamp = time.Now()
		}
		h.HandleError(re)
	case As(err, &ce):
		if ce.Timestamp.IsZero() {
			ce.Timestamp = time.Now()
		}
		h.HandleComponentError(ce)
	case As(err, &pe):
		h.HandlePanic(pe)
	default:
		h.HandlePanic(&PanicError{Value: err, Timestamp: time.Now()})
	}
}

// Recover is a helper for deferred panic recovery at a flush boundary.
// It reports the panic and stores the resulting error in *errp when errp is
// non-nil and still holds nil.
// Usage: defer errors.Recover("platform.Queue.Flush", &err)
func Recover(op string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	err := FromRecovered(op, r)
	Report(err)
	if errp != nil && *errp == nil {
		*errp = err
	}
}

// CaptureStack returns the current call stack as a string.
// It skips the first few frames to exclude the CaptureStack call itself.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
