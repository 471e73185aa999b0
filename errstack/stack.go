package errstack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ztrue/tracerr"
)

// Frame is one message in an ErrorStack: a short description, the
// sentinel category it wraps (for errors.Is), and the source location it
// was pushed from.
type Frame struct {
	Message  string
	Cause    error
	Location tracerr.Error
	Detail   *TopologyDetail
}

func (f Frame) String() string {
	if f.Location != nil {
		if frames := f.Location.StackTrace(); len(frames) > 0 {
			return fmt.Sprintf("%s (%s:%d)", f.Message, frames[0].Path, frames[0].Line)
		}
	}
	return f.Message
}

// ErrorStack is a chain of message Frames, innermost (first pushed) last.
// It implements the standard error interface so it composes with
// errors.Is/errors.As, and it is what every builtin and evaluator
// function in geoscript returns in place of a bare error.
type ErrorStack struct {
	frames []Frame
}

// New starts a new ErrorStack wrapping cause, with msg as its outermost
// (and, so far, only) frame. The frame's location is captured at the New
// call site via tracerr.
func New(cause error, msg string) *ErrorStack {
	return &ErrorStack{frames: []Frame{{
		Message:  msg,
		Cause:    cause,
		Location: tracerr.Wrap(fmt.Errorf("%s: %w", msg, cause)),
	}}}
}

// Newf is New with a formatted message.
func Newf(cause error, format string, args...interface{}) *ErrorStack {
	return New(cause, fmt.Sprintf(format, args...))
}

// NewTopology builds an ErrorStack for a structured check_is_manifold
// failure.
func NewTopology(detail TopologyDetail, msg string) *ErrorStack {
	es := New(ErrTopology, msg)
	es.frames[0].Detail = &detail
	return es
}

// Push adds a new outermost frame with msg as context, returning the
// receiver for chaining: callers add context as the error propagates,
// like fmt.Errorf("Func: %w", err) at each API boundary, except every
// frame remains individually inspectable.
//
// Push is a no-op (returns nil) when called on a nil *ErrorStack, so call
// sites can write `return errstack.Push(err, "while evaluating x")`
// uniformly whether err is nil or not -- callers should still check for
// nil before calling Push in the common case; this only guards against
// accidental double-wrapping of an already-nil error.
func Push(es *ErrorStack, msg string) *ErrorStack {
	if es == nil {
		return nil
	}
	es.frames = append(es.frames, Frame{
		Message:  msg,
		Cause:    es.frames[len(es.frames)-1].Cause,
		Location: tracerr.Wrap(errors.New(msg)),
	})
	return es
}

// Pushf is Push with a formatted message.
func Pushf(es *ErrorStack, format string, args...interface{}) *ErrorStack {
	return Push(es, fmt.Sprintf(format, args...))
}

// Error implements the error interface: frames are joined outermost to
// innermost on a single line, separated by ": ".
func (es *ErrorStack) Error() string {
	if es == nil || len(es.frames) == 0 {
		return "<empty ErrorStack>"
	}
	var b strings.Builder
	for i := len(es.frames) - 1; i >= 0; i-- {
		if i != len(es.frames)-1 {
			b.WriteString(": ")
		}
		b.WriteString(es.frames[i].Message)
	}
	return b.String()
}

// Unwrap exposes the innermost sentinel cause for errors.Is/errors.As.
func (es *ErrorStack) Unwrap() error {
	if es == nil || len(es.frames) == 0 {
		return nil
	}
	return es.frames[0].Cause
}

// Frames returns the stack's frames, outermost (most recently pushed)
// first, for an embedder that wants to print every step instead of the
// collapsed Error() string.
func (es *ErrorStack) Frames() []Frame {
	if es == nil {
		return nil
	}
	out := make([]Frame, len(es.frames))
	for i, f := range es.frames {
		out[len(es.frames)-1-i] = f
	}
	return out
}

// TopologyDetailOf returns the structured detail attached by NewTopology,
// and whether one was present anywhere in the stack.
func TopologyDetailOf(es *ErrorStack) (TopologyDetail, bool) {
	if es == nil {
		return TopologyDetail{}, false
	}
	for _, f := range es.frames {
		if f.Detail != nil {
			return *f.Detail, true
		}
	}
	return TopologyDetail{}, false
}
