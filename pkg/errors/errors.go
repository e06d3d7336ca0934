// Package errors provides structured error reporting for the Easel toolkit.
//
// Scheduler internals never abort on a misbehaving task callback; they
// deactivate the task and hand a structured diagnostic to the global
// [Handler]. Applications can install their own handler via [SetHandler]
// to surface diagnostics in their own telemetry.
package errors

import (
	"fmt"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindTask indicates a failure inside a task's advance or reset callback.
	KindTask
	// KindDelay indicates an invalid delay returned by a task.
	KindDelay
	// KindDecode indicates a frame decoding failure.
	KindDecode
	// KindRender indicates a render sink failure.
	KindRender
	// KindConfig indicates invalid configuration.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindDelay:
		return "delay"
	case KindDecode:
		return "decode"
	case KindRender:
		return "render"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the Easel toolkit.
type Error struct {
	// Op is the operation that failed (e.g., "schedule.Tick").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// TaskID is the scheduler task involved, if applicable.
	TaskID string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("%s [%s] task=%s: %v", e.Op, e.Kind, e.TaskID, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "schedule.advance").
	Op string
	// TaskID is the scheduler task whose callback panicked, if applicable.
	TaskID string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	switch {
	case e.Op != "" && e.TaskID != "":
		return fmt.Sprintf("panic in %s task=%s: %v", e.Op, e.TaskID, e.Value)
	case e.Op != "":
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	default:
		return fmt.Sprintf("panic: %v", e.Value)
	}
}
