package provisioning

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies why a run stopped.
type Kind string

// Error kinds.
const (
	KindConfig       Kind = "config"
	KindPrivilege    Kind = "privilege"
	KindExecution    Kind = "execution"
	KindVerification Kind = "verification"
	KindAborted      Kind = "aborted"
)

// Error is a run failure with its kind and, for execution failures, the
// phase that failed.
type Error struct {
	Kind Kind
	Step string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConfig:
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	case KindPrivilege:
		return fmt.Sprintf("insufficient privileges: %v", e.Err)
	case KindVerification:
		return fmt.Sprintf("verification failed: %v", e.Err)
	case KindAborted:
		if e.Step != "" {
			return fmt.Sprintf("aborted during %s: %v", e.Step, e.Err)
		}
		return fmt.Sprintf("aborted: %v", e.Err)
	default:
		if e.Step != "" {
			return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
		}
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with a kind.
func NewError(kind Kind, step string, err error) *Error {
	return &Error{Kind: kind, Step: step, Err: err}
}

// KindOf returns the kind carried by err. Errors without a kind are
// execution errors.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindExecution
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Kind == kind
}

// stepError attributes err to a phase, keeping an existing kind.
func stepError(step string, err error) error {
	var perr *Error
	if errors.As(err, &perr) {
		if perr.Step == "" {
			perr.Step = step
		}
		return err
	}
	if errors.Is(err, context.Canceled) {
		return NewError(KindAborted, step, err)
	}
	return NewError(KindExecution, step, err)
}
