package pipeline

import (
	"errors"

	"github.com/oshokin/alert-router/internal/domain/alert"
)

// ErrPersistence wraps every store failure that makes a trigger fatal.
var ErrPersistence = errors.New("alert persistence failed")

// Outcome tags a Result.
type Outcome int

const (
	// OutcomeCompleted carries an Event with at least one target room.
	OutcomeCompleted Outcome = iota + 1
	// OutcomeRejected carries the reason the trigger was dropped.
	OutcomeRejected
	// OutcomeFatal carries the persistence error.
	OutcomeFatal
)

// String returns the lower-case outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Result is what Process returns for one trigger.
type Result struct {
	Outcome Outcome
	// Reason is set for rejections, and for fatal results raised while recording a rejection.
	Reason alert.RejectReason
	// Event is set only for OutcomeCompleted.
	Event *alert.Event
	// Err is set only for OutcomeFatal and wraps ErrPersistence.
	Err error
}

func completed(event *alert.Event) Result {
	return Result{Outcome: OutcomeCompleted, Event: event}
}

func rejected(reason alert.RejectReason) Result {
	return Result{Outcome: OutcomeRejected, Reason: reason}
}

func fatal(reason alert.RejectReason, err error) Result {
	return Result{Outcome: OutcomeFatal, Reason: reason, Err: err}
}
