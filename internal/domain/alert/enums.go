package alert

import (
	"errors"
	"fmt"
	"strings"
)

// Origin identifies which kind of sender raised a trigger.
type Origin string

const (
	// OriginButton is a physical wall button.
	OriginButton Origin = "BUTTON"
	// OriginMobile is the mobile application.
	OriginMobile Origin = "MOBILE"
	// OriginWeb is the web console.
	OriginWeb Origin = "WEB"
	// OriginAPI is a programmatic caller such as the alert-trigger CLI.
	OriginAPI Origin = "API"
)

// Mode describes how the alert must be announced in target rooms.
type Mode string

const (
	// ModeSilent notifies staff without audible playback.
	ModeSilent Mode = "SILENT"
	// ModeAudible plays the emergency clip.
	ModeAudible Mode = "AUDIBLE"
	// ModeLockdown plays the lockdown instructions.
	ModeLockdown Mode = "LOCKDOWN"
	// ModeEvacuation plays the evacuation instructions.
	ModeEvacuation Mode = "EVACUATION"
)

// Status is the lifecycle status of a persisted alert record.
type Status string

const (
	// StatusPending is written on receipt, before any validation.
	StatusPending Status = "PENDING"
	// StatusCompleted marks an alert that produced a routing decision.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed marks an alert that was rejected or could not be processed.
	StatusFailed Status = "FAILED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Scope selects which token bucket family a rate-limit query refers to.
type Scope string

const (
	// ScopeDevice is the per-device bucket family.
	ScopeDevice Scope = "device"
	// ScopeTenant is the per-tenant bucket family.
	ScopeTenant Scope = "tenant"
)

// State is a step of the alert pipeline finite state machine.
type State string

// Pipeline states in the order a trigger walks through them.
const (
	StateReceived        State = "RECEIVED"
	StateValidated       State = "VALIDATED"
	StateReplayChecked   State = "REPLAY_CHECKED"
	StateDedupChecked    State = "DEDUP_CHECKED"
	StatePolicyEvaluated State = "POLICY_EVALUATED"
	StateCompleted       State = "COMPLETED"
	StateFailed          State = "FAILED"
)

// RejectReason explains why the pipeline dropped a trigger.
type RejectReason string

const (
	// ReasonNone is used for successful outcomes.
	ReasonNone RejectReason = ""
	// ReasonValidation is returned for missing fields or an unparsable timestamp.
	ReasonValidation RejectReason = "validation"
	// ReasonReplay is returned when the timestamp is outside the anti-replay window.
	ReasonReplay RejectReason = "replay"
	// ReasonDuplicate is returned for a trigger collapsed by the deduplicator.
	ReasonDuplicate RejectReason = "duplicate"
	// ReasonNoTargets is returned when no room is left after excluding the source room.
	ReasonNoTargets RejectReason = "no_targets"
)

// Message returns the human-readable text stored on the FAILED record.
func (r RejectReason) Message() string {
	switch r {
	case ReasonValidation:
		return "validation failed"
	case ReasonReplay:
		return "anti-replay check failed"
	case ReasonDuplicate:
		return "duplicate detected"
	case ReasonNoTargets:
		return "no target rooms"
	default:
		return string(r)
	}
}

var (
	// ErrUnknownMode is returned by ParseMode for values outside the known set.
	ErrUnknownMode = errors.New("unknown alert mode")
	// ErrUnknownOrigin is returned by ParseOrigin for values outside the known set.
	ErrUnknownOrigin = errors.New("unknown alert origin")
	// ErrUnknownScope is returned by ParseScope for values outside the known set.
	ErrUnknownScope = errors.New("unknown rate limit scope")

	// ErrNotFound is returned by stores for unknown alert ids.
	ErrNotFound = errors.New("alert not found")
	// ErrAlreadyExists is returned when an alert id was already recorded.
	ErrAlreadyExists = errors.New("alert already recorded")
	// ErrNotPending is returned when a record already reached a terminal status.
	ErrNotPending = errors.New("alert is not pending")
	// ErrNotTerminal is returned when an update targets a non-terminal status.
	ErrNotTerminal = errors.New("status is not terminal")
)

// ParseMode normalises s case-insensitively. An empty value means audible.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToUpper(strings.TrimSpace(s))); m {
	case "":
		return ModeAudible, nil
	case ModeSilent, ModeAudible, ModeLockdown, ModeEvacuation:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// ParseOrigin normalises s case-insensitively. Legacy device names map onto the
// current set: ESP32 is a button, APP is the mobile application, EDGE is the API.
func ParseOrigin(s string) (Origin, error) {
	switch o := Origin(strings.ToUpper(strings.TrimSpace(s))); o {
	case OriginButton, OriginMobile, OriginWeb, OriginAPI:
		return o, nil
	case "ESP32":
		return OriginButton, nil
	case "APP":
		return OriginMobile, nil
	case "EDGE", "":
		return OriginAPI, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOrigin, s)
	}
}

// ParseScope converts user input into a Scope.
func ParseScope(s string) (Scope, error) {
	switch sc := Scope(strings.ToLower(strings.TrimSpace(s))); sc {
	case ScopeDevice, ScopeTenant:
		return sc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}
