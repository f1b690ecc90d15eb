// Package pipeline turns one alert trigger into a routing decision.
//
// Process walks a linear state machine:
//
//	RECEIVED -> VALIDATED -> REPLAY_CHECKED -> DEDUP_CHECKED -> POLICY_EVALUATED -> COMPLETED | FAILED
//
// The intake record is persisted before validation and finalised exactly once.
// Every call returns a Result tagged Completed, Rejected or Fatal; Fatal means the
// record could not be written and the trigger must not be fanned out.
package pipeline
