package alert

import (
	"slices"
	"time"
)

// Trigger is an inbound alert request raised by a button, the app, or an API caller.
// Fields are kept as received; the pipeline validates them.
type Trigger struct {
	// AlertID is globally unique and assigned by the caller.
	AlertID string `json:"alertId"`
	// TenantID is the organisation owning the building.
	TenantID string `json:"tenantId"`
	// BuildingID is the building the trigger was raised in.
	BuildingID string `json:"buildingId"`
	// SourceRoomID is the room where danger originated. It is never alerted.
	SourceRoomID string `json:"sourceRoomId"`
	// SourceDeviceID is the device that raised the trigger.
	SourceDeviceID string `json:"sourceDeviceId"`
	// DeviceID is the legacy name of SourceDeviceID still sent by older firmware.
	DeviceID string `json:"deviceId,omitempty"`
	// Origin is the kind of sender.
	Origin string `json:"origin"`
	// Mode is the requested announcement mode.
	Mode string `json:"mode"`
	// Timestamp is the caller-assigned ISO-8601 creation time.
	Timestamp string `json:"ts"`
	// CausalChainID threads one incident across services.
	CausalChainID string `json:"causalChainId"`
	// Nonce is accepted on the wire but not yet checked.
	Nonce string `json:"nonce,omitempty"`
}

// Device returns the originating device id, preferring the current field name.
func (t *Trigger) Device() string {
	if t.SourceDeviceID != "" {
		return t.SourceDeviceID
	}

	return t.DeviceID
}

// Record is the persisted lifecycle record of one trigger occurrence.
type Record struct {
	// AlertID identifies the record.
	AlertID string
	// TenantID, BuildingID, SourceRoomID, SourceDeviceID mirror the trigger.
	TenantID       string
	BuildingID     string
	SourceRoomID   string
	SourceDeviceID string
	// Origin and Mode mirror the trigger as received.
	Origin string
	Mode   string
	// TriggeredAt is the raw caller timestamp.
	TriggeredAt string
	// CausalChainID mirrors the trigger.
	CausalChainID string
	// Status is PENDING until the pipeline finalises the record.
	Status Status
	// CreatedAt is when the record was written.
	CreatedAt time.Time
	// ProcessedAt is when the record reached a terminal status.
	ProcessedAt *time.Time
	// TargetRoomCount is set on COMPLETED records.
	TargetRoomCount int
	// ErrorMessage is set on FAILED records.
	ErrorMessage string
}

// NewPendingRecord builds the intake record for a trigger.
func NewPendingRecord(t *Trigger, createdAt time.Time) *Record {
	return &Record{
		AlertID:        t.AlertID,
		TenantID:       t.TenantID,
		BuildingID:     t.BuildingID,
		SourceRoomID:   t.SourceRoomID,
		SourceDeviceID: t.Device(),
		Origin:         t.Origin,
		Mode:           t.Mode,
		TriggeredAt:    t.Timestamp,
		CausalChainID:  t.CausalChainID,
		Status:         StatusPending,
		CreatedAt:      createdAt.UTC(),
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	cloned := *r

	if r.ProcessedAt != nil {
		processedAt := *r.ProcessedAt
		cloned.ProcessedAt = &processedAt
	}

	return &cloned
}

// StatusUpdate moves a record to a terminal status.
type StatusUpdate struct {
	// AlertID selects the record.
	AlertID string
	// Status must be terminal.
	Status Status
	// ProcessedAt is the moment the pipeline finished.
	ProcessedAt time.Time
	// TargetRoomCount is recorded for COMPLETED updates.
	TargetRoomCount int
	// ErrorMessage is recorded for FAILED updates.
	ErrorMessage string
}

// Event is the routing decision produced once by the pipeline and consumed once by the router.
type Event struct {
	AlertID       string
	TenantID      string
	BuildingID    string
	SourceRoomID  string
	CausalChainID string
	Mode          Mode
	// TargetRooms never contains SourceRoomID.
	TargetRooms []string
	ReceivedAt  time.Time
	ProcessedAt time.Time
	// Metadata carries origin and sourceDeviceId.
	Metadata map[string]string
}

// Latency is the time spent between receipt and the routing decision.
func (e *Event) Latency() time.Duration {
	return e.ProcessedAt.Sub(e.ReceivedAt)
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}

	cloned := *e
	cloned.TargetRooms = slices.Clone(e.TargetRooms)

	if e.Metadata != nil {
		cloned.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			cloned.Metadata[k] = v
		}
	}

	return &cloned
}

// PlayCommand instructs the PA service to play a clip in one room.
type PlayCommand struct {
	AlertID       string `json:"alertId"`
	RoomID        string `json:"roomId"`
	ClipRef       string `json:"clipRef"`
	Mode          Mode   `json:"mode"`
	Timestamp     string `json:"ts"`
	CausalChainID string `json:"causalChainId"`
}

// Playback statuses reported by the PA service.
const (
	PlaybackOK        = "OK"
	PlaybackCompleted = "COMPLETED"
	PlaybackPlaying   = "PLAYING"
	PlaybackError     = "ERROR"
)

// PlaybackStatus is the PA service acknowledgement for one PlayCommand.
type PlaybackStatus struct {
	AlertID      string `json:"alertId"`
	RoomID       string `json:"roomId"`
	Status       string `json:"status"`
	Timestamp    string `json:"ts"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// IsSuccess reports whether the playback finished successfully.
func (s *PlaybackStatus) IsSuccess() bool {
	return s.Status == PlaybackOK || s.Status == PlaybackCompleted
}

// IsFailure reports whether the PA service failed to play the clip.
func (s *PlaybackStatus) IsFailure() bool {
	return s.Status == PlaybackError
}

// RateLimitStatus is a read-only projection of one token bucket.
type RateLimitStatus struct {
	Scope           Scope
	Identifier      string
	TokensRemaining float64
	Capacity        int
	IsLimited       bool
	CooldownUntil   *time.Time
}

// Stats summarises persisted records by status.
type Stats struct {
	Total     int
	Pending   int
	Completed int
	Failed    int
}
