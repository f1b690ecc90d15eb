package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRecordClone verifies that Clone returns a deep copy and handles nil safely.
func TestRecordClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Record)(nil).Clone())

	processedAt := time.Now().UTC()
	r := &Record{
		AlertID:     "alert-1",
		Status:      StatusCompleted,
		ProcessedAt: &processedAt,
	}

	c := r.Clone()
	require.Equal(t, r, c)
	require.NotSame(t, r, c)
	require.NotSame(t, r.ProcessedAt, c.ProcessedAt)
}

// TestEventClone ensures target rooms and metadata are not shared between copies.
func TestEventClone(t *testing.T) {
	t.Parallel()

	e := &Event{
		AlertID:     "alert-1",
		TargetRooms: []string{"room-1", "room-3"},
		Metadata:    map[string]string{"origin": "BUTTON"},
	}

	c := e.Clone()
	require.Equal(t, e, c)

	c.TargetRooms[0] = "room-9"
	c.Metadata["origin"] = "API"

	require.Equal(t, "room-1", e.TargetRooms[0])
	require.Equal(t, "BUTTON", e.Metadata["origin"])
}

// TestNewPendingRecord checks that intake records mirror the trigger and start PENDING.
func TestNewPendingRecord(t *testing.T) {
	t.Parallel()

	trigger := &Trigger{
		AlertID:       "alert-1",
		TenantID:      "tenant-1",
		BuildingID:    "building-a",
		SourceRoomID:  "room-2",
		DeviceID:      "esp32-7",
		Origin:        "ESP32",
		Mode:          "AUDIBLE",
		Timestamp:     "2025-11-02T10:00:00Z",
		CausalChainID: "chain-1",
	}

	r := NewPendingRecord(trigger, time.Date(2025, 11, 2, 10, 0, 1, 0, time.UTC))
	require.Equal(t, StatusPending, r.Status)
	require.Equal(t, "esp32-7", r.SourceDeviceID)
	require.Equal(t, "room-2", r.SourceRoomID)
	require.Nil(t, r.ProcessedAt)
	require.False(t, r.Status.IsTerminal())
}

// TestParseMode covers normalisation, defaults, and rejection of unknown modes.
func TestParseMode(t *testing.T) {
	t.Parallel()

	cases := map[string]Mode{
		"":           ModeAudible,
		"silent":     ModeSilent,
		" Audible ":  ModeAudible,
		"LOCKDOWN":   ModeLockdown,
		"evacuation": ModeEvacuation,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseMode("party")
	require.ErrorIs(t, err, ErrUnknownMode)
}

// TestParseOrigin covers the current and legacy origin names.
func TestParseOrigin(t *testing.T) {
	t.Parallel()

	cases := map[string]Origin{
		"button": OriginButton,
		"ESP32":  OriginButton,
		"APP":    OriginMobile,
		"web":    OriginWeb,
		"":       OriginAPI,
	}
	for in, want := range cases {
		got, err := ParseOrigin(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseOrigin("pager")
	require.ErrorIs(t, err, ErrUnknownOrigin)
}

// TestPlaybackStatus classifies acknowledgements.
func TestPlaybackStatus(t *testing.T) {
	t.Parallel()

	require.True(t, (&PlaybackStatus{Status: PlaybackOK}).IsSuccess())
	require.True(t, (&PlaybackStatus{Status: PlaybackCompleted}).IsSuccess())
	require.False(t, (&PlaybackStatus{Status: PlaybackPlaying}).IsSuccess())
	require.False(t, (&PlaybackStatus{Status: PlaybackPlaying}).IsFailure())
	require.True(t, (&PlaybackStatus{Status: PlaybackError}).IsFailure())
}

// TestRejectReasonMessage pins the texts stored on FAILED records.
func TestRejectReasonMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "validation failed", ReasonValidation.Message())
	require.Equal(t, "anti-replay check failed", ReasonReplay.Message())
	require.Equal(t, "duplicate detected", ReasonDuplicate.Message())
	require.Equal(t, "no target rooms", ReasonNoTargets.Message())
}
