package trigger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/alert-router/internal/domain/alert"
	"github.com/oshokin/alert-router/internal/service/common"
)

func TestBuildTrigger_Defaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 4, 12, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	actor := &common.Actor{Hostname: "edge-01", Username: "ops"}

	trigger, err := BuildTrigger(&Options{
		TenantID:   " tenant-1 ",
		BuildingID: "building-a",
		RoomID:     "room-2",
	}, actor, now)
	require.NoError(t, err)

	require.Equal(t, "tenant-1", trigger.TenantID)
	require.Equal(t, "building-a", trigger.BuildingID)
	require.Equal(t, "room-2", trigger.SourceRoomID)
	require.Equal(t, "cli-edge-01", trigger.SourceDeviceID)
	require.Equal(t, string(alert.ModeAudible), trigger.Mode)
	require.Equal(t, string(alert.OriginAPI), trigger.Origin)
	require.Equal(t, "2026-05-04T10:30:00Z", trigger.Timestamp)

	_, err = uuid.Parse(trigger.AlertID)
	require.NoError(t, err)

	_, err = uuid.Parse(trigger.CausalChainID)
	require.NoError(t, err)
	require.NotEqual(t, trigger.AlertID, trigger.CausalChainID)
}

func TestBuildTrigger_Explicit(t *testing.T) {
	t.Parallel()

	trigger, err := BuildTrigger(&Options{
		TenantID:      "tenant-1",
		BuildingID:    "building-a",
		RoomID:        "room-2",
		DeviceID:      "esp32-7",
		Mode:          "lockdown",
		Origin:        "app",
		AlertID:       "a-1",
		CausalChainID: "chain-1",
	}, nil, time.Now())
	require.NoError(t, err)

	require.Equal(t, "esp32-7", trigger.SourceDeviceID)
	require.Equal(t, string(alert.ModeLockdown), trigger.Mode)
	require.Equal(t, string(alert.OriginMobile), trigger.Origin)
	require.Equal(t, "a-1", trigger.AlertID)
	require.Equal(t, "chain-1", trigger.CausalChainID)
}

func TestBuildTrigger_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{
			name:    "missing room",
			opts:    Options{TenantID: "t", BuildingID: "b"},
			wantErr: errLocationRequired,
		},
		{
			name:    "unknown mode",
			opts:    Options{TenantID: "t", BuildingID: "b", RoomID: "r", Mode: "party"},
			wantErr: alert.ErrUnknownMode,
		},
		{
			name:    "unknown origin",
			opts:    Options{TenantID: "t", BuildingID: "b", RoomID: "r", Origin: "fax"},
			wantErr: alert.ErrUnknownOrigin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := BuildTrigger(&tt.opts, nil, time.Now())
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRun_MissingConfig(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}
