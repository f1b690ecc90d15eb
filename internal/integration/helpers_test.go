package integration

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alert-router/internal/domain/alert"
)

// reservePort returns a loopback address that was free a moment ago.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// recordingBus keeps every published play command keyed by topic.
type recordingBus struct {
	mu       sync.Mutex
	commands map[string]alert.PlayCommand
}

func newRecordingBus() *recordingBus {
	return &recordingBus{commands: make(map[string]alert.PlayCommand)}
}

func (b *recordingBus) Publish(_ context.Context, topic string, _ byte, _ bool, payload []byte) error {
	var command alert.PlayCommand
	if err := json.Unmarshal(payload, &command); err != nil {
		return err
	}

	b.mu.Lock()
	b.commands[topic] = command
	b.mu.Unlock()

	return nil
}

func (b *recordingBus) snapshot() map[string]alert.PlayCommand {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]alert.PlayCommand, len(b.commands))
	for topic, command := range b.commands {
		out[topic] = command
	}

	return out
}

// buttonPress builds the payload a wall button sends.
func buttonPress(t *testing.T, alertID, roomID, mode string) []byte {
	t.Helper()

	payload, err := json.Marshal(alert.Trigger{
		AlertID:        alertID,
		TenantID:       "tenant-1",
		BuildingID:     "building-a",
		SourceRoomID:   roomID,
		SourceDeviceID: "esp32-" + roomID,
		Origin:         "ESP32",
		Mode:           mode,
		Timestamp:      time.Now().UTC().Format(time.RFC3339Nano),
		CausalChainID:  "chain-" + alertID,
	})
	require.NoError(t, err)

	return payload
}

func playbackAck(t *testing.T, alertID, roomID, status string) []byte {
	t.Helper()

	payload, err := json.Marshal(alert.PlaybackStatus{
		AlertID:   alertID,
		RoomID:    roomID,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
	require.NoError(t, err)

	return payload
}
