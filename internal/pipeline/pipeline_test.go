package pipeline

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alert-router/internal/dedup"
	"github.com/oshokin/alert-router/internal/domain/alert"
	alertrepo "github.com/oshokin/alert-router/internal/repository/alert"
	"github.com/oshokin/alert-router/internal/topology"
)

// failingStore wraps a MemoryStore and fails the configured operations.
type failingStore struct {
	*alertrepo.MemoryStore
	insertErr error
	updateErr error
}

func (s *failingStore) Insert(ctx context.Context, record *alert.Record) error {
	if s.insertErr != nil {
		return s.insertErr
	}

	return s.MemoryStore.Insert(ctx, record)
}

func (s *failingStore) UpdateStatus(ctx context.Context, update alert.StatusUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}

	return s.MemoryStore.UpdateStatus(ctx, update)
}

// liveStore answers the resolver's live lookups.
type liveStore struct {
	rooms map[string][]string
	err   error
}

func (s *liveStore) RoomsForBuilding(_ context.Context, buildingID string) ([]string, error) {
	return s.rooms[buildingID], s.err
}

func newTestPipeline(store Store, live topology.Store) *Pipeline {
	resolver := topology.NewResolver(live, topology.NewStaticTable(topology.DefaultBuildings()))

	return New(Config{}, store, dedup.New(500*time.Millisecond), resolver)
}

// newTrigger builds a valid trigger stamped with the current (possibly fake) time.
func newTrigger(alertID, buildingID, sourceRoomID string) *alert.Trigger {
	return &alert.Trigger{
		AlertID:        alertID,
		TenantID:       "tenant-1",
		BuildingID:     buildingID,
		SourceRoomID:   sourceRoomID,
		SourceDeviceID: "esp32-" + sourceRoomID,
		Origin:         "ESP32",
		Mode:           "AUDIBLE",
		Timestamp:      time.Now().UTC().Format(time.RFC3339Nano),
		CausalChainID:  "chain-" + alertID,
	}
}

func requireRecord(t *testing.T, store alertrepo.Store, alertID string, status alert.Status, message string) *alert.Record {
	t.Helper()

	record, err := store.Get(context.Background(), alertID)
	require.NoError(t, err)
	require.Equal(t, status, record.Status)
	require.Equal(t, message, record.ErrorMessage)
	require.NotNil(t, record.ProcessedAt)

	return record
}

// TestProcess_ExcludesSourceRoom routes to every room of the building but the source.
func TestProcess_ExcludesSourceRoom(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		store := alertrepo.NewMemoryStore()
		p := newTestPipeline(store, nil)
		receivedAt := time.Now()

		time.Sleep(15 * time.Millisecond)

		result := p.Process(context.Background(), newTrigger("a-1", "building-a", "room-2"), receivedAt)
		require.Equal(t, OutcomeCompleted, result.Outcome)
		require.NoError(t, result.Err)
		require.ElementsMatch(t, []string{"room-1", "room-3", "room-4"}, result.Event.TargetRooms)
		require.NotContains(t, result.Event.TargetRooms, "room-2")
		require.Equal(t, alert.ModeAudible, result.Event.Mode)
		require.Equal(t, "chain-a-1", result.Event.CausalChainID)
		require.Equal(t, map[string]string{"origin": "BUTTON", "sourceDeviceId": "esp32-room-2"}, result.Event.Metadata)
		require.Equal(t, 15*time.Millisecond, result.Event.Latency())

		record := requireRecord(t, store, "a-1", alert.StatusCompleted, "")
		require.Equal(t, 3, record.TargetRoomCount)
	})
}

// TestProcess_LiveTopologyErrorUsesFallback produces the same rooms from the static table.
func TestProcess_LiveTopologyErrorUsesFallback(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		store := alertrepo.NewMemoryStore()
		p := newTestPipeline(store, &liveStore{err: errors.New("database unreachable")})

		result := p.Process(context.Background(), newTrigger("a-1", "building-a", "room-2"), time.Now())
		require.Equal(t, OutcomeCompleted, result.Outcome)
		require.ElementsMatch(t, []string{"room-1", "room-3", "room-4"}, result.Event.TargetRooms)
	})
}

// TestProcess_UnknownBuilding rejects with no target rooms and records the failure.
func TestProcess_UnknownBuilding(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		store := alertrepo.NewMemoryStore()
		p := newTestPipeline(store, &liveStore{})

		result := p.Process(context.Background(), newTrigger("a-1", "building-z", "room-1"), time.Now())
		require.Equal(t, OutcomeRejected, result.Outcome)
		require.Equal(t, alert.ReasonNoTargets, result.Reason)
		require.Nil(t, result.Event)

		requireRecord(t, store, "a-1", alert.StatusFailed, "no target rooms")
	})
}

// TestProcess_SourceRoomNeverTargeted checks the exclusion across topology shapes.
func TestProcess_SourceRoomNeverTargeted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		live       map[string][]string
		buildingID string
		sourceRoom string
		wantRooms  []string
	}{
		{
			name:       "live list contains the source twice",
			live:       map[string][]string{"building-c": {"room-7", "room-8", "room-7"}},
			buildingID: "building-c",
			sourceRoom: "room-7",
			wantRooms:  []string{"room-8"},
		},
		{
			name:       "source room unknown to the building",
			buildingID: "building-b",
			sourceRoom: "room-999",
			wantRooms:  []string{"room-101", "room-102", "room-103"},
		},
		{
			name:       "building with only the source room",
			live:       map[string][]string{"building-c": {"room-7"}},
			buildingID: "building-c",
			sourceRoom: "room-7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			synctest.Test(t, func(t *testing.T) {
				store := alertrepo.NewMemoryStore()
				p := newTestPipeline(store, &liveStore{rooms: tt.live})

				result := p.Process(context.Background(), newTrigger("a-1", tt.buildingID, tt.sourceRoom), time.Now())
				if len(tt.wantRooms) == 0 {
					require.Equal(t, OutcomeRejected, result.Outcome)
					require.Equal(t, alert.ReasonNoTargets, result.Reason)
					requireRecord(t, store, "a-1", alert.StatusFailed, "no target rooms")

					return
				}

				require.Equal(t, OutcomeCompleted, result.Outcome)
				require.Equal(t, tt.wantRooms, result.Event.TargetRooms)
				require.NotContains(t, result.Event.TargetRooms, tt.sourceRoom)
			})
		})
	}
}

// TestProcess_AntiReplayBoundary accepts a skew of exactly the window and rejects anything beyond.
func TestProcess_AntiReplayBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		skew    time.Duration
		outcome Outcome
	}{
		{name: "30.0s in the past", skew: -30 * time.Second, outcome: OutcomeCompleted},
		{name: "30.1s in the past", skew: -30100 * time.Millisecond, outcome: OutcomeRejected},
		{name: "30.0s in the future", skew: 30 * time.Second, outcome: OutcomeCompleted},
		{name: "30.1s in the future", skew: 30100 * time.Millisecond, outcome: OutcomeRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			synctest.Test(t, func(t *testing.T) {
				store := alertrepo.NewMemoryStore()
				p := newTestPipeline(store, nil)

				trigger := newTrigger("a-1", "building-a", "room-2")
				trigger.Timestamp = time.Now().Add(tt.skew).UTC().Format(time.RFC3339Nano)

				result := p.Process(context.Background(), trigger, time.Now())
				require.Equal(t, tt.outcome, result.Outcome)

				if tt.outcome == OutcomeRejected {
					require.Equal(t, alert.ReasonReplay, result.Reason)
					requireRecord(t, store, "a-1", alert.StatusFailed, "anti-replay check failed")
				}
			})
		})
	}
}

// TestProcess_Deduplication produces one event inside the window and two once it has elapsed.
func TestProcess_Deduplication(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		store := alertrepo.NewMemoryStore()
		p := newTestPipeline(store, nil)

		first := p.Process(ctx, newTrigger("a-1", "building-a", "room-2"), time.Now())
		require.Equal(t, OutcomeCompleted, first.Outcome)

		time.Sleep(499 * time.Millisecond)

		second := p.Process(ctx, newTrigger("a-2", "building-a", "room-2"), time.Now())
		require.Equal(t, OutcomeRejected, second.Outcome)
		require.Equal(t, alert.ReasonDuplicate, second.Reason)
		requireRecord(t, store, "a-2", alert.StatusFailed, "duplicate detected")

		time.Sleep(time.Millisecond)

		third := p.Process(ctx, newTrigger("a-3", "building-a", "room-2"), time.Now())
		require.Equal(t, OutcomeCompleted, third.Outcome)

		// A different mode is a different incident.
		lockdown := newTrigger("a-4", "building-a", "room-2")
		lockdown.Mode = "lockdown"

		fourth := p.Process(ctx, lockdown, time.Now())
		require.Equal(t, OutcomeCompleted, fourth.Outcome)
		require.Equal(t, alert.ModeLockdown, fourth.Event.Mode)
	})
}

// TestProcess_Redelivery drops a second delivery of the same alert id without touching its record.
func TestProcess_Redelivery(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		store := alertrepo.NewMemoryStore()
		p := newTestPipeline(store, nil)

		require.Equal(t, OutcomeCompleted, p.Process(ctx, newTrigger("a-1", "building-a", "room-2"), time.Now()).Outcome)

		time.Sleep(time.Second)

		result := p.Process(ctx, newTrigger("a-1", "building-a", "room-2"), time.Now())
		require.Equal(t, OutcomeRejected, result.Outcome)
		require.Equal(t, alert.ReasonDuplicate, result.Reason)

		requireRecord(t, store, "a-1", alert.StatusCompleted, "")
	})
}

// TestProcess_Validation rejects malformed triggers.
func TestProcess_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*alert.Trigger)
	}{
		{name: "missing tenant", mutate: func(tr *alert.Trigger) { tr.TenantID = "" }},
		{name: "blank building", mutate: func(tr *alert.Trigger) { tr.BuildingID = "  " }},
		{name: "missing source room", mutate: func(tr *alert.Trigger) { tr.SourceRoomID = "" }},
		{name: "unparsable timestamp", mutate: func(tr *alert.Trigger) { tr.Timestamp = "yesterday" }},
		{name: "unknown mode", mutate: func(tr *alert.Trigger) { tr.Mode = "PARTY" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			synctest.Test(t, func(t *testing.T) {
				store := alertrepo.NewMemoryStore()
				p := newTestPipeline(store, nil)

				trigger := newTrigger("a-1", "building-a", "room-2")
				tt.mutate(trigger)

				result := p.Process(context.Background(), trigger, time.Now())
				require.Equal(t, OutcomeRejected, result.Outcome)
				require.Equal(t, alert.ReasonValidation, result.Reason)

				requireRecord(t, store, "a-1", alert.StatusFailed, "validation failed")
			})
		})
	}
}

// TestProcess_EmptyAlertID is rejected without persisting anything.
func TestProcess_EmptyAlertID(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		store := alertrepo.NewMemoryStore()
		p := newTestPipeline(store, nil)

		result := p.Process(context.Background(), newTrigger("", "building-a", "room-2"), time.Now())
		require.Equal(t, OutcomeRejected, result.Outcome)
		require.Equal(t, alert.ReasonValidation, result.Reason)

		stats, err := store.Stats(context.Background())
		require.NoError(t, err)
		require.Zero(t, stats.Total)
	})
}

// TestProcess_PersistenceFailures are fatal for the trigger and never yield an event.
func TestProcess_PersistenceFailures(t *testing.T) {
	t.Parallel()

	errDisk := errors.New("disk full")

	tests := []struct {
		name       string
		store      *failingStore
		buildingID string
		wantReason alert.RejectReason
	}{
		{
			name:       "intake insert fails",
			store:      &failingStore{MemoryStore: alertrepo.NewMemoryStore(), insertErr: errDisk},
			buildingID: "building-a",
		},
		{
			name:       "finalize fails",
			store:      &failingStore{MemoryStore: alertrepo.NewMemoryStore(), updateErr: errDisk},
			buildingID: "building-a",
		},
		{
			name:       "recording a rejection fails",
			store:      &failingStore{MemoryStore: alertrepo.NewMemoryStore(), updateErr: errDisk},
			buildingID: "building-z",
			wantReason: alert.ReasonNoTargets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			synctest.Test(t, func(t *testing.T) {
				p := newTestPipeline(tt.store, nil)

				result := p.Process(context.Background(), newTrigger("a-1", tt.buildingID, "room-2"), time.Now())
				require.Equal(t, OutcomeFatal, result.Outcome)
				require.Nil(t, result.Event)
				require.Equal(t, tt.wantReason, result.Reason)
				require.ErrorIs(t, result.Err, ErrPersistence)
				require.ErrorIs(t, result.Err, errDisk)
			})
		})
	}
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "completed", OutcomeCompleted.String())
	require.Equal(t, "rejected", OutcomeRejected.String())
	require.Equal(t, "fatal", OutcomeFatal.String())
	require.Equal(t, "unknown", Outcome(0).String())
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "2025-11-02T10:00:00Z", want: want},
		{input: "2025-11-02T11:00:00+01:00", want: want},
		{input: "2025-11-02T10:00:00.000Z", want: want},
		{input: "2025-11-02T10:00:00", want: want},
		{input: "2025-11-02 10:00:00", want: want},
		{input: "", wantErr: true},
		{input: "02/11/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimestamp)

				return
			}

			require.NoError(t, err)
			require.True(t, want.Equal(got), "got %s", got)
		})
	}
}
