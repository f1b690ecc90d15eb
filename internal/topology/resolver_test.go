package topology

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		live       Store
		buildingID string
		wantRooms  []string
		wantSource Source
	}{
		{
			name:       "live store answers",
			live:       &fakeStore{rooms: []string{"room-4", "room-1", "room-3", "room-2"}},
			buildingID: "building-a",
			wantRooms:  []string{"room-1", "room-2", "room-3", "room-4"},
			wantSource: SourceLive,
		},
		{
			name:       "live store error falls back",
			live:       &fakeStore{err: errors.New("timeout")},
			buildingID: "building-a",
			wantRooms:  []string{"room-1", "room-2", "room-3", "room-4"},
			wantSource: SourceFallback,
		},
		{
			name:       "live store empty falls back",
			live:       &fakeStore{},
			buildingID: "building-b",
			wantRooms:  []string{"room-101", "room-102", "room-103"},
			wantSource: SourceFallback,
		},
		{
			name:       "partial live answer is authoritative",
			live:       &fakeStore{rooms: []string{"room-1", "room-2"}},
			buildingID: "building-a",
			wantRooms:  []string{"room-1", "room-2"},
			wantSource: SourceLive,
		},
		{
			name:       "no live store",
			buildingID: "building-a",
			wantRooms:  []string{"room-1", "room-2", "room-3", "room-4"},
			wantSource: SourceFallback,
		},
		{
			name:       "unknown everywhere",
			live:       &fakeStore{err: errors.New("timeout")},
			buildingID: "building-z",
			wantSource: SourceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver := NewResolver(tt.live, NewStaticTable(DefaultBuildings()))

			rooms, source := resolver.Resolve(context.Background(), tt.buildingID)
			require.Equal(t, tt.wantSource, source)
			require.Equal(t, tt.wantRooms, rooms)
		})
	}
}

func TestResolver_NilFallback(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil, nil)

	rooms, source := resolver.Resolve(context.Background(), "building-a")
	require.Empty(t, rooms)
	require.Equal(t, SourceNone, source)
	require.NotNil(t, resolver.Fallback())
}

// TestResolver_LookupTimeout answers from the table when the live store hangs.
func TestResolver_LookupTimeout(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		resolver := NewResolver(blockingStore{}, NewStaticTable(DefaultBuildings()),
			WithLookupTimeout(500*time.Millisecond))

		start := time.Now()
		rooms, source := resolver.Resolve(context.Background(), "building-a")

		require.Equal(t, SourceFallback, source)
		require.Equal(t, []string{"room-1", "room-2", "room-3", "room-4"}, rooms)
		require.Equal(t, 500*time.Millisecond, time.Since(start))
	})
}

func TestResolver_DefaultLookupTimeout(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		// Non-positive overrides keep the default.
		resolver := NewResolver(blockingStore{}, nil, WithLookupTimeout(0))

		start := time.Now()
		rooms, source := resolver.Resolve(context.Background(), "building-a")

		require.Equal(t, SourceNone, source)
		require.Empty(t, rooms)
		require.Equal(t, DefaultLookupTimeout, time.Since(start))
	})
}
