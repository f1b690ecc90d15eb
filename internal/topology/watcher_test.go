package topology

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchTableFile(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "topology.yaml")
	require.NoError(t, os.WriteFile(path, []byte("buildings:\n  building-c: [room-7]\n"), 0o600))

	buildings, err := LoadTableFile(path)
	require.NoError(t, err)

	table := NewStaticTable(buildings)
	require.NoError(t, WatchTableFile(ctx, path, table))

	// An invalid file keeps the previous table.
	require.NoError(t, os.WriteFile(path, []byte("buildings: {}\n"), 0o600))
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, []string{"building-c"}, table.Buildings())

	require.NoError(t, os.WriteFile(path, []byte("buildings:\n  building-d: [room-8, room-9]\n"), 0o600))

	require.Eventually(t, func() bool {
		rooms, _ := table.RoomsForBuilding(ctx, "building-d")

		return len(rooms) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatchTableFile_MissingDirectory(t *testing.T) {
	t.Parallel()

	err := WatchTableFile(context.Background(), filepath.Join(t.TempDir(), "missing", "topology.yaml"), NewStaticTable(nil))
	require.Error(t, err)
}
