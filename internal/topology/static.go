package topology

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// StaticTable is an in-memory building to rooms map that can be swapped at runtime.
type StaticTable struct {
	mu    sync.RWMutex
	rooms map[string][]string
}

// DefaultBuildings is the built-in table used when nothing else is configured.
func DefaultBuildings() map[string][]string {
	return map[string][]string{
		"building-a": {"room-1", "room-2", "room-3", "room-4"},
		"building-b": {"room-101", "room-102", "room-103"},
	}
}

// NewStaticTable copies buildings into a new table.
func NewStaticTable(buildings map[string][]string) *StaticTable {
	t := &StaticTable{}
	t.Replace(buildings)

	return t
}

// RoomsForBuilding never fails. Unknown buildings yield no rooms.
func (t *StaticTable) RoomsForBuilding(_ context.Context, buildingID string) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return slices.Clone(t.rooms[buildingID]), nil
}

// Replace swaps the whole table.
func (t *StaticTable) Replace(buildings map[string][]string) {
	rooms := make(map[string][]string, len(buildings))
	for building, ids := range buildings {
		rooms[building] = normalizeRooms(ids)
	}

	t.mu.Lock()
	t.rooms = rooms
	t.mu.Unlock()
}

// Buildings returns the known building ids in sorted order.
func (t *StaticTable) Buildings() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return slices.Sorted(maps.Keys(t.rooms))
}

// tableFile is the on-disk form of a fallback table.
type tableFile struct {
	Buildings map[string][]string `yaml:"buildings"`
}

// LoadTableFile reads a YAML fallback table of the form
//
//	buildings:
//	  building-a: [room-1, room-2]
func LoadTableFile(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology file %s: %w", path, err)
	}

	var file tableFile
	if err = yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse topology file %s: %w", path, err)
	}

	if len(file.Buildings) == 0 {
		return nil, fmt.Errorf("topology file %s: %w", path, ErrEmptyTable)
	}

	return file.Buildings, nil
}
