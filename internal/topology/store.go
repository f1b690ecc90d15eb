// Package topology answers which rooms belong to a building.
//
// Live sources (Postgres, the cloud rooms API, optionally behind a Redis cache) are
// consulted first. A static table keyed by building id answers when the live source
// fails or knows no rooms for the building.
package topology

import (
	"context"
	"slices"
)

// Store returns the room ids of a building. An empty result is not an error.
type Store interface {
	RoomsForBuilding(ctx context.Context, buildingID string) ([]string, error)
}

// normalizeRooms drops blank ids, removes duplicates and sorts the result.
func normalizeRooms(rooms []string) []string {
	result := make([]string, 0, len(rooms))

	for _, room := range rooms {
		if room != "" {
			result = append(result, room)
		}
	}

	slices.Sort(result)

	return slices.Compact(result)
}
