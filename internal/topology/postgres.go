package topology

import (
	"context"
	"database/sql"
	"fmt"
)

const selectRoomsQuery = `SELECT room_id FROM rooms WHERE building_id = $1 ORDER BY room_id`

// PostgresStore reads rooms from the rooms table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// RoomsForBuilding selects every room of the building.
func (s *PostgresStore) RoomsForBuilding(ctx context.Context, buildingID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, selectRoomsQuery, buildingID)
	if err != nil {
		return nil, fmt.Errorf("query rooms of %s: %w", buildingID, err)
	}
	defer rows.Close()

	var rooms []string

	for rows.Next() {
		var roomID string
		if err = rows.Scan(&roomID); err != nil {
			return nil, fmt.Errorf("scan room of %s: %w", buildingID, err)
		}

		rooms = append(rooms, roomID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms of %s: %w", buildingID, err)
	}

	return normalizeRooms(rooms), nil
}
