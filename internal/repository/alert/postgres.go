package alert

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/oshokin/alert-router/internal/domain/alert"
)

const (
	createTableQuery = `CREATE TABLE IF NOT EXISTS alerts (
	alert_id          TEXT PRIMARY KEY,
	tenant_id         TEXT NOT NULL,
	building_id       TEXT NOT NULL,
	source_room_id    TEXT NOT NULL,
	source_device_id  TEXT NOT NULL DEFAULT '',
	origin            TEXT NOT NULL DEFAULT '',
	mode              TEXT NOT NULL DEFAULT '',
	triggered_at      TEXT NOT NULL DEFAULT '',
	causal_chain_id   TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL,
	processed_at      TIMESTAMPTZ,
	target_room_count INTEGER NOT NULL DEFAULT 0,
	error_message     TEXT NOT NULL DEFAULT ''
)`

	insertQuery = `INSERT INTO alerts (
	alert_id, tenant_id, building_id, source_room_id, source_device_id,
	origin, mode, triggered_at, causal_chain_id, status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (alert_id) DO NOTHING`

	updateStatusQuery = `UPDATE alerts
SET status = $2, processed_at = $3, target_room_count = $4, error_message = $5
WHERE alert_id = $1 AND status = 'PENDING'`

	selectStatusQuery = `SELECT status FROM alerts WHERE alert_id = $1`

	selectAlertQuery = `SELECT
	alert_id, tenant_id, building_id, source_room_id, source_device_id,
	origin, mode, triggered_at, causal_chain_id, status, created_at,
	processed_at, target_room_count, error_message
FROM alerts WHERE alert_id = $1`

	statsQuery = `SELECT status, COUNT(*) FROM alerts GROUP BY status`

	pruneQuery = `DELETE FROM alerts
WHERE status IN ('COMPLETED', 'FAILED') AND processed_at < $1`
)

// PostgresStore persists records in the alerts table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the alerts table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("create alerts table: %w", err)
	}

	return nil
}

// Insert adds a record unless the alert id is already known.
func (s *PostgresStore) Insert(ctx context.Context, record *domain.Record) error {
	result, err := s.db.ExecContext(ctx, insertQuery,
		record.AlertID,
		record.TenantID,
		record.BuildingID,
		record.SourceRoomID,
		record.SourceDeviceID,
		record.Origin,
		record.Mode,
		record.TriggeredAt,
		record.CausalChainID,
		string(record.Status),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", record.AlertID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert %s: %w", record.AlertID, err)
	}

	if affected == 0 {
		return fmt.Errorf("insert %s: %w", record.AlertID, domain.ErrAlreadyExists)
	}

	return nil
}

// UpdateStatus finalises a PENDING record. When no row changes, the current
// status is read to tell a missing record from an already finalised one.
func (s *PostgresStore) UpdateStatus(ctx context.Context, update domain.StatusUpdate) error {
	if err := validateUpdate(update); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, updateStatusQuery,
		update.AlertID,
		string(update.Status),
		update.ProcessedAt.UTC(),
		update.TargetRoomCount,
		update.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", update.AlertID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", update.AlertID, err)
	}

	if affected > 0 {
		return nil
	}

	var status string

	err = s.db.QueryRowContext(ctx, selectStatusQuery, update.AlertID).Scan(&status)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("update %s: %w", update.AlertID, domain.ErrNotFound)
	case err != nil:
		return fmt.Errorf("update %s: %w", update.AlertID, err)
	default:
		return fmt.Errorf("update %s from %s: %w", update.AlertID, status, domain.ErrNotPending)
	}
}

// Get selects one record.
func (s *PostgresStore) Get(ctx context.Context, alertID string) (*domain.Record, error) {
	var (
		record      domain.Record
		status      string
		processedAt sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, selectAlertQuery, alertID).Scan(
		&record.AlertID,
		&record.TenantID,
		&record.BuildingID,
		&record.SourceRoomID,
		&record.SourceDeviceID,
		&record.Origin,
		&record.Mode,
		&record.TriggeredAt,
		&record.CausalChainID,
		&status,
		&record.CreatedAt,
		&processedAt,
		&record.TargetRoomCount,
		&record.ErrorMessage,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get %s: %w", alertID, domain.ErrNotFound)
		}

		return nil, fmt.Errorf("get %s: %w", alertID, err)
	}

	record.Status = domain.Status(status)

	if processedAt.Valid {
		t := processedAt.Time.UTC()
		record.ProcessedAt = &t
	}

	record.CreatedAt = record.CreatedAt.UTC()

	return &record, nil
}

// Stats counts records by status.
func (s *PostgresStore) Stats(ctx context.Context) (*domain.Stats, error) {
	rows, err := s.db.QueryContext(ctx, statsQuery)
	if err != nil {
		return nil, fmt.Errorf("query alert stats: %w", err)
	}
	defer rows.Close()

	stats := new(domain.Stats)

	for rows.Next() {
		var (
			status string
			count  int
		)

		if err = rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan alert stats: %w", err)
		}

		countStatus(stats, domain.Status(status), count)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alert stats: %w", err)
	}

	return stats, nil
}

// Prune deletes finalised rows processed before the cutoff.
func (s *PostgresStore) Prune(ctx context.Context, before time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, pruneQuery, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune alerts: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune alerts: %w", err)
	}

	return int(affected), nil
}
