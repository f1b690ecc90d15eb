package alert

import (
	"context"
	"fmt"
	"time"

	domain "github.com/oshokin/alert-router/internal/domain/alert"
)

// Store defines persistence operations for alert records.
type Store interface {
	// Insert records a new PENDING alert. A known id yields domain.ErrAlreadyExists.
	Insert(ctx context.Context, record *domain.Record) error
	// UpdateStatus finalises a PENDING record.
	UpdateStatus(ctx context.Context, update domain.StatusUpdate) error
	// Get returns a copy of one record.
	Get(ctx context.Context, alertID string) (*domain.Record, error)
	// Stats counts records by status.
	Stats(ctx context.Context) (*domain.Stats, error)
	// Prune deletes COMPLETED and FAILED records processed before the cutoff
	// and reports how many were removed. PENDING records are never pruned.
	Prune(ctx context.Context, before time.Time) (int, error)
}

func validateUpdate(update domain.StatusUpdate) error {
	if !update.Status.IsTerminal() {
		return fmt.Errorf("update %s to %s: %w", update.AlertID, update.Status, domain.ErrNotTerminal)
	}

	return nil
}

// applyUpdate moves a PENDING record to the terminal status of update.
func applyUpdate(record *domain.Record, update domain.StatusUpdate) error {
	if record.Status != domain.StatusPending {
		return fmt.Errorf("update %s from %s: %w", record.AlertID, record.Status, domain.ErrNotPending)
	}

	processedAt := update.ProcessedAt.UTC()

	record.Status = update.Status
	record.ProcessedAt = &processedAt
	record.TargetRoomCount = update.TargetRoomCount
	record.ErrorMessage = update.ErrorMessage

	return nil
}

// expired reports whether a finalised record is older than the cutoff.
func expired(record *domain.Record, before time.Time) bool {
	return record.Status.IsTerminal() && record.ProcessedAt != nil && record.ProcessedAt.Before(before)
}

func countStatus(stats *domain.Stats, status domain.Status, n int) {
	stats.Total += n

	switch status {
	case domain.StatusPending:
		stats.Pending += n
	case domain.StatusCompleted:
		stats.Completed += n
	case domain.StatusFailed:
		stats.Failed += n
	}
}
