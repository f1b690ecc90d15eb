package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "github.com/oshokin/alert-router/internal/domain/alert"
)

// MemoryStore keeps records in a map guarded by a mutex.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*domain.Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*domain.Record),
	}
}

// Insert stores a copy of record.
func (s *MemoryStore) Insert(_ context.Context, record *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(record)
}

// UpdateStatus finalises a PENDING record.
func (s *MemoryStore) UpdateStatus(_ context.Context, update domain.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateLocked(update)
}

// Get returns a copy of the record.
func (s *MemoryStore) Get(_ context.Context, alertID string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[alertID]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", alertID, domain.ErrNotFound)
	}

	return record.Clone(), nil
}

// Stats counts the records by status.
func (s *MemoryStore) Stats(_ context.Context) (*domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := new(domain.Stats)
	for _, record := range s.records {
		countStatus(stats, record.Status, 1)
	}

	return stats, nil
}

// Prune drops finalised records processed before the cutoff.
func (s *MemoryStore) Prune(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pruneLocked(before)), nil
}

// pruneLocked returns the removed records so a caller can restore them.
func (s *MemoryStore) pruneLocked(before time.Time) []*domain.Record {
	var removed []*domain.Record

	for alertID, record := range s.records {
		if expired(record, before) {
			removed = append(removed, record)
			delete(s.records, alertID)
		}
	}

	return removed
}

func (s *MemoryStore) insertLocked(record *domain.Record) error {
	if _, ok := s.records[record.AlertID]; ok {
		return fmt.Errorf("insert %s: %w", record.AlertID, domain.ErrAlreadyExists)
	}

	s.records[record.AlertID] = record.Clone()

	return nil
}

func (s *MemoryStore) updateLocked(update domain.StatusUpdate) error {
	if err := validateUpdate(update); err != nil {
		return err
	}

	record, ok := s.records[update.AlertID]
	if !ok {
		return fmt.Errorf("update %s: %w", update.AlertID, domain.ErrNotFound)
	}

	return applyUpdate(record, update)
}
