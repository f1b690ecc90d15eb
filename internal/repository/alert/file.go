package alert

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	domain "github.com/oshokin/alert-router/internal/domain/alert"
)

// filePermissions keeps the snapshot readable by the router user only.
const filePermissions = 0o600

// FileStore is a MemoryStore that rewrites a JSON snapshot on every change.
// The snapshot is written to a temporary file and renamed into place.
type FileStore struct {
	// path is the filesystem location of the JSON snapshot.
	path string
	// memory holds the records; its mutex also serialises snapshot writes.
	memory *MemoryStore
}

// fileRecord is the on-disk form of one record.
type fileRecord struct {
	AlertID         string     `json:"alertId"`
	TenantID        string     `json:"tenantId"`
	BuildingID      string     `json:"buildingId"`
	SourceRoomID    string     `json:"sourceRoomId"`
	SourceDeviceID  string     `json:"sourceDeviceId"`
	Origin          string     `json:"origin"`
	Mode            string     `json:"mode"`
	TriggeredAt     string     `json:"triggeredAt"`
	CausalChainID   string     `json:"causalChainId"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	ProcessedAt     *time.Time `json:"processedAt,omitempty"`
	TargetRoomCount int        `json:"targetRoomCount"`
	ErrorMessage    string     `json:"errorMessage,omitempty"`
}

// NewFileStore loads the snapshot at path. A missing file starts an empty store.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:   filepath.Clean(path),
		memory: NewMemoryStore(),
	}

	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}

		return nil, fmt.Errorf("read alert file: %w", err)
	}

	var records []fileRecord
	if err = json.Unmarshal(contents, &records); err != nil {
		return nil, fmt.Errorf("decode alert file: %w", err)
	}

	for i := range records {
		record := fromFile(&records[i])
		s.memory.records[record.AlertID] = record
	}

	return s, nil
}

// Insert stores the record and rewrites the snapshot.
func (s *FileStore) Insert(_ context.Context, record *domain.Record) error {
	s.memory.mu.Lock()
	defer s.memory.mu.Unlock()

	if err := s.memory.insertLocked(record); err != nil {
		return err
	}

	if err := s.saveLocked(); err != nil {
		delete(s.memory.records, record.AlertID)

		return err
	}

	return nil
}

// UpdateStatus finalises the record and rewrites the snapshot.
func (s *FileStore) UpdateStatus(_ context.Context, update domain.StatusUpdate) error {
	s.memory.mu.Lock()
	defer s.memory.mu.Unlock()

	previous, ok := s.memory.records[update.AlertID]
	if ok {
		previous = previous.Clone()
	}

	if err := s.memory.updateLocked(update); err != nil {
		return err
	}

	if err := s.saveLocked(); err != nil {
		s.memory.records[update.AlertID] = previous

		return err
	}

	return nil
}

// Get returns a copy of the record.
func (s *FileStore) Get(ctx context.Context, alertID string) (*domain.Record, error) {
	return s.memory.Get(ctx, alertID)
}

// Stats counts the records by status.
func (s *FileStore) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.memory.Stats(ctx)
}

// Prune drops finalised records processed before the cutoff and rewrites the snapshot.
func (s *FileStore) Prune(_ context.Context, before time.Time) (int, error) {
	s.memory.mu.Lock()
	defer s.memory.mu.Unlock()

	removed := s.memory.pruneLocked(before)
	if len(removed) == 0 {
		return 0, nil
	}

	if err := s.saveLocked(); err != nil {
		for _, record := range removed {
			s.memory.records[record.AlertID] = record
		}

		return 0, err
	}

	return len(removed), nil
}

// saveLocked must be called with the memory mutex held.
func (s *FileStore) saveLocked() error {
	records := make([]fileRecord, 0, len(s.memory.records))
	for _, record := range s.memory.records {
		records = append(records, toFile(record))
	}

	slices.SortFunc(records, func(a, b fileRecord) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.AlertID, b.AlertID))
	})

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode alerts: %w", err)
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("write alert file: %w", err)
	}

	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace alert file: %w", err)
	}

	return nil
}

func fromFile(r *fileRecord) *domain.Record {
	return &domain.Record{
		AlertID:         r.AlertID,
		TenantID:        r.TenantID,
		BuildingID:      r.BuildingID,
		SourceRoomID:    r.SourceRoomID,
		SourceDeviceID:  r.SourceDeviceID,
		Origin:          r.Origin,
		Mode:            r.Mode,
		TriggeredAt:     r.TriggeredAt,
		CausalChainID:   r.CausalChainID,
		Status:          domain.Status(r.Status),
		CreatedAt:       r.CreatedAt,
		ProcessedAt:     r.ProcessedAt,
		TargetRoomCount: r.TargetRoomCount,
		ErrorMessage:    r.ErrorMessage,
	}
}

func toFile(r *domain.Record) fileRecord {
	return fileRecord{
		AlertID:         r.AlertID,
		TenantID:        r.TenantID,
		BuildingID:      r.BuildingID,
		SourceRoomID:    r.SourceRoomID,
		SourceDeviceID:  r.SourceDeviceID,
		Origin:          r.Origin,
		Mode:            r.Mode,
		TriggeredAt:     r.TriggeredAt,
		CausalChainID:   r.CausalChainID,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		ProcessedAt:     r.ProcessedAt,
		TargetRoomCount: r.TargetRoomCount,
		ErrorMessage:    r.ErrorMessage,
	}
}
