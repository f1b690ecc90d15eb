package topology

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const roomsPath = "/api/rooms"

// CloudConfig points at the cloud backend.
type CloudConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
	Retries int           `yaml:"retries"`
	// UserAgent is filled in by the binary, not read from configuration.
	UserAgent string `yaml:"-"`
}

// CloudStore asks the cloud backend for the rooms of a building.
type CloudStore struct {
	client *resty.Client
}

// cloudRoom is one element of the rooms API response.
type cloudRoom struct {
	ID         string `json:"id"`
	BuildingID string `json:"buildingId"`
	Name       string `json:"name"`
	Capacity   *int   `json:"capacity,omitempty"`
	Floor      *int   `json:"floor,omitempty"`
}

// NewCloudStore creates a resty client for the rooms API.
func NewCloudStore(cfg CloudConfig) *CloudStore {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &CloudStore{client: client}
}

// RoomsForBuilding calls GET /api/rooms?buildingId=... and returns the room ids.
func (s *CloudStore) RoomsForBuilding(ctx context.Context, buildingID string) ([]string, error) {
	var rooms []cloudRoom

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("buildingId", buildingID).
		SetResult(&rooms).
		Get(roomsPath)
	if err != nil {
		return nil, fmt.Errorf("request rooms of %s: %w", buildingID, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("request rooms of %s: %w: %d", buildingID, ErrCloudStatus, resp.StatusCode())
	}

	ids := make([]string, 0, len(rooms))

	for _, room := range rooms {
		// The API filters by building, but a stale proxy cache must not leak foreign rooms.
		if room.BuildingID != "" && room.BuildingID != buildingID {
			continue
		}

		ids = append(ids, room.ID)
	}

	return normalizeRooms(ids), nil
}
