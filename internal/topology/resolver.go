package topology

import (
	"context"
	"time"

	"github.com/oshokin/alert-router/internal/logger"
	"github.com/oshokin/alert-router/internal/metrics"
)

// Source names which store answered a lookup.
type Source string

const (
	// SourceLive is the configured live store.
	SourceLive Source = "live"
	// SourceFallback is the static table.
	SourceFallback Source = "fallback"
	// SourceNone means neither store knows the building.
	SourceNone Source = "none"
)

// DefaultLookupTimeout bounds one live store lookup.
const DefaultLookupTimeout = 2 * time.Second

// Resolver consults the live store and falls back to the static table.
// A non-empty live answer is authoritative even if the static table lists more rooms.
type Resolver struct {
	live          Store
	fallback      *StaticTable
	lookupTimeout time.Duration
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLookupTimeout overrides DefaultLookupTimeout. Non-positive values are ignored.
func WithLookupTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		if timeout > 0 {
			r.lookupTimeout = timeout
		}
	}
}

// NewResolver creates a resolver. live may be nil, in which case only the table is used.
func NewResolver(live Store, fallback *StaticTable, opts ...ResolverOption) *Resolver {
	if fallback == nil {
		fallback = NewStaticTable(nil)
	}

	r := &Resolver{
		live:          live,
		fallback:      fallback,
		lookupTimeout: DefaultLookupTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Fallback returns the static table so it can be reloaded at runtime.
func (r *Resolver) Fallback() *StaticTable {
	return r.fallback
}

// Resolve returns the sorted, de-duplicated rooms of a building and where they came from.
// It never fails: live store errors and lookups slower than the lookup timeout are
// logged and answered from the table.
func (r *Resolver) Resolve(ctx context.Context, buildingID string) ([]string, Source) {
	if r.live != nil {
		rooms, err := r.lookupLive(ctx, buildingID)

		switch {
		case err != nil:
			logger.WarnKV(ctx, "Live topology lookup failed, using fallback table",
				"building_id", buildingID,
				"error", err)
		case len(rooms) > 0:
			metrics.TopologyLookup(string(SourceLive))

			return normalizeRooms(rooms), SourceLive
		default:
			logger.DebugKV(ctx, "Live topology has no rooms, using fallback table", "building_id", buildingID)
		}
	}

	rooms, _ := r.fallback.RoomsForBuilding(ctx, buildingID)
	if len(rooms) == 0 {
		metrics.TopologyLookup(string(SourceNone))

		return nil, SourceNone
	}

	metrics.TopologyLookup(string(SourceFallback))

	return rooms, SourceFallback
}

func (r *Resolver) lookupLive(ctx context.Context, buildingID string) ([]string, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	return r.live.RoomsForBuilding(lookupCtx, buildingID)
}
