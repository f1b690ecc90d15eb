package alert

import (
	"context"
	"time"

	"github.com/oshokin/alert-router/internal/logger"
)

// DefaultPruneInterval is how often the retention loop runs when no interval is set.
const DefaultPruneInterval = time.Hour

// Retention bounds the size of a store by pruning finalised records older than maxAge.
type Retention struct {
	store    Store
	maxAge   time.Duration
	interval time.Duration
}

// NewRetention creates a retention loop. A non-positive maxAge keeps records forever.
func NewRetention(store Store, maxAge, interval time.Duration) *Retention {
	if interval <= 0 {
		interval = DefaultPruneInterval
	}

	return &Retention{
		store:    store,
		maxAge:   maxAge,
		interval: interval,
	}
}

// Enabled reports whether records ever expire.
func (r *Retention) Enabled() bool {
	return r.maxAge > 0
}

// PruneOnce removes records processed more than maxAge ago.
func (r *Retention) PruneOnce(ctx context.Context) (int, error) {
	if !r.Enabled() {
		return 0, nil
	}

	return r.store.Prune(ctx, time.Now().Add(-r.maxAge))
}

// Run prunes once at start and then on every tick until ctx is done.
func (r *Retention) Run(ctx context.Context) {
	if !r.Enabled() {
		return
	}

	r.prune(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.prune(ctx)
		}
	}
}

func (r *Retention) prune(ctx context.Context) {
	removed, err := r.PruneOnce(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Failed to prune alert records", "error", err)

		return
	}

	if removed > 0 {
		logger.InfoKV(ctx, "Pruned expired alert records", "count", removed, "max_age", r.maxAge)
	}
}
