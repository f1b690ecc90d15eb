package topology

import (
	"context"
	"sync/atomic"
)

// fakeStore returns canned rooms or an error and counts calls.
type fakeStore struct {
	rooms []string
	err   error
	calls atomic.Int32
}

func (f *fakeStore) RoomsForBuilding(context.Context, string) ([]string, error) {
	f.calls.Add(1)

	return f.rooms, f.err
}

// blockingStore answers only when the lookup context ends.
type blockingStore struct{}

func (blockingStore) RoomsForBuilding(ctx context.Context, _ string) ([]string, error) {
	<-ctx.Done()

	return nil, ctx.Err()
}
