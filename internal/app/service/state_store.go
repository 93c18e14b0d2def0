package service

import (
	"context"

	"github.com/mykitchen/kitchen/internal/state"
	"github.com/mykitchen/kitchen/internal/store"
)

// StateStore is the client state the services read and mutate.
// *store.Store satisfies it.
type StateStore interface {
	Dispatch(ev state.Event) store.Snapshot
	Snapshot() store.Snapshot
	Go(ctx context.Context, fetch store.Fetch) <-chan error
}
