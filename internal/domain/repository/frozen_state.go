package repository

import (
	"context"

	"github.com/bnema/tabsaver/internal/domain/entity"
)

// FrozenStateRepository persists the tabId -> FrozenTabState map. Presence of
// a record is the sole source of truth for "is this tab frozen". The store
// offers no transactional guarantees across calls; all mutations are routed
// through a single serialized writer to keep last-writer-wins races per-entry
// rather than per-map.
type FrozenStateRepository interface {
	// All returns the full frozen-state map.
	All(ctx context.Context) (map[entity.TabID]*entity.FrozenTabState, error)

	// Get returns the state for one tab, or nil when the tab is not frozen.
	Get(ctx context.Context, id entity.TabID) (*entity.FrozenTabState, error)

	// Put inserts or replaces the state for a tab.
	Put(ctx context.Context, state *entity.FrozenTabState) error

	// Delete removes a tab's state. Deleting an absent entry is not an error.
	Delete(ctx context.Context, id entity.TabID) error

	// Clear removes every entry. Invoked on host storage-reset events only.
	Clear(ctx context.Context) error
}
