// Package port declares the host-browser capabilities the application layer
// consumes. Implementations live in internal/infrastructure; every method
// represents a suspension point that may interleave with other in-flight
// requests.
package port

import (
	"context"

	"github.com/bnema/tabsaver/internal/domain/entity"
)

// TabQuery selects which tabs a directory query returns.
type TabQuery struct {
	CurrentWindow bool `json:"currentWindow"`
}

// TabDirectory is the host's live tab list.
type TabDirectory interface {
	// Query lists live tabs matching the query.
	Query(ctx context.Context, q TabQuery) ([]entity.Tab, error)

	// Get fetches one tab by id. Returns an error when the tab is gone.
	Get(ctx context.Context, id entity.TabID) (*entity.Tab, error)

	// Navigate points a tab at a new URL.
	Navigate(ctx context.Context, id entity.TabID, url string) error

	// Create opens a new tab.
	Create(ctx context.Context, url string, active bool) (*entity.Tab, error)
}

// BookmarkDirectory is the host's bookmark tree, the system of record for
// archives. No separate index is persisted for it.
type BookmarkDirectory interface {
	// Tree returns the root nodes of the full bookmark tree.
	Tree(ctx context.Context) ([]*entity.BookmarkNode, error)

	// Children lists the direct children of a folder.
	Children(ctx context.Context, id entity.BookmarkID) ([]*entity.BookmarkNode, error)

	// CreateFolder creates a folder under parent.
	CreateFolder(ctx context.Context, parent entity.BookmarkID, title string) (*entity.BookmarkNode, error)

	// CreateBookmark creates a bookmark item under parent.
	CreateBookmark(ctx context.Context, parent entity.BookmarkID, title, url string) (*entity.BookmarkNode, error)

	// Remove deletes a bookmark item or an empty folder.
	Remove(ctx context.Context, id entity.BookmarkID) error
}

// ScrollOffset is a captured viewport position.
type ScrollOffset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ScriptInjector runs small scripts inside a tab. Both operations are
// best-effort: callers treat failures as a quality degradation, never as a
// reason to abort.
type ScriptInjector interface {
	// CaptureScroll reads the tab's current viewport offset.
	CaptureScroll(ctx context.Context, id entity.TabID) (ScrollOffset, error)

	// RestoreScroll scrolls the tab to the given offset.
	RestoreScroll(ctx context.Context, id entity.TabID, offset ScrollOffset) error
}

// TabEvents delivers tab lifecycle notifications pushed by the host.
type TabEvents interface {
	// SubscribeLoaded registers a one-shot observer for "this tab finished
	// loading". The returned channel receives at most one value; the cancel
	// function must be called to release the subscription.
	SubscribeLoaded(id entity.TabID) (<-chan struct{}, func())
}

// Runtime resolves extension-internal resources.
type Runtime interface {
	// PlaceholderBase returns the absolute URL of the placeholder page.
	PlaceholderBase(ctx context.Context) (string, error)
}

// ProgressFunc receives coarse progress as a monotonic percentage 0-100.
// Reporting is advisory only and must never block correctness.
type ProgressFunc func(percent int)
