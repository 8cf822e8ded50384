package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/bnema/tabsaver/internal/application/port"
	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/logging"
)

// recentArchiveLimit caps how many folders the UI shows.
const recentArchiveLimit = 10

// ListRecentArchivesUseCase lists the most recent archive folders.
type ListRecentArchivesUseCase struct {
	bookmarks port.BookmarkDirectory
	locator   *LocateArchiveRootUseCase
}

// NewListRecentArchivesUseCase creates the listing use case.
func NewListRecentArchivesUseCase(bookmarks port.BookmarkDirectory, locator *LocateArchiveRootUseCase) *ListRecentArchivesUseCase {
	return &ListRecentArchivesUseCase{bookmarks: bookmarks, locator: locator}
}

// Execute returns up to ten archive folders, newest first, each with its
// item count.
func (uc *ListRecentArchivesUseCase) Execute(ctx context.Context) ([]entity.RecentArchiveFolder, error) {
	root, err := uc.locator.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("locate archive root: %w", err)
	}

	children, err := uc.bookmarks.Children(ctx, root.ID)
	if err != nil {
		return nil, fmt.Errorf("list archive root children: %w", err)
	}

	log := logging.FromContext(ctx)
	folders := make([]entity.RecentArchiveFolder, 0, recentArchiveLimit)
	for _, child := range children {
		if !child.IsFolder() || !entity.MatchesArchiveConvention(child.Title) {
			continue
		}
		items, err := uc.bookmarks.Children(ctx, child.ID)
		if err != nil {
			log.Warn().Err(err).Str("folder", child.Title).Msg("skipping unreadable archive folder")
			continue
		}
		folders = append(folders, entity.RecentArchiveFolder{
			ID:        child.ID,
			Title:     child.Title,
			DateAdded: child.DateAdded,
			TabCount:  len(items),
		})
	}

	sort.SliceStable(folders, func(a, b int) bool {
		return folders[a].DateAdded > folders[b].DateAdded
	})
	if len(folders) > recentArchiveLimit {
		folders = folders[:recentArchiveLimit]
	}
	return folders, nil
}
