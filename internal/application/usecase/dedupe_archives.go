package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/bnema/tabsaver/internal/application/port"
	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/logging"
)

// DedupeStats summarizes one deduplication run.
type DedupeStats struct {
	Scanned        int `json:"scanned"`
	Removed        int `json:"removed"`
	FoldersRemoved int `json:"foldersRemoved"`
}

// DedupeArchivesUseCase collapses duplicate URLs across archive folders to
// the most recent copy and prunes folders emptied by the removal. Deletions
// happen one item at a time with no batching and no rollback: a crash
// mid-run leaves a partially deduplicated, still-valid state that a
// subsequent run continues, since the duplicate mapping is recomputed from
// scratch every time.
type DedupeArchivesUseCase struct {
	bookmarks port.BookmarkDirectory
	locator   *LocateArchiveRootUseCase
}

// NewDedupeArchivesUseCase creates the dedup engine.
func NewDedupeArchivesUseCase(bookmarks port.BookmarkDirectory, locator *LocateArchiveRootUseCase) *DedupeArchivesUseCase {
	return &DedupeArchivesUseCase{bookmarks: bookmarks, locator: locator}
}

// Execute runs the four dedup phases. progress may be nil; when set it
// receives a monotonic percentage 0-100.
func (uc *DedupeArchivesUseCase) Execute(ctx context.Context, progress port.ProgressFunc) (DedupeStats, error) {
	log := logging.FromContext(ctx)
	stats := DedupeStats{}
	report := func(percent int) {
		if progress != nil {
			progress(percent)
		}
	}
	report(0)

	// Phase 1: discovery.
	root, err := uc.locator.Execute(ctx)
	if err != nil {
		return stats, fmt.Errorf("locate archive root: %w", err)
	}
	children, err := uc.bookmarks.Children(ctx, root.ID)
	if err != nil {
		return stats, fmt.Errorf("list archive root children: %w", err)
	}
	var folders []*entity.BookmarkNode
	for _, child := range children {
		if child.IsFolder() && entity.MatchesArchiveConvention(child.Title) {
			folders = append(folders, child)
		}
	}
	report(10)
	log.Debug().Int("folders", len(folders)).Msg("archive folders discovered")

	// Phase 2: scan.
	byURL := make(map[string][]*entity.BookmarkNode)
	var urlOrder []string
	for i, folder := range folders {
		items, err := uc.bookmarks.Children(ctx, folder.ID)
		if err != nil {
			log.Warn().Err(err).Str("folder", folder.Title).Msg("skipping unreadable folder")
			continue
		}
		for _, item := range items {
			if item.IsFolder() {
				continue
			}
			stats.Scanned++
			if _, seen := byURL[item.URL]; !seen {
				urlOrder = append(urlOrder, item.URL)
			}
			byURL[item.URL] = append(byURL[item.URL], item)
		}
		report(10 + 30*(i+1)/len(folders))
	}

	// Phase 3: resolve. Keep the most recent item per URL; encounter order
	// breaks creation-time ties.
	var duplicated []string
	for _, url := range urlOrder {
		if len(byURL[url]) > 1 {
			duplicated = append(duplicated, url)
		}
	}
	report(40)
	for i, url := range duplicated {
		items := byURL[url]
		sort.SliceStable(items, func(a, b int) bool {
			return items[a].DateAdded > items[b].DateAdded
		})
		for _, item := range items[1:] {
			if err := uc.bookmarks.Remove(ctx, item.ID); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("duplicate removal failed")
				continue
			}
			stats.Removed++
		}
		report(40 + 50*(i+1)/len(duplicated))
	}
	report(90)

	// Phase 4: sweep folders emptied by the removal.
	for i, folder := range folders {
		items, err := uc.bookmarks.Children(ctx, folder.ID)
		if err != nil {
			log.Warn().Err(err).Str("folder", folder.Title).Msg("sweep listing failed")
			continue
		}
		if len(items) > 0 {
			continue
		}
		if err := uc.bookmarks.Remove(ctx, folder.ID); err != nil {
			log.Warn().Err(err).Str("folder", folder.Title).Msg("empty folder removal failed")
			continue
		}
		stats.FoldersRemoved++
		report(90 + 10*(i+1)/len(folders))
	}
	report(100)

	log.Info().
		Int("scanned", stats.Scanned).
		Int("removed", stats.Removed).
		Int("folders_removed", stats.FoldersRemoved).
		Msg("deduplication finished")
	return stats, nil
}
