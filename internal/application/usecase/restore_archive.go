package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/tabsaver/internal/application/port"
	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/logging"
)

// RestoreArchiveUseCase reopens an archive folder's bookmarks as background
// tabs, one at a time.
type RestoreArchiveUseCase struct {
	bookmarks port.BookmarkDirectory
	tabs      port.TabDirectory
}

// NewRestoreArchiveUseCase creates the restore use case.
func NewRestoreArchiveUseCase(bookmarks port.BookmarkDirectory, tabs port.TabDirectory) *RestoreArchiveUseCase {
	return &RestoreArchiveUseCase{bookmarks: bookmarks, tabs: tabs}
}

// Execute opens every bookmark in the folder. Per-item failures are logged
// and counted as skipped, never aborting the batch.
func (uc *RestoreArchiveUseCase) Execute(ctx context.Context, folderID entity.BookmarkID) (opened, skipped int, err error) {
	log := logging.FromContext(ctx)

	items, err := uc.bookmarks.Children(ctx, folderID)
	if err != nil {
		return 0, 0, fmt.Errorf("list archive folder: %w", err)
	}

	for _, item := range items {
		if item.IsFolder() {
			continue
		}
		if _, err := uc.tabs.Create(ctx, item.URL, false); err != nil {
			log.Warn().Err(err).Str("url", item.URL).Msg("failed to open archived tab")
			skipped++
			continue
		}
		opened++
	}

	log.Info().Int("opened", opened).Int("skipped", skipped).Msg("archive restored")
	return opened, skipped, nil
}
