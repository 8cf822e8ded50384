package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/tabsaver/internal/application/port"
	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/logging"
)

// ErrNoTabs is returned when an export request carries an empty tab list.
var ErrNoTabs = errors.New("no tabs provided")

// ArchiveTabsUseCase exports tabs into a timestamped bookmark folder.
type ArchiveTabsUseCase struct {
	bookmarks port.BookmarkDirectory
	locator   *LocateArchiveRootUseCase
	now       func() time.Time
}

// NewArchiveTabsUseCase creates the archive use case. now may be nil, in
// which case time.Now is used.
func NewArchiveTabsUseCase(bookmarks port.BookmarkDirectory, locator *LocateArchiveRootUseCase, now func() time.Time) *ArchiveTabsUseCase {
	if now == nil {
		now = time.Now
	}
	return &ArchiveTabsUseCase{bookmarks: bookmarks, locator: locator, now: now}
}

// ArchiveTabsInput carries the tabs to export and an optional folder label.
type ArchiveTabsInput struct {
	Tabs        []entity.Tab
	CustomLabel string
}

// ArchiveItemResult is the per-tab outcome of an export.
type ArchiveItemResult struct {
	TabID      entity.TabID      `json:"tabId"`
	OK         bool              `json:"ok"`
	Title      string            `json:"title"`
	URL        string            `json:"url"`
	Error      string            `json:"error,omitempty"`
	BookmarkID entity.BookmarkID `json:"bookmarkId,omitempty"`
}

// ArchiveTabsOutput is the batch outcome: one result per input tab plus the
// created folder.
type ArchiveTabsOutput struct {
	Results    []ArchiveItemResult
	FolderName string
	FolderID   entity.BookmarkID
}

// Execute creates the archive folder and one bookmark per tab, strictly
// sequentially. A failure on one tab is recorded and processing continues;
// the call itself fails only when it cannot even start (empty input, root
// lookup, folder creation).
func (uc *ArchiveTabsUseCase) Execute(ctx context.Context, input ArchiveTabsInput) (*ArchiveTabsOutput, error) {
	log := logging.FromContext(ctx)

	if len(input.Tabs) == 0 {
		return nil, ErrNoTabs
	}

	root, err := uc.locator.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("locate archive root: %w", err)
	}

	folderName := entity.ArchiveFolderName(input.CustomLabel, uc.now())
	folder, err := uc.bookmarks.CreateFolder(ctx, root.ID, folderName)
	if err != nil {
		return nil, fmt.Errorf("create archive folder %q: %w", folderName, err)
	}

	log.Info().Str("folder", folderName).Int("tabs", len(input.Tabs)).Msg("archiving tabs")

	results := make([]ArchiveItemResult, 0, len(input.Tabs))
	for _, tab := range input.Tabs {
		results = append(results, uc.archiveOne(ctx, folder.ID, tab))
	}

	return &ArchiveTabsOutput{
		Results:    results,
		FolderName: folderName,
		FolderID:   folder.ID,
	}, nil
}

func (uc *ArchiveTabsUseCase) archiveOne(ctx context.Context, folderID entity.BookmarkID, tab entity.Tab) ArchiveItemResult {
	result := ArchiveItemResult{TabID: tab.ID, Title: tab.Title, URL: tab.URL}

	if entity.HasInternalScheme(tab.URL) {
		result.Error = "internal browser pages cannot be bookmarked"
		return result
	}

	title := tab.Title
	if title == "" {
		title = tab.URL
	}

	bookmark, err := uc.bookmarks.CreateBookmark(ctx, folderID, title, tab.URL)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Int("tab_id", int(tab.ID)).Msg("bookmark creation failed")
		result.Error = err.Error()
		return result
	}

	result.OK = true
	result.BookmarkID = bookmark.ID
	return result
}
