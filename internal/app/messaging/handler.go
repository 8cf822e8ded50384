package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/tabsaver/internal/application/port"
	"github.com/bnema/tabsaver/internal/application/usecase"
	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/logging"
)

// Message is an action request from the extension popup. One flat struct
// covers every action; unused fields stay at their zero value.
type Message struct {
	Action string `json:"action"`
	// RequestID is echoed back so the popup can correlate responses when
	// several actions are in flight.
	RequestID string `json:"requestId,omitempty"`
	// saveTabsToBookmarks
	Tabs             []entity.Tab `json:"tabs,omitempty"`
	CustomFolderName string       `json:"customFolderName,omitempty"`
	// freezeTabs / thawTabs
	TabIDs []entity.TabID `json:"tabIds,omitempty"`
	// thawTab
	TabID       entity.TabID `json:"tabId,omitempty"`
	OriginalURL string       `json:"originalUrl,omitempty"`
	ScrollX     int          `json:"scrollX,omitempty"`
	ScrollY     int          `json:"scrollY,omitempty"`
	// restoreArchive
	FolderID entity.BookmarkID `json:"folderId,omitempty"`
}

// EventEmitter pushes unsolicited events back to the extension, such as
// dedupe progress ticks.
type EventEmitter interface {
	Emit(event string, payload any) error
}

// UseCases bundles everything the handler dispatches to.
type UseCases struct {
	Archive        *usecase.ArchiveTabsUseCase
	Dedupe         *usecase.DedupeArchivesUseCase
	Freeze         *usecase.FreezeTabsUseCase
	Thaw           *usecase.ThawTabUseCase
	ThawMany       *usecase.ThawTabsUseCase
	ListFrozen     *usecase.ListFrozenTabsUseCase
	Savings        *usecase.RecordSavingsUseCase
	RecentArchives *usecase.ListRecentArchivesUseCase
	Restore        *usecase.RestoreArchiveUseCase
}

// Handler routes action requests to use cases and shapes their responses.
type Handler struct {
	tabs        port.TabDirectory
	usecases    UseCases
	emitter     EventEmitter
	folderLabel string
	now         func() time.Time
}

// NewHandler creates a message handler. now may be nil for time.Now.
func NewHandler(tabs port.TabDirectory, usecases UseCases, emitter EventEmitter, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{tabs: tabs, usecases: usecases, emitter: emitter, now: now}
}

// SetDefaultFolderLabel overrides the archive folder label used when a
// request does not name one.
func (h *Handler) SetDefaultFolderLabel(label string) {
	h.folderLabel = label
}

// Handle dispatches one action request. The returned value is the response
// payload; a non-nil error means the whole action failed and the caller
// should report {success: false}.
func (h *Handler) Handle(ctx context.Context, msg Message) (any, error) {
	ctx = logging.WithAction(ctx, msg.Action)
	logging.FromContext(ctx).Debug().Msg("handling action")

	switch msg.Action {
	case "getTabs":
		return h.handleGetTabs(ctx)
	case "saveTabsToBookmarks":
		return h.handleSaveTabs(ctx, msg)
	case "freezeTabs":
		return h.handleFreezeTabs(ctx, msg)
	case "thawTab":
		return h.handleThawTab(ctx, msg)
	case "thawTabs":
		return h.handleThawTabs(ctx, msg)
	case "getFrozenTabs":
		return h.handleGetFrozenTabs(ctx)
	case "dedupeBookmarks":
		return h.handleDedupe(ctx)
	case "listRecentArchives":
		return h.handleListRecentArchives(ctx)
	case "suggestFolderNames":
		return h.handleSuggestFolderNames(ctx, msg)
	case "freezeSuggestions":
		return h.handleFreezeSuggestions(ctx)
	case "restoreArchive":
		return h.handleRestoreArchive(ctx, msg)
	case "getSavings":
		return h.handleGetSavings(ctx)
	default:
		return nil, fmt.Errorf("unknown action: %q", msg.Action)
	}
}

func (h *Handler) handleGetTabs(ctx context.Context) (any, error) {
	tabs, err := h.tabs.Query(ctx, port.TabQuery{CurrentWindow: true})
	if err != nil {
		return nil, fmt.Errorf("query tabs: %w", err)
	}
	frozen, err := h.usecases.ListFrozen.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("load frozen states: %w", err)
	}

	for i := range tabs {
		tab := &tabs[i]
		_, isFrozen := frozen[tab.ID]
		tab.Frozen = isFrozen || entity.IsPlaceholderURL(tab.URL)
		estimate := entity.EstimateTabMemory(tab.ID, tab.URL, tab.Frozen)
		tab.Memory = &estimate
	}
	return map[string]any{"success": true, "tabs": tabs}, nil
}

func (h *Handler) handleSaveTabs(ctx context.Context, msg Message) (any, error) {
	label := msg.CustomFolderName
	if label == "" {
		label = h.folderLabel
	}
	out, err := h.usecases.Archive.Execute(ctx, usecase.ArchiveTabsInput{
		Tabs:        msg.Tabs,
		CustomLabel: label,
	})
	if err != nil {
		return nil, err
	}

	saved := 0
	for _, result := range out.Results {
		if result.OK {
			saved++
		}
	}
	return map[string]any{
		"success":    true,
		"folderName": out.FolderName,
		"folderId":   out.FolderID,
		"saved":      saved,
		"failed":     len(out.Results) - saved,
		"results":    out.Results,
	}, nil
}

func (h *Handler) handleFreezeTabs(ctx context.Context, msg Message) (any, error) {
	out, err := h.usecases.Freeze.Execute(ctx, msg.TabIDs)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"success":        true,
		"frozenCount":    out.FrozenCount,
		"skippedCount":   out.SkippedCount,
		"skippedReasons": out.SkippedReasons,
		"savedMB":        out.SavedMB,
	}, nil
}

func (h *Handler) handleThawTab(ctx context.Context, msg Message) (any, error) {
	err := h.usecases.Thaw.Execute(ctx, usecase.ThawTabInput{
		TabID:       msg.TabID,
		OriginalURL: msg.OriginalURL,
		Scroll:      port.ScrollOffset{X: msg.ScrollX, Y: msg.ScrollY},
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true}, nil
}

func (h *Handler) handleThawTabs(ctx context.Context, msg Message) (any, error) {
	thawed, err := h.usecases.ThawMany.Execute(ctx, msg.TabIDs)
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "thawedCount": thawed}, nil
}

func (h *Handler) handleGetFrozenTabs(ctx context.Context) (any, error) {
	states, err := h.usecases.ListFrozen.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "frozenTabs": states}, nil
}

func (h *Handler) handleDedupe(ctx context.Context) (any, error) {
	stats, err := h.usecases.Dedupe.Execute(ctx, h.progressFunc(ctx))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"success":        true,
		"scanned":        stats.Scanned,
		"removed":        stats.Removed,
		"foldersRemoved": stats.FoldersRemoved,
	}, nil
}

// progressFunc bridges dedupe progress onto the event channel. Emission
// failures only get logged; progress is advisory.
func (h *Handler) progressFunc(ctx context.Context) port.ProgressFunc {
	if h.emitter == nil {
		return nil
	}
	log := logging.FromContext(ctx)
	return func(percent int) {
		if err := h.emitter.Emit("dedupeProgress", map[string]any{"percent": percent}); err != nil {
			log.Debug().Err(err).Int("percent", percent).Msg("dropping progress event")
		}
	}
}

func (h *Handler) handleListRecentArchives(ctx context.Context) (any, error) {
	folders, err := h.usecases.RecentArchives.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "folders": folders}, nil
}

func (h *Handler) handleSuggestFolderNames(ctx context.Context, msg Message) (any, error) {
	tabs := msg.Tabs
	if len(tabs) == 0 {
		queried, err := h.tabs.Query(ctx, port.TabQuery{CurrentWindow: true})
		if err != nil {
			return nil, fmt.Errorf("query tabs: %w", err)
		}
		tabs = queried
	}
	return map[string]any{
		"success":     true,
		"suggestions": entity.SuggestFolderNames(tabs, h.now()),
	}, nil
}

func (h *Handler) handleFreezeSuggestions(ctx context.Context) (any, error) {
	tabs, err := h.tabs.Query(ctx, port.TabQuery{CurrentWindow: true})
	if err != nil {
		return nil, fmt.Errorf("query tabs: %w", err)
	}
	return map[string]any{
		"success":     true,
		"suggestions": entity.SuggestFreezes(tabs),
	}, nil
}

func (h *Handler) handleRestoreArchive(ctx context.Context, msg Message) (any, error) {
	if msg.FolderID == "" {
		return nil, fmt.Errorf("restoreArchive requires folderId")
	}
	opened, skipped, err := h.usecases.Restore.Execute(ctx, msg.FolderID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "opened": opened, "skipped": skipped}, nil
}

func (h *Handler) handleGetSavings(ctx context.Context) (any, error) {
	history, err := h.usecases.Savings.History(ctx)
	if err != nil {
		return nil, err
	}
	recentMB, recentTabs := history.Recent(30, h.now())
	return map[string]any{
		"success":          true,
		"totalSavedMB":     history.TotalSavedMB,
		"totalTabsFrozen":  history.TotalTabsFrozen,
		"recentSavedMB":    recentMB,
		"recentTabsFrozen": recentTabs,
		"records":          history.Records,
	}, nil
}
