package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/tabsaver/internal/application/port"
	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/domain/repository"
	"github.com/bnema/tabsaver/internal/logging"
)

// FreezeTabsUseCase replaces live tabs with lightweight placeholders,
// persisting restoration state first. Tabs in a batch are processed strictly
// sequentially; a failure partway through one tab is counted as skipped and
// never aborts the rest.
type FreezeTabsUseCase struct {
	tabs    port.TabDirectory
	script  port.ScriptInjector
	runtime port.Runtime
	states  repository.FrozenStateRepository
	savings *RecordSavingsUseCase

	// placeholderBase overrides the runtime-resolved placeholder URL when
	// non-empty (config escape hatch).
	placeholderBase string
	now             func() time.Time
}

// NewFreezeTabsUseCase creates the freeze use case. savings may be nil to
// disable accounting; now may be nil for time.Now.
func NewFreezeTabsUseCase(
	tabs port.TabDirectory,
	script port.ScriptInjector,
	runtime port.Runtime,
	states repository.FrozenStateRepository,
	savings *RecordSavingsUseCase,
	placeholderBase string,
	now func() time.Time,
) *FreezeTabsUseCase {
	if now == nil {
		now = time.Now
	}
	return &FreezeTabsUseCase{
		tabs:            tabs,
		script:          script,
		runtime:         runtime,
		states:          states,
		savings:         savings,
		placeholderBase: placeholderBase,
		now:             now,
	}
}

// FreezeTabsOutput aggregates the batch outcome.
type FreezeTabsOutput struct {
	FrozenCount    int
	SkippedCount   int
	SkippedReasons []string
	SavedMB        int
}

// Execute freezes each tab independently. Savings accounting runs once on
// the success branch, after the whole batch.
func (uc *FreezeTabsUseCase) Execute(ctx context.Context, ids []entity.TabID) (*FreezeTabsOutput, error) {
	log := logging.FromContext(ctx)
	out := &FreezeTabsOutput{}

	base, err := uc.resolvePlaceholderBase(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve placeholder page URL: %w", err)
	}

	for _, id := range ids {
		if reason := uc.freezeOne(ctx, id, base, out); reason != "" {
			out.SkippedCount++
			out.SkippedReasons = append(out.SkippedReasons, reason)
		}
	}

	if out.FrozenCount > 0 && uc.savings != nil {
		if err := uc.savings.Record(ctx, out.FrozenCount, out.SavedMB); err != nil {
			log.Warn().Err(err).Msg("savings accounting failed")
		}
	}

	log.Info().
		Int("frozen", out.FrozenCount).
		Int("skipped", out.SkippedCount).
		Int("saved_mb", out.SavedMB).
		Msg("freeze batch finished")
	return out, nil
}

// freezeOne returns a non-empty skip reason on failure.
func (uc *FreezeTabsUseCase) freezeOne(ctx context.Context, id entity.TabID, base string, out *FreezeTabsOutput) string {
	log := logging.FromContext(ctx)

	tab, err := uc.tabs.Get(ctx, id)
	if err != nil {
		return fmt.Sprintf("tab %d: %v", id, err)
	}

	verdict := entity.CanFreeze(*tab)
	if !verdict.OK {
		return fmt.Sprintf("tab %d: %s", id, verdict.Reason)
	}

	// Best-effort scroll capture: failure degrades to 0,0, never aborts.
	offset, err := uc.script.CaptureScroll(ctx, id)
	if err != nil {
		log.Debug().Err(err).Int("tab_id", int(id)).Msg("scroll capture failed, using 0,0")
		offset = port.ScrollOffset{}
	}

	state := &entity.FrozenTabState{
		TabID:       id,
		OriginalURL: tab.URL,
		Title:       tab.Title,
		FavIconURL:  tab.FavIconURL,
		ScrollX:     offset.X,
		ScrollY:     offset.Y,
		Pinned:      tab.Pinned,
		WindowID:    tab.WindowID,
		Index:       tab.Index,
		GroupID:     tab.GroupID,
		FrozenAt:    uc.now(),
	}

	if err := uc.states.Put(ctx, state); err != nil {
		return fmt.Sprintf("tab %d: persist state: %v", id, err)
	}

	if err := uc.tabs.Navigate(ctx, id, state.PlaceholderURL(base)); err != nil {
		// The tab never reached the placeholder; drop the stale record so
		// the store keeps telling the truth.
		if delErr := uc.states.Delete(ctx, id); delErr != nil {
			log.Warn().Err(delErr).Int("tab_id", int(id)).Msg("stale state cleanup failed")
		}
		return fmt.Sprintf("tab %d: navigate to placeholder: %v", id, err)
	}

	out.FrozenCount++
	out.SavedMB += entity.FreezeSavedMB(id, tab.URL)
	return ""
}

func (uc *FreezeTabsUseCase) resolvePlaceholderBase(ctx context.Context) (string, error) {
	if uc.placeholderBase != "" {
		return uc.placeholderBase, nil
	}
	return uc.runtime.PlaceholderBase(ctx)
}
