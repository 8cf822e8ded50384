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

// ThawTabUseCase reverses a freeze: navigate back to the original URL, clear
// the stored state, then restore the scroll position once the page loads.
// Thaw is considered successful once navigation is issued; scroll restore is
// best-effort and its failures are swallowed.
type ThawTabUseCase struct {
	tabs   port.TabDirectory
	script port.ScriptInjector
	events port.TabEvents
	states repository.FrozenStateRepository

	// settleDelay gives the host time to render before a scroll command is
	// meaningful; loadCeiling force-cancels the load observer so it cannot
	// dangle forever.
	settleDelay time.Duration
	loadCeiling time.Duration
}

// NewThawTabUseCase creates the thaw use case.
func NewThawTabUseCase(
	tabs port.TabDirectory,
	script port.ScriptInjector,
	events port.TabEvents,
	states repository.FrozenStateRepository,
	settleDelay, loadCeiling time.Duration,
) *ThawTabUseCase {
	return &ThawTabUseCase{
		tabs:        tabs,
		script:      script,
		events:      events,
		states:      states,
		settleDelay: settleDelay,
		loadCeiling: loadCeiling,
	}
}

// ThawTabInput identifies the tab and its restoration target.
type ThawTabInput struct {
	TabID       entity.TabID
	OriginalURL string
	Scroll      port.ScrollOffset
}

// Execute thaws one tab. The state entry is removed right after navigation
// is issued, so it is cleared even if scroll restoration later fails.
func (uc *ThawTabUseCase) Execute(ctx context.Context, input ThawTabInput) error {
	log := logging.FromContext(ctx)

	if err := uc.tabs.Navigate(ctx, input.TabID, input.OriginalURL); err != nil {
		// Navigation never happened; still drop the entry so a retry from
		// the placeholder page starts clean.
		if delErr := uc.states.Delete(ctx, input.TabID); delErr != nil {
			log.Warn().Err(delErr).Int("tab_id", int(input.TabID)).Msg("state cleanup after failed thaw")
		}
		return fmt.Errorf("navigate tab %d to %q: %w", input.TabID, input.OriginalURL, err)
	}

	if err := uc.states.Delete(ctx, input.TabID); err != nil {
		log.Warn().Err(err).Int("tab_id", int(input.TabID)).Msg("frozen state removal failed")
	}

	watch := uc.newLoadWatch(input.TabID)
	go uc.restoreScroll(context.WithoutCancel(ctx), watch, input)

	log.Info().Int("tab_id", int(input.TabID)).Str("url", input.OriginalURL).Msg("tab thawed")
	return nil
}

// loadWatch is a one-shot, timer-guarded subscription to a tab's
// load-completed event: register, fire once then unsubscribe, with a
// deadline that force-unsubscribes if the page never finishes loading.
type loadWatch struct {
	loaded   <-chan struct{}
	cancel   func()
	deadline *time.Timer
}

func (uc *ThawTabUseCase) newLoadWatch(id entity.TabID) *loadWatch {
	loaded, cancel := uc.events.SubscribeLoaded(id)
	return &loadWatch{
		loaded:   loaded,
		cancel:   cancel,
		deadline: time.NewTimer(uc.loadCeiling),
	}
}

// wait blocks until the tab loads, the ceiling expires, or ctx is done.
// It reports whether the load event fired.
func (w *loadWatch) wait(ctx context.Context) bool {
	defer w.cancel()
	defer w.deadline.Stop()

	select {
	case <-w.loaded:
		return true
	case <-w.deadline.C:
		return false
	case <-ctx.Done():
		return false
	}
}

func (uc *ThawTabUseCase) restoreScroll(ctx context.Context, watch *loadWatch, input ThawTabInput) {
	log := logging.FromContext(ctx)

	if !watch.wait(ctx) {
		log.Debug().Int("tab_id", int(input.TabID)).Msg("load observer expired before restore")
		return
	}

	select {
	case <-time.After(uc.settleDelay):
	case <-ctx.Done():
		return
	}

	if err := uc.script.RestoreScroll(ctx, input.TabID, input.Scroll); err != nil {
		log.Debug().Err(err).Int("tab_id", int(input.TabID)).Msg("scroll restore failed")
	}
}

// ThawTabsUseCase thaws a batch of tabs by their stored state.
type ThawTabsUseCase struct {
	states repository.FrozenStateRepository
	thaw   *ThawTabUseCase
}

// NewThawTabsUseCase creates the batch thaw use case.
func NewThawTabsUseCase(states repository.FrozenStateRepository, thaw *ThawTabUseCase) *ThawTabsUseCase {
	return &ThawTabsUseCase{states: states, thaw: thaw}
}

// Execute looks up each id's stored state. Ids with no stored state are
// silently skipped: the tab was never frozen or was already thawed. A
// failure on one tab is logged and does not stop the rest.
func (uc *ThawTabsUseCase) Execute(ctx context.Context, ids []entity.TabID) (thawed int, err error) {
	log := logging.FromContext(ctx)

	for _, id := range ids {
		state, err := uc.states.Get(ctx, id)
		if err != nil {
			log.Warn().Err(err).Int("tab_id", int(id)).Msg("state lookup failed")
			continue
		}
		if state == nil {
			continue
		}
		input := ThawTabInput{
			TabID:       id,
			OriginalURL: state.OriginalURL,
			Scroll:      port.ScrollOffset{X: state.ScrollX, Y: state.ScrollY},
		}
		if err := uc.thaw.Execute(ctx, input); err != nil {
			log.Error().Err(err).Int("tab_id", int(id)).Msg("thaw failed")
			continue
		}
		thawed++
	}
	return thawed, nil
}
