package usecase_test

import (
	"testing"
	"time"

	"github.com/bnema/tabsaver/internal/application/port"
	"github.com/bnema/tabsaver/internal/application/usecase"
	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thawFixture(tabs *fakeTabs) (*fakeScript, *fakeEvents, *memStates, *usecase.ThawTabUseCase) {
	script := newFakeScript()
	events := newFakeEvents()
	states := newMemStates()
	uc := usecase.NewThawTabUseCase(tabs, script, events, states, time.Millisecond, 100*time.Millisecond)
	return script, events, states, uc
}

func TestThawTab_NavigatesAndClearsState(t *testing.T) {
	ctx := testContext()
	tabs := newFakeTabs(entity.Tab{ID: 7, URL: "chrome-extension://abc/frozen.html?tabId=7"})
	_, _, states, uc := thawFixture(tabs)
	require.NoError(t, states.Put(ctx, &entity.FrozenTabState{TabID: 7, OriginalURL: "https://example.com"}))

	err := uc.Execute(ctx, usecase.ThawTabInput{TabID: 7, OriginalURL: "https://example.com", Scroll: port.ScrollOffset{Y: 400}})
	require.NoError(t, err)

	navs := tabs.navigations()
	require.Len(t, navs, 1)
	assert.Equal(t, "https://example.com", navs[0].url)

	state, err := states.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, state, "frozen state is cleared once navigation is issued")
}

func TestThawTab_RestoresScrollAfterLoad(t *testing.T) {
	ctx := testContext()
	tabs := newFakeTabs(entity.Tab{ID: 7, URL: "chrome-extension://abc/frozen.html?tabId=7"})
	script, events, _, uc := thawFixture(tabs)

	err := uc.Execute(ctx, usecase.ThawTabInput{TabID: 7, OriginalURL: "https://example.com", Scroll: port.ScrollOffset{X: 12, Y: 400}})
	require.NoError(t, err)

	events.fireLoaded(7)

	require.Eventually(t, func() bool {
		return len(script.restoredScrolls()) == 1
	}, time.Second, 5*time.Millisecond)
	restored := script.restoredScrolls()[0]
	assert.Equal(t, entity.TabID(7), restored.id)
	assert.Equal(t, port.ScrollOffset{X: 12, Y: 400}, restored.offset)
}

func TestThawTab_LoadObserverExpiresAtCeiling(t *testing.T) {
	ctx := testContext()
	tabs := newFakeTabs(entity.Tab{ID: 7, URL: "chrome-extension://abc/frozen.html?tabId=7"})
	script, events, _, uc := thawFixture(tabs)

	err := uc.Execute(ctx, usecase.ThawTabInput{TabID: 7, OriginalURL: "https://example.com"})
	require.NoError(t, err)

	// The page never loads; the deadline must release the subscription.
	require.Eventually(t, func() bool {
		events.mu.Lock()
		defer events.mu.Unlock()
		return len(events.subs[7]) == 0
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, script.restoredScrolls())
}

func TestThawTab_ScrollRestoreFailureIsSwallowed(t *testing.T) {
	ctx := testContext()
	tabs := newFakeTabs(entity.Tab{ID: 7, URL: "chrome-extension://abc/frozen.html?tabId=7"})
	script, events, states, uc := thawFixture(tabs)
	script.restoreErr = assert.AnError

	err := uc.Execute(ctx, usecase.ThawTabInput{TabID: 7, OriginalURL: "https://example.com", Scroll: port.ScrollOffset{Y: 10}})
	require.NoError(t, err, "thaw succeeds regardless of scroll restoration")

	events.fireLoaded(7)
	state, err := states.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestThawTab_NavigateFailureReturnsError(t *testing.T) {
	ctx := testContext()
	tabs := newFakeTabs(entity.Tab{ID: 7, URL: "chrome-extension://abc/frozen.html?tabId=7"})
	tabs.navigateErrs[7] = assert.AnError
	_, _, states, uc := thawFixture(tabs)
	require.NoError(t, states.Put(ctx, &entity.FrozenTabState{TabID: 7, OriginalURL: "https://example.com"}))

	err := uc.Execute(ctx, usecase.ThawTabInput{TabID: 7, OriginalURL: "https://example.com"})
	require.Error(t, err)

	state, getErr := states.Get(ctx, 7)
	require.NoError(t, getErr)
	assert.Nil(t, state, "state is cleared on attempted thaw, successful or not")
}

func TestThawTabs_SkipsUnknownIDsSilently(t *testing.T) {
	ctx := testContext()
	tabs := newFakeTabs(
		entity.Tab{ID: 1, URL: "chrome-extension://abc/frozen.html?tabId=1"},
		entity.Tab{ID: 2, URL: "chrome-extension://abc/frozen.html?tabId=2"},
	)
	_, _, states, thaw := thawFixture(tabs)
	require.NoError(t, states.Put(ctx, &entity.FrozenTabState{TabID: 1, OriginalURL: "https://a.example"}))
	require.NoError(t, states.Put(ctx, &entity.FrozenTabState{TabID: 2, OriginalURL: "https://b.example"}))

	uc := usecase.NewThawTabsUseCase(states, thaw)

	thawed, err := uc.Execute(ctx, []entity.TabID{1, 2, 555})
	require.NoError(t, err)
	assert.Equal(t, 2, thawed, "ids with no stored state are skipped, not errors")
	assert.Equal(t, 0, states.len())
}

func TestThawTabs_OneFailureDoesNotStopTheRest(t *testing.T) {
	ctx := testContext()
	tabs := newFakeTabs(
		entity.Tab{ID: 1, URL: "chrome-extension://abc/frozen.html?tabId=1"},
		entity.Tab{ID: 2, URL: "chrome-extension://abc/frozen.html?tabId=2"},
	)
	tabs.navigateErrs[1] = assert.AnError
	_, _, states, thaw := thawFixture(tabs)
	require.NoError(t, states.Put(ctx, &entity.FrozenTabState{TabID: 1, OriginalURL: "https://a.example"}))
	require.NoError(t, states.Put(ctx, &entity.FrozenTabState{TabID: 2, OriginalURL: "https://b.example"}))

	uc := usecase.NewThawTabsUseCase(states, thaw)

	thawed, err := uc.Execute(ctx, []entity.TabID{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 1, thawed)
}
