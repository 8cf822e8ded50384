package styles

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabsaver/internal/domain/entity"
)

func TestFrozenRenderListOrdersOldestFirst(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	states := map[entity.TabID]*entity.FrozenTabState{
		5: {TabID: 5, Title: "Newer", OriginalURL: "https://new.example", FrozenAt: now.Add(-time.Hour)},
		2: {TabID: 2, Title: "Older", OriginalURL: "https://old.example", FrozenAt: now.Add(-48 * time.Hour)},
	}

	out := NewFrozenCLIRenderer(NewTheme()).RenderList(states, now)

	require.Contains(t, out, "Frozen tabs (2)")
	assert.Less(t, strings.Index(out, "Older"), strings.Index(out, "Newer"))
	assert.Contains(t, out, "2d ago")
	assert.Contains(t, out, "1h ago")
	assert.Contains(t, out, "https://old.example")
}

func TestFrozenRenderListFallsBackToURLWhenUntitled(t *testing.T) {
	now := time.Now()
	states := map[entity.TabID]*entity.FrozenTabState{
		9: {TabID: 9, OriginalURL: "https://untitled.example/page", FrozenAt: now},
	}

	out := NewFrozenCLIRenderer(NewTheme()).RenderList(states, now)

	assert.Contains(t, out, "#9")
	assert.Contains(t, out, "https://untitled.example/page")
}

func TestFrozenRenderListEmpty(t *testing.T) {
	out := NewFrozenCLIRenderer(NewTheme()).RenderList(nil, time.Now())
	assert.Contains(t, out, "No frozen tabs")
}

func TestRelativeAge(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-72 * time.Hour), "3d ago"},
		{"zero", time.Time{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeAge(tt.at, now))
		})
	}
}
