package styles

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bnema/tabsaver/internal/domain/entity"
)

// FrozenCLIRenderer renders `tabsaver frozen` output.
type FrozenCLIRenderer struct {
	theme *Theme
}

func NewFrozenCLIRenderer(theme *Theme) *FrozenCLIRenderer {
	return &FrozenCLIRenderer{theme: theme}
}

func (r *FrozenCLIRenderer) RenderEmpty() string {
	return r.theme.Subtle.Render("No frozen tabs.")
}

// RenderList renders all frozen tab records, oldest first.
func (r *FrozenCLIRenderer) RenderList(states map[entity.TabID]*entity.FrozenTabState, now time.Time) string {
	if len(states) == 0 {
		return r.RenderEmpty()
	}

	ordered := make([]*entity.FrozenTabState, 0, len(states))
	for _, state := range states {
		ordered = append(ordered, state)
	}
	sort.Slice(ordered, func(a, b int) bool {
		return ordered[a].FrozenAt.Before(ordered[b].FrozenAt)
	})

	var b strings.Builder
	b.WriteString(r.theme.Title.Render(fmt.Sprintf("Frozen tabs (%d)", len(ordered))))
	b.WriteString("\n\n")
	for _, state := range ordered {
		b.WriteString(r.renderOne(state, now))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *FrozenCLIRenderer) renderOne(state *entity.FrozenTabState, now time.Time) string {
	title := state.Title
	if title == "" {
		title = state.OriginalURL
	}

	saved := entity.FreezeSavedMB(state.TabID, state.OriginalURL)
	age := r.theme.Subtle.Render(relativeAge(state.FrozenAt, now))

	return fmt.Sprintf("%s %s  %s  %s\n  %s",
		r.theme.Highlight.Render(fmt.Sprintf("#%d", state.TabID)),
		r.theme.Normal.Render(title),
		r.theme.BadgeMuted.Render("~"+entity.FormatMemory(saved)+" saved"),
		age,
		r.theme.Subtle.Render(state.OriginalURL),
	)
}

// relativeAge renders a coarse human age like "3h ago".
func relativeAge(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
