package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/tabsaver/internal/domain/entity"
)

// SavingsCLIRenderer renders `tabsaver savings` output.
type SavingsCLIRenderer struct {
	theme *Theme
}

func NewSavingsCLIRenderer(theme *Theme) *SavingsCLIRenderer {
	return &SavingsCLIRenderer{theme: theme}
}

func (r *SavingsCLIRenderer) RenderEmpty() string {
	return r.theme.Subtle.Render("No savings recorded yet. Freeze some tabs first.")
}

// RenderSummary renders lifetime and 30-day savings plus the recent daily
// breakdown.
func (r *SavingsCLIRenderer) RenderSummary(history *entity.SavingsHistory, now time.Time) string {
	if history == nil || (history.TotalTabsFrozen == 0 && len(history.Records) == 0) {
		return r.RenderEmpty()
	}

	recentMB, recentTabs := history.Recent(30, now)

	var b strings.Builder
	b.WriteString(r.theme.Title.Render("Memory savings"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s across %s\n",
		r.theme.Subtle.Render("Lifetime:"),
		r.theme.Highlight.Render(entity.FormatMemory(history.TotalSavedMB)),
		r.theme.Normal.Render(fmt.Sprintf("%d freezes", history.TotalTabsFrozen)),
	))
	b.WriteString(fmt.Sprintf("%s %s across %s\n",
		r.theme.Subtle.Render("Last 30d:"),
		r.theme.Highlight.Render(entity.FormatMemory(recentMB)),
		r.theme.Normal.Render(fmt.Sprintf("%d freezes", recentTabs)),
	))

	if len(history.Records) > 0 {
		b.WriteString("\n")
		b.WriteString(r.theme.BoxHeader.Render("Daily"))
		b.WriteString("\n")
		for _, record := range history.Records {
			b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
				r.theme.Normal.Render(record.Date),
				r.theme.BadgeMuted.Render(fmt.Sprintf("%d tabs", record.TabsFrozen)),
				r.theme.Subtle.Render(entity.FormatMemory(record.EstimatedSavedMB)),
			))
		}
	}
	return b.String()
}
