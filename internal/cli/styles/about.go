package styles

import (
	"fmt"
	"strings"
)

// BuildInfo carries version metadata set at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// AboutRenderer renders `tabsaver about` output.
type AboutRenderer struct {
	theme *Theme
}

func NewAboutRenderer(theme *Theme) *AboutRenderer {
	return &AboutRenderer{theme: theme}
}

func (r *AboutRenderer) Render(info BuildInfo) string {
	var b strings.Builder
	b.WriteString(r.theme.Title.Render("tabsaver"))
	b.WriteString(r.theme.Subtle.Render("  native messaging host for the TabSaver extension"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s\n", r.theme.Subtle.Render("Version:"), r.theme.Normal.Render(info.Version)))
	b.WriteString(fmt.Sprintf("%s %s\n", r.theme.Subtle.Render("Commit:"), r.theme.Normal.Render(info.Commit)))
	b.WriteString(fmt.Sprintf("%s %s\n", r.theme.Subtle.Render("Built:"), r.theme.Normal.Render(info.Date)))
	return r.theme.Box.Render(b.String())
}
