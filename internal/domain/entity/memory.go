package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// MemoryCategory buckets tabs by the kind of page they display. Estimates
// are heuristic: the system only estimates, it never measures.
type MemoryCategory string

const (
	CategoryVideo    MemoryCategory = "video"
	CategoryWebapp   MemoryCategory = "webapp"
	CategorySocial   MemoryCategory = "social"
	CategoryStandard MemoryCategory = "standard"
	CategoryFrozen   MemoryCategory = "frozen"
	CategoryInternal MemoryCategory = "internal"
)

// MemoryEstimate is the estimated footprint of one tab.
type MemoryEstimate struct {
	TabID       TabID          `json:"tabId"`
	EstimatedMB int            `json:"estimatedMB"`
	Confidence  string         `json:"confidence"` // "high", "medium", "low"
	Category    MemoryCategory `json:"category"`
}

var (
	videoDomains = []string{
		"youtube.com", "netflix.com", "twitch.tv", "vimeo.com", "hulu.com",
		"disneyplus.com", "primevideo.com", "hbomax.com", "peacocktv.com", "dailymotion.com",
	}
	webappDomains = []string{
		"docs.google.com", "sheets.google.com", "slides.google.com", "drive.google.com",
		"notion.so", "figma.com", "miro.com", "airtable.com", "monday.com", "asana.com",
		"trello.com", "jira.atlassian.com", "confluence.atlassian.com", "office.com", "outlook.com",
	}
	socialDomains = []string{
		"facebook.com", "twitter.com", "x.com", "instagram.com", "linkedin.com", "reddit.com",
		"tiktok.com", "discord.com", "slack.com", "teams.microsoft.com", "whatsapp.com", "messenger.com",
	}
)

// Base and variance in MB per category.
var memoryEstimates = map[MemoryCategory]struct{ Base, Variance int }{
	CategoryVideo:    {280, 120}, // 160-400 MB
	CategoryWebapp:   {95, 55},   // 40-150 MB
	CategorySocial:   {120, 60},  // 60-180 MB
	CategoryStandard: {45, 25},   // 20-70 MB
	CategoryFrozen:   {3, 1},     // minimal placeholder
	CategoryInternal: {15, 5},    // internal pages
}

// Domain extracts the hostname of a URL without the "www." prefix. Returns
// "" when the URL does not parse.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func memoryCategory(rawURL string, frozen bool) MemoryCategory {
	if frozen || IsPlaceholderURL(rawURL) {
		return CategoryFrozen
	}
	if HasInternalScheme(rawURL) {
		return CategoryInternal
	}
	domain := Domain(rawURL)
	contains := func(candidates []string) bool {
		for _, c := range candidates {
			if strings.Contains(domain, c) {
				return true
			}
		}
		return false
	}
	switch {
	case contains(videoDomains):
		return CategoryVideo
	case contains(webappDomains):
		return CategoryWebapp
	case contains(socialDomains):
		return CategorySocial
	default:
		return CategoryStandard
	}
}

// EstimateTabMemory estimates the footprint of a single tab. The variance
// term is derived from the tab id so repeated estimates for the same tab
// agree.
func EstimateTabMemory(id TabID, rawURL string, frozen bool) MemoryEstimate {
	category := memoryCategory(rawURL, frozen)
	est := memoryEstimates[category]

	// Pseudo-random but stable factor in [-1, 1).
	factor := float64(int(id)%100)/100*2 - 1
	estimatedMB := est.Base + int(roundHalfAway(float64(est.Variance)*factor))

	var confidence string
	switch category {
	case CategoryFrozen, CategoryInternal:
		confidence = "high"
	case CategoryVideo, CategoryWebapp:
		confidence = "medium"
	default:
		confidence = "low"
	}

	return MemoryEstimate{
		TabID:       id,
		EstimatedMB: estimatedMB,
		Confidence:  confidence,
		Category:    category,
	}
}

// FreezeSavedMB estimates the memory reclaimed by freezing a tab: the
// pre-freeze category estimate minus the placeholder estimate.
func FreezeSavedMB(id TabID, originalURL string) int {
	return EstimateTabMemory(id, originalURL, false).EstimatedMB -
		EstimateTabMemory(id, originalURL, true).EstimatedMB
}

// MemoryLevel maps an estimate to a coarse indicator for color coding.
func MemoryLevel(estimatedMB int) string {
	switch {
	case estimatedMB >= 150:
		return "high"
	case estimatedMB >= 75:
		return "medium"
	case estimatedMB >= 30:
		return "low"
	default:
		return "minimal"
	}
}

// FormatMemory renders an MB figure for display.
func FormatMemory(mb int) string {
	if mb >= 1024 {
		return fmt.Sprintf("%.1f GB", float64(mb)/1024)
	}
	return fmt.Sprintf("%d MB", mb)
}

// FreezeSuggestion groups tabs worth freezing together.
type FreezeSuggestion struct {
	TabIDs             []TabID `json:"tabIds"`
	Reason             string  `json:"reason"`
	EstimatedSavingsMB int     `json:"estimatedSavingsMB"`
}

// SuggestFreezes analyzes unfrozen tabs and proposes freeze batches:
// high-memory tabs, video tabs, and clusters of social tabs.
func SuggestFreezes(tabs []Tab) []FreezeSuggestion {
	var suggestions []FreezeSuggestion

	type estimated struct {
		id TabID
		mb int
	}

	var high, video, social []estimated
	for _, tab := range tabs {
		if tab.Frozen {
			continue
		}
		est := EstimateTabMemory(tab.ID, tab.URL, false)
		if est.EstimatedMB > 100 {
			high = append(high, estimated{tab.ID, est.EstimatedMB})
		}
		switch est.Category {
		case CategoryVideo:
			video = append(video, estimated{tab.ID, est.EstimatedMB})
		case CategorySocial:
			social = append(social, estimated{tab.ID, est.EstimatedMB})
		}
	}

	group := func(tabs []estimated, limit int, reason string, minCount int) {
		if len(tabs) > limit {
			tabs = tabs[:limit]
		}
		if len(tabs) < minCount {
			return
		}
		s := FreezeSuggestion{Reason: reason}
		for _, t := range tabs {
			s.TabIDs = append(s.TabIDs, t.id)
			s.EstimatedSavingsMB += t.mb - memoryEstimates[CategoryFrozen].Base
		}
		suggestions = append(suggestions, s)
	}

	group(high, 5, "High memory usage tabs", 1)
	group(video, 3, "Video/streaming tabs use significant memory", 1)
	group(social, 5, "Social media tabs often run background processes", 2)

	return suggestions
}

func roundHalfAway(f float64) float64 {
	if f < 0 {
		return float64(int(f - 0.5))
	}
	return float64(int(f + 0.5))
}
