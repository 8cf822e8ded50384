package entity

import "strings"

// TabID is the tab identifier assigned by the host browser. It is volatile:
// unique only within a single browser session and reassigned across restarts.
type TabID int

// Tab is a live tab descriptor as reported by the host browser.
type Tab struct {
	ID         TabID           `json:"id"`
	Title      string          `json:"title"`
	URL        string          `json:"url"`
	FavIconURL string          `json:"favIconUrl,omitempty"`
	Audible    bool            `json:"audible,omitempty"`
	Pinned     bool            `json:"pinned,omitempty"`
	WindowID   int             `json:"windowId,omitempty"`
	Index      int             `json:"index,omitempty"`
	GroupID    int             `json:"groupId,omitempty"`
	Frozen     bool            `json:"frozen,omitempty"`
	Memory     *MemoryEstimate `json:"memoryEstimate,omitempty"`
}

// Internal page schemes that the host cannot navigate away from or bookmark.
var internalSchemes = []string{"chrome://", "chrome-extension://"}

// HasInternalScheme reports whether the URL points at a host-internal page.
func HasInternalScheme(url string) bool {
	for _, scheme := range internalSchemes {
		if strings.HasPrefix(url, scheme) {
			return true
		}
	}
	return false
}

// FreezeVerdict is the outcome of an eligibility check. Reason is a
// human-readable string surfaced to the caller, which aggregates reasons
// for a batch-level report.
type FreezeVerdict struct {
	OK     bool
	Reason string
}

// CanFreeze decides whether a tab is eligible for freezing. The verdict is
// deterministic for a fixed descriptor.
func CanFreeze(tab Tab) FreezeVerdict {
	if HasInternalScheme(tab.URL) {
		return FreezeVerdict{Reason: "cannot freeze internal browser pages"}
	}
	if tab.Audible {
		return FreezeVerdict{Reason: "cannot freeze tabs playing audio"}
	}
	if IsPlaceholderURL(tab.URL) {
		return FreezeVerdict{Reason: "tab is already frozen"}
	}
	if tab.URL == "" {
		return FreezeVerdict{Reason: "tab has no URL"}
	}
	return FreezeVerdict{OK: true}
}
