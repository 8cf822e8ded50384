package entity

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PlaceholderPath is the extension-internal page shown in place of a frozen
// tab. Its presence in a URL is a secondary, derivable signal that the tab is
// frozen; the state store remains the source of truth.
const PlaceholderPath = "frozen.html"

// FrozenTabState is the restoration record for one frozen tab. At most one
// record per TabID exists in the store at any time. Records orphaned by
// closing a frozen tab are an accepted, bounded leak: tab ids are not reused
// within a session and the map is cleared wholesale on host storage-reset
// events.
type FrozenTabState struct {
	TabID       TabID     `json:"tabId"`
	OriginalURL string    `json:"originalUrl"`
	Title       string    `json:"title"`
	FavIconURL  string    `json:"favIconUrl"`
	ScrollX     int       `json:"scrollX"`
	ScrollY     int       `json:"scrollY"`
	Pinned      bool      `json:"pinned"`
	WindowID    int       `json:"windowId"`
	Index       int       `json:"index"`
	GroupID     int       `json:"groupId,omitempty"`
	FrozenAt    time.Time `json:"frozenAt"`
}

// PlaceholderURL encodes the restoration state as query parameters on the
// placeholder page. base is the extension-resolved URL of the placeholder
// page (e.g. "chrome-extension://<id>/frozen.html").
func (s *FrozenTabState) PlaceholderURL(base string) string {
	params := url.Values{}
	params.Set("url", s.OriginalURL)
	params.Set("title", s.Title)
	params.Set("favicon", s.FavIconURL)
	params.Set("tabId", strconv.Itoa(int(s.TabID)))
	params.Set("scrollX", strconv.Itoa(s.ScrollX))
	params.Set("scrollY", strconv.Itoa(s.ScrollY))
	return base + "?" + params.Encode()
}

// ParsePlaceholderURL recovers frozen state from a placeholder page URL.
// Integer parameters default to 0 on parse failure. Returns nil for URLs
// that cannot be parsed at all.
func ParsePlaceholderURL(rawURL string) *FrozenTabState {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	params := u.Query()
	return &FrozenTabState{
		TabID:       TabID(atoiOrZero(params.Get("tabId"))),
		OriginalURL: params.Get("url"),
		Title:       params.Get("title"),
		FavIconURL:  params.Get("favicon"),
		ScrollX:     atoiOrZero(params.Get("scrollX")),
		ScrollY:     atoiOrZero(params.Get("scrollY")),
	}
}

// IsPlaceholderURL reports whether a URL identifies the placeholder page.
func IsPlaceholderURL(rawURL string) bool {
	return strings.Contains(rawURL, PlaceholderPath)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
