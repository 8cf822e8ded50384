package entity

import (
	"regexp"
	"strings"
	"time"
)

// BookmarkID is the opaque identifier the host assigns to bookmark nodes.
type BookmarkID string

// BookmarkNode is one node of the host's bookmark tree. A node with an empty
// URL is a folder.
type BookmarkNode struct {
	ID        BookmarkID      `json:"id"`
	ParentID  BookmarkID      `json:"parentId,omitempty"`
	Title     string          `json:"title"`
	URL       string          `json:"url,omitempty"`
	DateAdded int64           `json:"dateAdded,omitempty"` // milliseconds since epoch
	Children  []*BookmarkNode `json:"children,omitempty"`
}

// IsFolder reports whether the node is a folder rather than a bookmark item.
func (n *BookmarkNode) IsFolder() bool {
	return n.URL == ""
}

// AddedAt returns the node creation time.
func (n *BookmarkNode) AddedAt() time.Time {
	return time.UnixMilli(n.DateAdded)
}

// RecentArchiveFolder summarizes an archive folder for the UI.
type RecentArchiveFolder struct {
	ID        BookmarkID `json:"id"`
	Title     string     `json:"title"`
	DateAdded int64      `json:"dateAdded"`
	TabCount  int        `json:"tabCount"`
}

// Characters the host refuses in bookmark folder titles.
var illegalLabelChars = strings.NewReplacer(
	"<", "", ">", "", ":", "", `"`, "", "/", "", `\`, "", "|", "", "?", "", "*", "",
)

// SanitizeFolderLabel strips characters that are illegal in folder titles.
func SanitizeFolderLabel(label string) string {
	return illegalLabelChars.Replace(strings.TrimSpace(label))
}

// ArchiveFolderName builds the title for a new archive folder:
// "{label or 'Tabs'} {YYYY-MM-DD HHMM}", minute granularity.
func ArchiveFolderName(customLabel string, now time.Time) string {
	label := SanitizeFolderLabel(customLabel)
	if label == "" {
		label = "Tabs"
	}
	return label + " " + now.Format("2006-01-02 1504")
}

var yearToken = regexp.MustCompile(`(19|20)\d{2}`)

// MatchesArchiveConvention reports whether a folder title looks like an
// archive folder: the "Tabs " prefix or a four-digit year token. This is a
// deliberately loose heuristic so folders created by earlier naming revisions
// are still discovered; folders outside the convention are never touched.
func MatchesArchiveConvention(title string) bool {
	if title == "" {
		return false
	}
	return strings.HasPrefix(title, "Tabs ") || yearToken.MatchString(title)
}

// SuggestFolderNames proposes archive folder labels from the domains of the
// given tabs, the time of day, and batch size. Deterministic for a fixed
// tab set and clock reading.
func SuggestFolderNames(tabs []Tab, now time.Time) []string {
	var suggestions []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			suggestions = append(suggestions, s)
		}
	}

	var domains []string
	uniqueDomains := make(map[string]bool)
	for _, tab := range tabs {
		d := Domain(tab.URL)
		if d == "" {
			continue
		}
		domains = append(domains, d)
		uniqueDomains[d] = true
	}

	if len(uniqueDomains) == 1 {
		site := domains[0]
		if i := strings.Index(site, "."); i > 0 {
			site = site[:i]
		}
		site = strings.ToUpper(site[:1]) + site[1:]
		add(site + " Research")
		add(site + " Pages")
	}

	if len(uniqueDomains) > 1 {
		has := func(sub string) bool {
			for _, d := range domains {
				if strings.Contains(d, sub) {
					return true
				}
			}
			return false
		}
		if has("github") && has("stackoverflow") {
			add("Development Research")
			add("Coding Project")
		}
		if has("reddit") || has("twitter") || has("x.com") {
			add("Social Research")
		}
		if has("youtube") {
			add("Video Research")
			add("Learning Materials")
		}
		if has("linkedin") {
			add("Professional Research")
		}
		add("Research Session")
		add("Web Research")
	}

	hour := now.Hour()
	switch {
	case hour >= 9 && hour <= 17:
		add("Work Session")
	case hour >= 18 && hour <= 23:
		add("Evening Reading")
	}

	if len(tabs) >= 10 {
		add("Deep Dive Research")
		add("Extensive Reading")
	}

	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions
}
