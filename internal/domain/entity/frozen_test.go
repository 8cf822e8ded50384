package entity_test

import (
	"testing"
	"time"

	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderURL_RoundTrip(t *testing.T) {
	state := &entity.FrozenTabState{
		TabID:       7,
		OriginalURL: "https://example.com/article?id=42",
		Title:       "An Article & More",
		FavIconURL:  "https://example.com/favicon.ico",
		ScrollX:     12,
		ScrollY:     400,
		Pinned:      true,
		WindowID:    3,
		Index:       2,
		FrozenAt:    time.Now(),
	}

	raw := state.PlaceholderURL("chrome-extension://abc/frozen.html")
	require.True(t, entity.IsPlaceholderURL(raw))

	parsed := entity.ParsePlaceholderURL(raw)
	require.NotNil(t, parsed)
	assert.Equal(t, entity.TabID(7), parsed.TabID)
	assert.Equal(t, "https://example.com/article?id=42", parsed.OriginalURL)
	assert.Equal(t, "An Article & More", parsed.Title)
	assert.Equal(t, "https://example.com/favicon.ico", parsed.FavIconURL)
	assert.Equal(t, 12, parsed.ScrollX)
	assert.Equal(t, 400, parsed.ScrollY)
}

func TestParsePlaceholderURL_BadIntegersDefaultToZero(t *testing.T) {
	parsed := entity.ParsePlaceholderURL("chrome-extension://abc/frozen.html?url=https%3A%2F%2Fa.example&tabId=oops&scrollY=NaN")
	require.NotNil(t, parsed)
	assert.Equal(t, entity.TabID(0), parsed.TabID)
	assert.Equal(t, 0, parsed.ScrollX)
	assert.Equal(t, 0, parsed.ScrollY)
	assert.Equal(t, "https://a.example", parsed.OriginalURL)
}

func TestIsPlaceholderURL(t *testing.T) {
	assert.True(t, entity.IsPlaceholderURL("chrome-extension://abc/frozen.html?tabId=1"))
	assert.False(t, entity.IsPlaceholderURL("https://example.com"))
	assert.False(t, entity.IsPlaceholderURL(""))
}
