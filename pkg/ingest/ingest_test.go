package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carzl/leadradar/pkg/item"
)

func TestRead(t *testing.T) {
	payload := `[
		{"platform": "reddit", "url": "https://reddit.com/r/x/1", "title": "a",
		 "engagement": {"upvotes": 10, "comments": 2}},
		{"platform": "twitter", "url": "https://x.com/s/1", "title": "b", "mature": true}
	]`

	raws, err := Read(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, 10, raws[0].Engagement.Upvotes)
	assert.True(t, raws[1].Mature)
}

func TestReadMalformedJSON(t *testing.T) {
	_, err := Read(strings.NewReader("{not json"))
	require.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"platform":"rss","url":"https://e.com/a"}]`), 0o644))

	raws, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "https://e.com/a", raws[0].URL)
}

func TestRSSFetch(t *testing.T) {
	now := time.Now().UTC()
	feedXML := fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0"><channel>
  <title>Indie Biz</title>
  <item>
    <title>Just launched my side project</title>
    <link>https://example.com/launch</link>
    <description>built an automation tool</description>
    <pubDate>%s</pubDate>
  </item>
  <item>
    <title>Ancient news</title>
    <link>https://example.com/old</link>
    <pubDate>%s</pubDate>
  </item>
</channel></rss>`,
		now.Format(time.RFC1123Z),
		now.Add(-48*time.Hour).Format(time.RFC1123Z))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedXML)
	}))
	defer ts.Close()

	rss := NewRSS([]Feed{{Name: "indie", URL: ts.URL}}, 24*time.Hour, nil)
	raws, err := rss.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, raws, 1, "stale entries are skipped")
	raw := raws[0]
	assert.Equal(t, string(item.PlatformRSS), raw.Platform)
	assert.Equal(t, "https://example.com/launch", raw.URL)
	assert.Equal(t, "indie", raw.SourceLabel)
}

func TestRSSFetchSkipsFailingFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	var warned bool
	rss := NewRSS([]Feed{{Name: "broken", URL: ts.URL}}, 0, func(string, ...any) { warned = true })

	raws, err := rss.Fetch(context.Background())
	require.NoError(t, err, "a failing feed is logged, not fatal")
	assert.Empty(t, raws)
	assert.True(t, warned)
}
