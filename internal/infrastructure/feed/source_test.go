package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsAgent/internal/config"
	"NewsAgent/internal/domain"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Business</title>
    <link>https://example.com</link>
    <description>Business news</description>
    <item>
      <title>Chipmaker beats forecasts</title>
      <link>https://example.com/chips</link>
      <description><![CDATA[<p>Revenue <b>up</b> 20%</p>]]></description>
      <pubDate>Mon, 03 Mar 2025 08:30:00 GMT</pubDate>
    </item>
    <item>
      <title>Already seen</title>
      <link>https://example.com/seen</link>
    </item>
    <item>
      <title>No link here</title>
    </item>
    <item>
      <title>Oil slides</title>
      <link>https://example.com/oil</link>
    </item>
    <item>
      <title>Oil slides again</title>
      <link>https://example.com/oil</link>
    </item>
  </channel>
</rss>`

func newFeedServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchParsesFeed(t *testing.T) {
	t.Parallel()

	server := newFeedServer(t, rssFixture, http.StatusOK)
	src := NewSource([]config.FeedConfig{{Category: "Business", URL: server.URL}}, server.Client(), "test-agent", nil)

	records, err := src.Fetch(context.Background(), "business", 10, map[string]struct{}{"https://example.com/seen": {}})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Chipmaker beats forecasts", records[0].Title)
	assert.Equal(t, "Revenue up 20%", records[0].Description)
	assert.Equal(t, "Example Business", records[0].SourceName)
	assert.Equal(t, time.Date(2025, 3, 3, 8, 30, 0, 0, time.UTC), records[0].PublishedAt)
	assert.Equal(t, "https://example.com/oil", records[1].URL)
}

func TestFetchRespectsPageSize(t *testing.T) {
	t.Parallel()

	server := newFeedServer(t, rssFixture, http.StatusOK)
	src := NewSource([]config.FeedConfig{{Category: "business", URL: server.URL}}, server.Client(), "", nil)

	records, err := src.Fetch(context.Background(), "business", 1, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "https://example.com/chips", records[0].URL)
}

func TestFetchUnknownCategory(t *testing.T) {
	t.Parallel()

	src := NewSource(nil, nil, "", nil)
	_, err := src.Fetch(context.Background(), "sports", 5, nil)

	var unavailable *domain.SourceUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, Name, unavailable.Source)
}

func TestFetchUpstreamFailure(t *testing.T) {
	t.Parallel()

	server := newFeedServer(t, "oops", http.StatusBadGateway)
	src := NewSource([]config.FeedConfig{{Category: "business", URL: server.URL}}, server.Client(), "", nil)

	_, err := src.Fetch(context.Background(), "business", 5, nil)
	var unavailable *domain.SourceUnavailableError
	require.True(t, errors.As(err, &unavailable))
}
