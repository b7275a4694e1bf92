package pexels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servizzmalta/directory-cli/internal/config"
)

const searchPayload = `{
  "photos": [
    {
      "width": 1880,
      "height": 1253,
      "photographer": "Maria Vella",
      "photographer_url": "https://www.pexels.com/@maria",
      "url": "https://www.pexels.com/photo/plumber-at-work-101/",
      "alt": "Plumber fixing a sink",
      "src": {
        "original": "https://images.pexels.com/101/original.jpg",
        "large": "https://images.pexels.com/101/large.jpg",
        "medium": "https://images.pexels.com/101/medium.jpg"
      }
    },
    {
      "width": 1600,
      "height": 1067,
      "photographer": "John Borg",
      "url": "https://www.pexels.com/photo/pipes-102/",
      "alt": "Copper pipes",
      "src": {}
    },
    {
      "width": 1200,
      "height": 800,
      "photographer": "Ann Grech",
      "url": "https://www.pexels.com/photo/wrench-103/",
      "alt": "Wrench on a table",
      "src": {"medium": "https://images.pexels.com/103/medium.jpg"}
    }
  ]
}`

func testClient(baseURL string) *Client {
	return NewClient(config.PexelsConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		PerPage:     8,
		RatePerSec:  100,
		TimeoutSecs: 5,
	})
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "plumber Malta", r.URL.Query().Get("query"))
		assert.Equal(t, "8", r.URL.Query().Get("per_page"))
		assert.Equal(t, "landscape", r.URL.Query().Get("orientation"))
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		w.Write([]byte(searchPayload)) //nolint:errcheck
	}))
	defer srv.Close()

	candidates, err := testClient(srv.URL).Search(context.Background(), "plumber Malta")
	require.NoError(t, err)

	// The photo without any src is skipped and does not consume a rank.
	require.Len(t, candidates, 2)
	assert.Equal(t, 1, candidates[0].Rank)
	assert.Equal(t, "https://images.pexels.com/101/large.jpg", candidates[0].SourceURL)
	assert.Equal(t, "Plumber fixing a sink", candidates[0].AltText)
	assert.Equal(t, 1880, candidates[0].Width)
	assert.Equal(t, "Maria Vella", candidates[0].Photographer)
	assert.Equal(t, "https://www.pexels.com/photo/plumber-at-work-101/", candidates[0].PhotoURL)

	assert.Equal(t, 2, candidates[1].Rank)
	assert.Equal(t, "https://images.pexels.com/103/medium.jpg", candidates[1].SourceURL,
		"medium is used when large is absent")
}

func TestSearch_NoAPIKey(t *testing.T) {
	client := NewClient(config.PexelsConfig{BaseURL: "http://unused"})

	_, err := client.Search(context.Background(), "anything")
	assert.True(t, eris.Is(err, ErrNoAPIKey))
}

func TestSearch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), "plumber")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestSearch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json")) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), "plumber")
	assert.Error(t, err)
}

func TestSearch_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"photos": []}`)) //nolint:errcheck
	}))
	defer srv.Close()

	candidates, err := testClient(srv.URL).Search(context.Background(), "plumber")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
