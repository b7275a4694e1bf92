// Package pexels is a minimal client for the Pexels photo search API.
package pexels

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/servizzmalta/directory-cli/internal/config"
	"github.com/servizzmalta/directory-cli/internal/model"
)

// maxBodySize caps search response reads.
const maxBodySize = 4 * 1024 * 1024

// ErrNoAPIKey is returned when no API key is configured; callers treat it as
// "no candidates" rather than a fatal condition.
var ErrNoAPIKey = eris.New("pexels: no api key configured")

// Client queries the Pexels search API with a per-key rate limit.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	perPage    int
}

// NewClient creates a Client from config. The rate limit protects the
// per-key quota; Pexels throttles aggressively on bursts.
func NewClient(cfg config.PexelsConfig) *Client {
	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = 1
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 8
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(perSec), 2),
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		perPage:    perPage,
	}
}

type searchResponse struct {
	Photos []photo `json:"photos"`
}

type photo struct {
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Photographer    string   `json:"photographer"`
	PhotographerURL string   `json:"photographer_url"`
	URL             string   `json:"url"`
	Alt             string   `json:"alt"`
	Src             photoSrc `json:"src"`
}

type photoSrc struct {
	Original string `json:"original"`
	Large    string `json:"large"`
	Medium   string `json:"medium"`
}

// Search returns ranked landscape candidates for a query. Rank is the 1-based
// position in the provider's results. Photos without a usable source URL are
// skipped without consuming a rank.
func (c *Client) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "pexels: rate limiter wait")
	}

	endpoint := c.baseURL + "/v1/search?query=" + url.QueryEscape(query) +
		"&per_page=" + strconv.Itoa(c.perPage) + "&orientation=landscape"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "pexels: create request")
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "pexels: search %q", query)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("pexels: search %q: status %d", query, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, eris.Wrapf(err, "pexels: read response for %q", query)
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, eris.Wrapf(err, "pexels: parse response for %q", query)
	}

	var candidates []model.Candidate
	for _, p := range parsed.Photos {
		src := p.Src.Large
		if src == "" {
			src = p.Src.Medium
		}
		if src == "" {
			src = p.Src.Original
		}
		if src == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{
			Rank:            len(candidates) + 1,
			SourceURL:       src,
			AltText:         p.Alt,
			Width:           p.Width,
			Height:          p.Height,
			Photographer:    p.Photographer,
			PhotographerURL: p.PhotographerURL,
			PhotoURL:        p.URL,
		})
	}

	zap.L().Debug("pexels: search",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}
