// Package trends fetches search-interest data from an external trends API
// and converts it into the signal payload consumed by the adjustment rules.
package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/polwatch/regime-risk-meter/internal/errors"
	"github.com/polwatch/regime-risk-meter/internal/monitoring"
	"github.com/polwatch/regime-risk-meter/internal/resilience"
	"github.com/polwatch/regime-risk-meter/internal/signals"
	"golang.org/x/time/rate"
)

// keywords are the terms tracked for every subject. The rule table keys off
// substrings of these, so renaming one here requires a matching rule change.
var keywords = []string{
	"exit visa",
	"emigrate",
	"protest",
	"general strike",
}

const (
	// spikeRatio is how far above baseline interest must be to count as a
	// spike.
	spikeRatio = 2.0
	// spikeFloor filters out spikes on negligible absolute interest.
	spikeFloor = 20.0
)

// Client fetches search-interest series from a trends provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	metrics    *monitoring.Metrics
}

// NewClient creates a trends client. An empty baseURL disables the client;
// Fetch then reports ErrDisabled.
func NewClient(baseURL string, metrics *monitoring.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		// Most trends providers throttle aggressively; stay well under.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		metrics: metrics,
	}
}

// ErrDisabled is returned when no trends API is configured.
var ErrDisabled = fmt.Errorf("trends client disabled: no API URL configured")

type interestPoint struct {
	Keyword  string  `json:"keyword"`
	Interest float64 `json:"interest"`
	Baseline float64 `json:"baseline"`
}

type interestResponse struct {
	Series []interestPoint `json:"series"`
}

// Fetch retrieves current search interest for the subject across the tracked
// keywords and applies spike detection.
func (c *Client) Fetch(ctx context.Context, subject string) (*signals.Trends, error) {
	if c.baseURL == "" {
		return nil, ErrDisabled
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp *interestResponse
	err := resilience.Retry(ctx, func() error {
		var reqErr error
		resp, reqErr = c.fetchOnce(ctx, subject)
		return reqErr
	})
	if err != nil {
		return nil, err
	}

	out := &signals.Trends{Signals: make([]signals.TrendSignal, 0, len(resp.Series))}
	for _, p := range resp.Series {
		out.Signals = append(out.Signals, signals.TrendSignal{
			Keyword:  p.Keyword,
			Interest: p.Interest,
			Spike:    p.Interest >= spikeFloor && p.Baseline > 0 && p.Interest/p.Baseline >= spikeRatio,
		})
	}
	return out, nil
}

func (c *Client) fetchOnce(ctx context.Context, subject string) (*interestResponse, error) {
	q := url.Values{}
	q.Set("region", subject)
	q.Set("keywords", strings.Join(keywords, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/interest?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create trends request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.metrics != nil {
		c.metrics.IncrementTrendsCalls()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trends request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := fmt.Errorf("trends API returned status %d: %s", resp.StatusCode, string(body))
		if resilience.IsRetryableHTTPStatus(resp.StatusCode) {
			return nil, apperrors.NewExternalAPIError("trends", statusErr)
		}
		return nil, statusErr
	}

	var parsed interestResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode trends response: %w", err)
	}
	return &parsed, nil
}
