package amd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

var (
	fetchAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promofeed_source_fetch_attempts_total",
		Help: "The total number of fetch attempts against the promotions endpoint",
	})

	fetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promofeed_source_fetch_errors_total",
		Help: "The total number of failed fetch attempts",
	})
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:145.0) Gecko/20100101 Firefox/145.0"

// ClientConfig holds configuration for the promotions client
type ClientConfig struct {
	// URL is the promotions endpoint, e.g. https://www.amdgaming.com/promotions
	URL string

	// UserAgent overrides the default browser user agent
	UserAgent string

	// Timeout for a single request
	Timeout time.Duration
}

// Client fetches promotions from the AMD Gaming promotions endpoint. The
// endpoint sits behind Discourse anti-bot checks, so requests carry a full set
// of browser-like headers.
type Client struct {
	config ClientConfig
	http   *http.Client
}

func NewClient(config ClientConfig) *Client {
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
	}
}

// FetchPromotions fetches all active promotions, retrying transient failures
// with exponential backoff until the context is cancelled or the backoff
// gives up.
func (c *Client) FetchPromotions(ctx context.Context) (*PromotionsResponse, error) {
	log.WithFields(log.Fields{
		"url": c.config.URL,
	}).Info("Fetching promotions")

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 15 * time.Second
	bo.MaxElapsedTime = 2 * time.Minute

	var result *PromotionsResponse
	operation := func() error {
		fetchAttempts.Inc()
		response, err := c.fetchOnce(ctx)
		if err != nil {
			fetchErrors.Inc()
			log.WithFields(log.Fields{
				"url": c.config.URL,
			}).Warn("Fetch attempt failed: ", err)
			return err
		}
		result = response
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("fetching promotions from %s: %w", c.config.URL, err)
	}

	log.WithFields(log.Fields{
		"count": len(result.Items),
	}).Info("Successfully fetched promotions")

	return result, nil
}

func (c *Client) fetchOnce(ctx context.Context) (*PromotionsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.7,sv;q=0.3")
	req.Header.Set("Referer", c.config.URL)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("DNT", "1")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-origin")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var response PromotionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &response, nil
}

// SaveResponse writes the promotions payload as pretty-printed JSON so the
// raw data can be tracked in git history. Returns the path written.
func SaveResponse(response *PromotionsResponse, dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("creating data dir %s: %w", dataDir, err)
	}

	path := filepath.Join(dataDir, "amd_response.json")
	data, err := json.MarshalIndent(response, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encoding response: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing response to %s: %w", path, err)
	}

	log.WithFields(log.Fields{
		"path": path,
	}).Info("Saved raw API response")

	return path, nil
}
