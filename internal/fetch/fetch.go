// Package fetch pulls paginated entity collections from the source WordPress
// REST API and writes one JSON snapshot file per entity type. Network and
// HTTP failures are handled here; the pipeline core never sees them.
package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"wpmigrate/internal/model"
	"wpmigrate/internal/pipeline"
)

// endpoints maps each snapshot file to its REST route relative to the API
// base. The Yoast and Redirection routes exist only when those plugins are
// installed; a 404 there yields an empty collection rather than a failure.
var endpoints = []struct {
	file     string
	route    string
	optional bool
}{
	{model.AuthorsFile, "users", false},
	{model.CategoriesFile, "categories", false},
	{model.TagsFile, "tags", false},
	{model.PostsFile, "posts", false},
	{model.PagesFile, "pages", false},
	{model.CommentsFile, "comments", false},
	{model.MediaFile, "media", false},
	{model.SEOFile, "yoast_indexable", true},
	{model.CustomFieldsFile, "meta", true},
	{model.RedirectsFile, "redirection/v1/redirects", true},
}

// Client fetches snapshots from a WordPress-style REST API.
type Client struct {
	baseURL    string // e.g. https://example.com/wp-json/wp/v2
	perPage    int
	retryCount int
	httpClient *http.Client
	logger     pipeline.Logger
}

// NewClient creates a fetch client. logger may be nil.
func NewClient(baseURL string, timeout time.Duration, retryCount int, logger pipeline.Logger) *Client {
	if logger == nil {
		logger = pipeline.NewNopLogger()
	}
	if retryCount < 1 {
		retryCount = 1
	}
	return &Client{
		baseURL:    baseURL,
		perPage:    100,
		retryCount: retryCount,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchAll fetches every entity collection and writes one JSON file per
// entity type into dataDir. Each collection is a finite, ordered sequence;
// pagination stops at the first empty page.
func (c *Client) FetchAll(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	for _, ep := range endpoints {
		records, err := c.fetchCollection(ep.route, ep.optional)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", ep.route, err)
		}
		if err := model.SaveJSON(dataDir, ep.file, records); err != nil {
			return err
		}
		c.logger.Info("collection fetched", "route", ep.route, "records", len(records))
	}
	return nil
}

// fetchCollection pages through one endpoint until an empty page. Records
// are kept as raw JSON so the snapshot files preserve the source shape
// exactly; decoding happens when the transform stage loads them.
func (c *Client) fetchCollection(route string, optional bool) ([]json.RawMessage, error) {
	all := []json.RawMessage{}
	for page := 1; ; page++ {
		pageURL := fmt.Sprintf("%s/%s?per_page=%d&page=%d", c.baseURL, route, c.perPage, page)
		body, status, err := c.getWithRetry(pageURL)
		if err != nil {
			return nil, err
		}
		if status == http.StatusNotFound && optional {
			c.logger.Warn("optional route missing, treating as empty", "route", route)
			return all, nil
		}
		// WordPress reports paging past the end as 400 with rest_post_invalid_page_number.
		if status == http.StatusBadRequest && page > 1 {
			return all, nil
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("GET %s: status %d", pageURL, status)
		}

		var records []json.RawMessage
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, fmt.Errorf("decoding %s page %d: %w", route, page, err)
		}
		if len(records) == 0 {
			return all, nil
		}
		all = append(all, records...)
		if len(records) < c.perPage {
			return all, nil
		}
	}
}

// getWithRetry performs a GET with bounded retries and linear backoff.
// Non-2xx statuses are returned to the caller, not retried: only transport
// errors indicate a transient condition worth another attempt.
func (c *Client) getWithRetry(pageURL string) ([]byte, int, error) {
	var lastErr error
	for attempt := 0; attempt < c.retryCount; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
			c.logger.Warn("retrying fetch", "url", pageURL, "attempt", attempt+1)
		}
		resp, err := c.httpClient.Get(pageURL)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return body, resp.StatusCode, nil
	}
	return nil, 0, fmt.Errorf("failed after %d attempts: %w", c.retryCount, lastErr)
}
