package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"screenpapers/pkg/config"
	"screenpapers/pkg/errors"
	"screenpapers/pkg/logger"
	"screenpapers/pkg/ratelimit"
)

// Client talks to the Unsplash REST API
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
	quota      ratelimit.Tracker
}

// NewClient creates a client from the unsplash config section.
// The access key in cfg is ignored; callers pass it per request.
func NewClient(cfg *config.UnsplashConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "screenpapers/1.0"
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		headers: map[string]string{
			"User-Agent":     userAgent,
			"Accept":         "application/json",
			"Accept-Version": "v1",
		},
		baseURL: baseURL,
		logger:  log.WithField("component", "unsplash"),
	}
}

// SetHTTPClient replaces the transport, mainly for tests
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeUnknown, err, "failed to create request")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      redactURL(rawURL),
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, errors.Wrap(errors.ErrorTypeNetwork, err, fmt.Sprintf("network error: %v", err))
	}

	logger.LogRequest(c.logger, req.Method, redactURL(rawURL), resp.StatusCode, time.Since(start))

	if q, ok := c.quota.Observe(resp.Header); ok && q.Low() {
		c.logger.WarnWithFields("unsplash quota running low", map[string]interface{}{
			"limit":     q.Limit,
			"remaining": q.Remaining,
		})
	}
	return resp, nil
}

// Quota returns the hourly quota the server last reported
func (c *Client) Quota() ratelimit.Quota {
	return c.quota.Current()
}

// checkResponseStatus turns any non-2xx response into a remote error. The
// API's own message is pulled out of the {"errors": [...]} body for the log.
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	apiMessage := gjson.GetBytes(body, "errors.0").String()
	if apiMessage == "" {
		apiMessage = http.StatusText(resp.StatusCode)
	}

	c.logger.WarnWithFields("unsplash returned an error status", map[string]interface{}{
		"status":      resp.StatusCode,
		"api_message": apiMessage,
		"error_count": gjson.GetBytes(body, "errors.#").Int(),
	})

	return errors.Remote(resp.StatusCode, apiMessage)
}

// SearchPhotos runs one page of a photo search
func (c *Client) SearchPhotos(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	rawURL := GetSearchURL(c.baseURL, params)

	resp, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeNetwork, err, "failed to read response body")
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse search response", map[string]interface{}{
			"query":        params.Query,
			"page":         params.Page,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, errors.Wrap(errors.ErrorTypeParsing, err, "failed to parse JSON")
	}

	c.logger.DebugWithFields("search page fetched", map[string]interface{}{
		"query":       params.Query,
		"page":        params.Page,
		"results":     len(result.Results),
		"total":       result.Total,
		"total_pages": result.TotalPages,
	})

	return &result, nil
}

// Download opens the image behind a download link. The caller owns the
// returned body. size is -1 when the server does not announce a length.
func (c *Client) Download(ctx context.Context, downloadURL string) (body io.ReadCloser, size int64, err error) {
	resp, err := c.doRequest(ctx, downloadURL)
	if err != nil {
		return nil, 0, err
	}

	if err := c.checkResponseStatus(resp); err != nil {
		resp.Body.Close()
		return nil, 0, err
	}

	return resp.Body, resp.ContentLength, nil
}
