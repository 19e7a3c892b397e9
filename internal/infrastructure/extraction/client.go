package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/storytellerz/backend/internal/domain"
)

// Client talks to the card extraction and web search collaborator
// service over HTTP.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new collaborator client. The service tolerates
// roughly one request per second sustained; bursts cover the extract
// plus search pair a single operator produces.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles verbose request/response logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// errorDetail is the collaborator's error envelope.
type errorDetail struct {
	Detail string `json:"detail"`
}

// Extract submits the card images as multipart form data under the
// given correlation id. Retries cover transient transport and 5xx
// failures; a 4xx is treated as final since resubmitting the same
// images cannot succeed.
func (c *Client) Extract(ctx context.Context, requestID string, front domain.ImagePayload, back *domain.ImagePayload) (*domain.ExtractionResult, error) {
	log.Printf("[EXTRACT] Extract called, request id %s", requestID)

	body, contentType, err := encodeImages(front, back)
	if err != nil {
		return nil, fmt.Errorf("failed to encode images: %w", err)
	}

	reqURL := fmt.Sprintf("%s/extract", c.baseURL)

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("X-Request-ID", requestID)
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Printf("[EXTRACT] Request error (attempt %d): %v", attempt, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrServiceUnreachable, err)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if c.debug {
			log.Printf("[EXTRACT] Response (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(respBody))
		}

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("%w: %s", domain.ErrExtractionFailed, decodeDetail(respBody, resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			log.Printf("[EXTRACT] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(respBody))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrExtractionFailed, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var result domain.ExtractionResult
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &result, nil
	}

	log.Printf("[EXTRACT] All retries failed for request %s", requestID)
	return nil, lastErr
}

// SearchWeb runs a free-text query against the collaborator's vendor
// and product directories.
func (c *Client) SearchWeb(ctx context.Context, query string) (*domain.WebSearchResult, error) {
	log.Printf("[EXTRACT] SearchWeb called with query: %q", query)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	reqURL := fmt.Sprintf("%s/search", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if c.debug {
		log.Printf("[EXTRACT] Search response - Status: %d, Body: %s", resp.StatusCode, string(respBody))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", domain.ErrSearchFailed, decodeDetail(respBody, resp.StatusCode))
	}

	var result domain.WebSearchResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// encodeImages builds the multipart body. The front image is always
// the "front_image" part; the back side rides along when present.
func encodeImages(front domain.ImagePayload, back *domain.ImagePayload) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("front_image", front.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(front.Data); err != nil {
		return nil, "", err
	}

	if back != nil && len(back.Data) > 0 {
		part, err := writer.CreateFormFile("back_image", back.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(back.Data); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

// decodeDetail pulls the human-readable message out of the error
// envelope, falling back to the bare status code.
func decodeDetail(body []byte, status int) string {
	var detail errorDetail
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}
	return fmt.Sprintf("status %d", status)
}
