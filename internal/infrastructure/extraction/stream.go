package extraction

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/storytellerz/backend/internal/domain"
)

// StatusStream consumes the collaborator's server-sent status feed,
// one subscription per extraction correlation id.
type StatusStream struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewStatusStream creates the feed consumer. The HTTP client carries
// no overall timeout; the feed stays open for the full extraction and
// is bounded by the subscription context instead.
func NewStatusStream(apiKey, baseURL string) *StatusStream {
	return &StatusStream{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// Subscribe opens the status feed for requestID. The returned channel
// closes when the feed ends, errors, or ctx is cancelled. Messages are
// advisory; when the consumer falls behind, older updates are dropped
// in favour of newer ones.
func (s *StatusStream) Subscribe(ctx context.Context, requestID string) (<-chan domain.StatusUpdate, error) {
	reqURL := fmt.Sprintf("%s/status/%s", s.baseURL, requestID)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnreachable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", domain.ErrServiceUnreachable, resp.StatusCode)
	}

	updates := make(chan domain.StatusUpdate, 8)
	go s.consume(resp, requestID, updates)
	return updates, nil
}

func (s *StatusStream) consume(resp *http.Response, requestID string, updates chan domain.StatusUpdate) {
	defer close(updates)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			// Comments and keep-alive blank lines.
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		update, ok := parseUpdate(payload)
		if !ok {
			log.Printf("[STREAM] Skipping malformed event for %s: %q", requestID, payload)
			continue
		}

		select {
		case updates <- update:
		default:
			// Slow consumer; drop the oldest buffered update to make
			// room for the newest.
			select {
			case <-updates:
			default:
			}
			updates <- update
		}

		if update.IsTerminal() {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[STREAM] Feed for %s ended: %v", requestID, err)
	}
}

// parseUpdate accepts both the JSON envelope and bare status text.
func parseUpdate(payload string) (domain.StatusUpdate, bool) {
	var update domain.StatusUpdate
	if err := json.Unmarshal([]byte(payload), &update); err == nil && update.Status != "" {
		return update, true
	}
	if strings.HasPrefix(payload, "{") {
		return domain.StatusUpdate{}, false
	}
	return domain.StatusUpdate{Status: payload}, true
}
