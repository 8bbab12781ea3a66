package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"castpipe/internal/config"
	"castpipe/internal/language"
)

// DispatchRequest describes one translation job: translate the source-language
// body of a content id into one target language.
type DispatchRequest struct {
	ContentID      string
	Category       string
	SourceLanguage language.Code
	TargetLanguage language.Code
}

// Dispatcher triggers the external translation workflow.
type Dispatcher interface {
	Dispatch(ctx context.Context, req DispatchRequest) error
}

// HTTPDoer describes the HTTP client used by the dispatch client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts workflow-dispatch events to the configured endpoint.
type Client struct {
	url    string
	token  string
	client HTTPDoer
}

// NewClient constructs a dispatch client from application config.
func NewClient(cfg *config.Config) (*Client, error) {
	url := strings.TrimSpace(cfg.Translate.DispatchURL)
	if url == "" {
		return nil, errors.New("translate.dispatch_url must be configured")
	}
	timeout := time.Duration(cfg.Translate.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:    url,
		token:  strings.TrimSpace(cfg.Translate.Token),
		client: &http.Client{Timeout: timeout},
	}, nil
}

// NewClientWithDoer injects a custom HTTP client (primarily for tests).
func NewClientWithDoer(url, token string, doer HTTPDoer) *Client {
	return &Client{url: strings.TrimSpace(url), token: strings.TrimSpace(token), client: doer}
}

type dispatchEvent struct {
	EventType     string `json:"event_type"`
	ClientPayload struct {
		ContentID      string `json:"content_id"`
		Category       string `json:"category"`
		SourceLanguage string `json:"source_language"`
		TargetLanguage string `json:"target_language"`
	} `json:"client_payload"`
}

// Dispatch posts one translation job. Any 2xx response counts as accepted;
// the dispatch endpoint returns no useful body on success.
func (c *Client) Dispatch(ctx context.Context, req DispatchRequest) error {
	var event dispatchEvent
	event.EventType = "translate-content"
	event.ClientPayload.ContentID = req.ContentID
	event.ClientPayload.Category = req.Category
	event.ClientPayload.SourceLanguage = string(req.SourceLanguage)
	event.ClientPayload.TargetLanguage = string(req.TargetLanguage)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode dispatch event: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build dispatch request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("dispatch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("dispatch endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
