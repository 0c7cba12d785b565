package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Config holds the transactional email API settings.
type Config struct {
	BaseURL string
	APIKey  string
	From    string
	Timeout time.Duration
}

// Client delivers emails through a JSON transactional email API.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: timeout}}
}

var _ ports.EmailSender = (*Client)(nil)

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send posts one email and returns the provider id. Every failure wraps
// domain.ErrUpstreamUnavailable.
func (c *Client) Send(ctx context.Context, e ports.Email) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("%w: email not configured", domain.ErrUpstreamUnavailable)
	}

	payload, err := json.Marshal(sendRequest{
		From:    c.cfg.From,
		To:      []string{e.To},
		Subject: e.Subject,
		HTML:    e.HTML,
		ReplyTo: e.ReplyTo,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/emails"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrUpstreamUnavailable, err)
	}

	var out sendResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode >= http.StatusBadRequest {
		reason := out.Message
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamUnavailable, resp.StatusCode, reason)
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: response without id", domain.ErrUpstreamUnavailable)
	}
	return out.ID, nil
}
