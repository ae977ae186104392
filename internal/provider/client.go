package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config carries the provider credentials and endpoint, resolved once at
// startup (sandbox vs live selection happens in the config layer, not here).
type Config struct {
	BaseURL   string
	PublicKey string
	SecretKey string
	Timeout   time.Duration
}

// Client is the single point of contact with the external wallet provider.
// It owns transport, auth header injection and response-shape normalization;
// it performs no business validation.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// New constructs a provider client from resolved configuration.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Call sends one request to the provider and normalizes the response into an
// Outcome. The returned error is only ever a transport or protocol fault; a
// provider-declared failure is reported through the Outcome.
func (c *Client) Call(ctx context.Context, endpoint, method string, payload any) (Outcome, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return Outcome{}, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("encode payload: %w", err)}
		}
		body = bytes.NewReader(encoded)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return Outcome{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.PublicKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("provider request failed", "endpoint", endpoint, "error", err)
		return Outcome{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("provider response read failed", "endpoint", endpoint, "error", err)
		return Outcome{}, &TransportError{Endpoint: endpoint, Err: err}
	}

	out, err := normalize(endpoint, resp.StatusCode, raw)
	if err != nil {
		c.logger.Error("provider response rejected", "endpoint", endpoint, "error", err)
		return Outcome{}, err
	}
	return out, nil
}

// do runs Call and converts a provider-declared failure into *Error. When
// into is non-nil the success payload is decoded into it.
func (c *Client) do(ctx context.Context, endpoint, method string, payload, into any) error {
	out, err := c.Call(ctx, endpoint, method, payload)
	if err != nil {
		return err
	}
	if !out.OK() {
		return &Error{Code: out.Code, Payload: out.Fault}
	}
	if into != nil {
		if err := json.Unmarshal(out.Data, into); err != nil {
			return &ProtocolError{Endpoint: endpoint, Body: out.Data}
		}
	}
	return nil
}
