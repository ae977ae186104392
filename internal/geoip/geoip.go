// Package geoip resolves a coarse location for an IP address via ip-api.com.
// Lookups are best-effort and only feed log attributes; callers must treat
// failures as absent data.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "http://ip-api.com/json"

// Resolver queries the ip-api.com JSON endpoint.
type Resolver struct {
	baseURL string
	http    *http.Client
}

// New builds a resolver against the public ip-api.com endpoint.
func New() *Resolver {
	return NewWithBaseURL(defaultBaseURL)
}

// NewWithBaseURL builds a resolver against a custom endpoint, used in tests.
func NewWithBaseURL(baseURL string) *Resolver {
	return &Resolver{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Locate returns "City, Country" for the given IP.
func (r *Resolver) Locate(ctx context.Context, ip string) (string, error) {
	url := fmt.Sprintf("%s/%s?fields=status,message,country,city", r.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Country string `json:"country"`
		City    string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Status != "success" {
		return "", fmt.Errorf("geoip lookup failed: %s", body.Message)
	}
	return fmt.Sprintf("%s, %s", body.City, body.Country), nil
}
