package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const httpResolverTimeout = 2 * time.Second

// HTTPResolver is the second provider in the chain: a public IP-to-country
// endpoint returning {"country":"US","ip":"..."}.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPResolver builds a resolver against the given base URL. An empty
// base URL returns nil so the chain skips this provider.
func NewHTTPResolver(baseURL string, client *http.Client) *HTTPResolver {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{Timeout: httpResolverTimeout}
	}
	return &HTTPResolver{baseURL: baseURL, client: client}
}

func (r *HTTPResolver) CountryCode(ctx context.Context, ip string) (string, error) {
	if r == nil {
		return "", ErrUnavailable
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/"+ip, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("geoip: http status %d", resp.StatusCode)
	}
	var out struct {
		Country string `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	country := strings.ToUpper(strings.TrimSpace(out.Country))
	if country == "" {
		return "", ErrUnavailable
	}
	return country, nil
}

var _ CountryResolver = (*HTTPResolver)(nil)
