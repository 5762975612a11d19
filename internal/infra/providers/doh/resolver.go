// Package doh resolves hostnames over DNS-over-HTTPS (A records only).
package doh

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

const DefaultEndpoint = "https://dns.google/resolve"

type Resolver struct {
	endpoint string
	client   *http.Client
}

func New(endpoint string, client *http.Client) *Resolver {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Resolver{endpoint: endpoint, client: client}
}

type answer struct {
	Name string `json:"name"`
	Type int    `json:"type"`
	Data string `json:"data"`
}

type response struct {
	Status int      `json:"Status"`
	Answer []answer `json:"Answer"`
}

// Resolve reports whether the host has any A record. Every failure maps
// to exists=false; the caller treats a non-resolving host as a signal,
// not an error.
func (r *Resolver) Resolve(ctx context.Context, host string) domain.DNSInfo {
	start := time.Now()
	info := domain.DNSInfo{}

	u := fmt.Sprintf("%s?name=%s&type=A", r.endpoint, url.QueryEscape(host))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		info.Elapsed = time.Since(start)
		return info
	}
	req.Header.Set("Accept", "application/dns-json")

	resp, err := r.client.Do(req)
	if err != nil {
		info.Elapsed = time.Since(start)
		return info
	}
	defer resp.Body.Close()

	var body response
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&body) != nil {
		info.Elapsed = time.Since(start)
		return info
	}

	info.Exists = len(body.Answer) > 0
	for _, a := range body.Answer {
		info.Records = append(info.Records, a.Data)
	}
	info.Elapsed = time.Since(start)
	return info
}
