// Package virustotal submits a URL to the multi-engine scanner and
// fetches the engine tallies with a single report request, no polling
// loop and no retry. A pending report simply yields whatever counts are
// available at that moment.
package virustotal

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

const DefaultEndpoint = "https://www.virustotal.com/api/v3"

const (
	maliciousThreshold = 70
	cautionThreshold   = 35
	suspiciousWeight   = 0.6
)

type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func New(endpoint, apiKey string, client *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{endpoint: strings.TrimRight(endpoint, "/"), apiKey: apiKey, client: client}
}

type submitResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type engineStats struct {
	Malicious  int `json:"malicious"`
	Suspicious int `json:"suspicious"`
	Harmless   int `json:"harmless"`
}

type analysisResponse struct {
	Data struct {
		Attributes struct {
			Stats engineStats `json:"stats"`
		} `json:"attributes"`
	} `json:"data"`
}

func (c *Client) Check(ctx context.Context, rawURL string, _ domain.CheckContext) domain.ProviderResult {
	if c.apiKey == "" {
		return domain.Placeholder(domain.ProviderMultiScanner, domain.StatusSkipped,
			domain.ScannerDetails{Reason: "api key not configured"})
	}

	start := time.Now()

	id, err := c.submit(ctx, rawURL)
	if err != nil {
		return errorResult(start, err)
	}
	stats, err := c.report(ctx, id)
	if err != nil {
		return errorResult(start, err)
	}

	total := stats.Malicious + stats.Suspicious + stats.Harmless
	if total < 1 {
		total = 1
	}
	score := int(math.Round(100 * (float64(stats.Malicious) + suspiciousWeight*float64(stats.Suspicious)) / float64(total)))

	verdict := domain.VerdictSafe
	switch {
	case score >= maliciousThreshold:
		verdict = domain.VerdictMalicious
	case score >= cautionThreshold:
		verdict = domain.VerdictCaution
	}

	return domain.ProviderResult{
		Provider: domain.ProviderMultiScanner,
		Verdict:  verdict,
		Score:    score,
		Status:   domain.StatusOK,
		Details: domain.ScannerDetails{
			AnalysisID: id,
			Malicious:  stats.Malicious,
			Suspicious: stats.Suspicious,
			Harmless:   stats.Harmless,
		},
		ElapsedMS: time.Since(start).Milliseconds(),
	}
}

func (c *Client) submit(ctx context.Context, rawURL string) (string, error) {
	form := url.Values{"url": {rawURL}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/urls", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("submit: unexpected status %d", resp.StatusCode)
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("submit: empty analysis id")
	}
	return out.Data.ID, nil
}

func (c *Client) report(ctx context.Context, id string) (engineStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint+"/analyses/"+url.PathEscape(id), nil)
	if err != nil {
		return engineStats{}, err
	}
	req.Header.Set("x-apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return engineStats{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return engineStats{}, fmt.Errorf("report: unexpected status %d", resp.StatusCode)
	}

	var out analysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return engineStats{}, fmt.Errorf("report: %w", err)
	}
	return out.Data.Attributes.Stats, nil
}

func errorResult(start time.Time, err error) domain.ProviderResult {
	res := domain.Placeholder(domain.ProviderMultiScanner, domain.StatusError,
		domain.ScannerDetails{Reason: err.Error()})
	res.ElapsedMS = time.Since(start).Milliseconds()
	return res
}
