// Package safebrowsing looks a URL up against the Safe Browsing
// threatMatches API.
package safebrowsing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

const DefaultEndpoint = "https://safebrowsing.googleapis.com/v4/threatMatches:find"

const (
	matchScore   = 85
	noMatchScore = 10
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
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{endpoint: endpoint, apiKey: apiKey, client: client}
}

type request struct {
	Client struct {
		ClientID      string `json:"clientId"`
		ClientVersion string `json:"clientVersion"`
	} `json:"client"`
	ThreatInfo struct {
		ThreatTypes      []string `json:"threatTypes"`
		PlatformTypes    []string `json:"platformTypes"`
		ThreatEntryTypes []string `json:"threatEntryTypes"`
		ThreatEntries    []struct {
			URL string `json:"url"`
		} `json:"threatEntries"`
	} `json:"threatInfo"`
}

type match struct {
	ThreatType string `json:"threatType"`
}

type response struct {
	Matches []match `json:"matches"`
}

// Check queries the blocklist. Missing credential means skipped; any
// transport or decode failure is absorbed into an error placeholder.
func (c *Client) Check(ctx context.Context, rawURL string, _ domain.CheckContext) domain.ProviderResult {
	if c.apiKey == "" {
		return domain.Placeholder(domain.ProviderThreatList, domain.StatusSkipped,
			domain.ThreatListDetails{Reason: "api key not configured"})
	}

	start := time.Now()
	var body request
	body.Client.ClientID = "cyberqr"
	body.Client.ClientVersion = "1.0.0"
	body.ThreatInfo.ThreatTypes = []string{"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE", "POTENTIALLY_HARMFUL_APPLICATION"}
	body.ThreatInfo.PlatformTypes = []string{"ANY_PLATFORM"}
	body.ThreatInfo.ThreatEntryTypes = []string{"URL"}
	body.ThreatInfo.ThreatEntries = []struct {
		URL string `json:"url"`
	}{{URL: rawURL}}

	payload, err := json.Marshal(body)
	if err != nil {
		return errorResult(start, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s?key=%s", c.endpoint, c.apiKey), bytes.NewReader(payload))
	if err != nil {
		return errorResult(start, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errorResult(start, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errorResult(start, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return errorResult(start, err)
	}

	res := domain.ProviderResult{
		Provider:  domain.ProviderThreatList,
		Verdict:   domain.VerdictSafe,
		Score:     noMatchScore,
		Status:    domain.StatusOK,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	d := domain.ThreatListDetails{Matched: len(out.Matches) > 0, Matches: len(out.Matches)}
	for _, m := range out.Matches {
		d.ThreatTypes = append(d.ThreatTypes, m.ThreatType)
	}
	res.Details = d
	if d.Matched {
		res.Verdict = domain.VerdictMalicious
		res.Score = matchScore
	}
	return res
}

func errorResult(start time.Time, err error) domain.ProviderResult {
	res := domain.Placeholder(domain.ProviderThreatList, domain.StatusError,
		domain.ThreatListDetails{Reason: err.Error()})
	res.ElapsedMS = time.Since(start).Milliseconds()
	return res
}
