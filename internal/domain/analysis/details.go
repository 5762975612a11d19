package analysis

import "encoding/json"

// Details is the per-provider payload attached to a ProviderResult.
// One concrete type per provider kind instead of an untyped map.
type Details interface {
	providerDetails()
}

// ThreatListDetails for the reputation blocklist lookup.
type ThreatListDetails struct {
	Matched     bool     `json:"matched"`
	Matches     int      `json:"matches,omitempty"`
	ThreatTypes []string `json:"threatTypes,omitempty"`
	Reason      string   `json:"reason,omitempty"`
}

// ScannerDetails for the multi-engine scanner tallies.
type ScannerDetails struct {
	AnalysisID string `json:"analysisId,omitempty"`
	Malicious  int    `json:"malicious"`
	Suspicious int    `json:"suspicious"`
	Harmless   int    `json:"harmless"`
	Reason     string `json:"reason,omitempty"`
}

// HeuristicDetails records which structural red flags fired.
type HeuristicDetails struct {
	HasHTTP     bool `json:"hasHttp"`
	BadTLD      bool `json:"badTld"`
	IsShortener bool `json:"isShort"`
	TypoSquat   bool `json:"typo"`
	Keyword     bool `json:"keyword"`
}

// DNSDetails for the synthesized dns pseudo-result.
type DNSDetails struct {
	Exists  bool     `json:"exists"`
	Records []string `json:"records,omitempty"`
}

// AIDetails carries the model's structured assessment.
type AIDetails struct {
	Model           string   `json:"model,omitempty"`
	Threats         []string `json:"threats,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Explanation     string   `json:"explanation,omitempty"`
	Reason          string   `json:"reason,omitempty"`
}

func (ThreatListDetails) providerDetails() {}
func (ScannerDetails) providerDetails()    {}
func (HeuristicDetails) providerDetails()  {}
func (DNSDetails) providerDetails()        {}
func (AIDetails) providerDetails()         {}

// UnmarshalJSON decodes the details payload into the concrete type for
// the provider kind, so results survive the JSON round trip through the
// cache store.
func (r *ProviderResult) UnmarshalJSON(b []byte) error {
	var raw struct {
		Provider  ProviderKind    `json:"provider"`
		Verdict   Verdict         `json:"verdict"`
		Score     int             `json:"score"`
		Status    ProviderStatus  `json:"status"`
		Details   json.RawMessage `json:"details"`
		ElapsedMS int64           `json:"elapsed_ms"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Provider = raw.Provider
	r.Verdict = raw.Verdict
	r.Score = raw.Score
	r.Status = raw.Status
	r.ElapsedMS = raw.ElapsedMS
	r.Details = nil
	if len(raw.Details) == 0 || string(raw.Details) == "null" {
		return nil
	}
	switch raw.Provider {
	case ProviderThreatList:
		var d ThreatListDetails
		if err := json.Unmarshal(raw.Details, &d); err != nil {
			return err
		}
		r.Details = d
	case ProviderMultiScanner:
		var d ScannerDetails
		if err := json.Unmarshal(raw.Details, &d); err != nil {
			return err
		}
		r.Details = d
	case ProviderHeuristics:
		var d HeuristicDetails
		if err := json.Unmarshal(raw.Details, &d); err != nil {
			return err
		}
		r.Details = d
	case ProviderDNS:
		var d DNSDetails
		if err := json.Unmarshal(raw.Details, &d); err != nil {
			return err
		}
		r.Details = d
	case ProviderAIContext:
		var d AIDetails
		if err := json.Unmarshal(raw.Details, &d); err != nil {
			return err
		}
		r.Details = d
	}
	return nil
}
