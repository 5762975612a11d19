package analysis

import "time"

// Verdict enum
type Verdict string

const (
	VerdictSafe      Verdict = "safe"
	VerdictCaution   Verdict = "caution"
	VerdictMalicious Verdict = "malicious"
)

// ProviderKind enum
type ProviderKind string

const (
	ProviderThreatList   ProviderKind = "threat_list"
	ProviderMultiScanner ProviderKind = "multi_scanner"
	ProviderHeuristics   ProviderKind = "heuristics"
	ProviderDNS          ProviderKind = "dns"
	ProviderAIContext    ProviderKind = "ai_context"
)

// ProviderStatus enum
type ProviderStatus string

const (
	StatusOK      ProviderStatus = "ok"
	StatusSkipped ProviderStatus = "skipped"
	StatusError   ProviderStatus = "error"
)

// ProviderResult is one provider's contribution to an analysis run.
// Score is on a 0-100 scale. A skipped or failed provider still produces
// a result (score 10, verdict safe) so it cannot swing the aggregate by
// vanishing.
type ProviderResult struct {
	Provider  ProviderKind   `json:"provider"`
	Verdict   Verdict        `json:"verdict"`
	Score     int            `json:"score"`
	Status    ProviderStatus `json:"status"`
	Details   Details        `json:"details,omitempty"`
	ElapsedMS int64          `json:"elapsed_ms"`
}

// Placeholder builds the conservative low-score result used when a
// provider is unconfigured or fails.
func Placeholder(kind ProviderKind, status ProviderStatus, details Details) ProviderResult {
	return ProviderResult{
		Provider: kind,
		Verdict:  VerdictSafe,
		Score:    10,
		Status:   status,
		Details:  details,
	}
}

// Aggregate Root: Result is the reconciled outcome of one analysis run.
// Immutable once built; this is what gets cached and returned.
type Result struct {
	URL             string           `json:"url"`
	RiskLevel       Verdict          `json:"riskLevel"`
	RiskScore       float64          `json:"riskScore"`
	Results         []ProviderResult `json:"results"`
	Threats         []string         `json:"threats"`
	Recommendations []string         `json:"recommendations"`
	Explanation     string           `json:"explanation"`
	AnalyzedAt      time.Time        `json:"analyzedAt"`

	// set only when served from the cache
	Cached   bool  `json:"cached,omitempty"`
	CacheAge int64 `json:"cacheAge,omitempty"` // minutes
}

// DNSInfo is the resolver output, used both as context for the AI
// provider and to synthesize the dns pseudo-result.
type DNSInfo struct {
	Exists  bool
	Records []string
	Elapsed time.Duration
}

// CheckContext carries per-run context shared with providers.
type CheckContext struct {
	DNSExists  bool
	DNSRecords []string
}
