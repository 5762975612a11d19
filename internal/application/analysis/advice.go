package analysis

import (
	"fmt"

	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

// Human-readable threat and recommendation text derived from provider
// details. Presentation only; the scoring contract lives in verdict.go.

func buildThreats(results []domain.ProviderResult) []string {
	var threats []string
	seen := map[string]bool{}
	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			threats = append(threats, t)
		}
	}

	for _, r := range results {
		switch d := r.Details.(type) {
		case domain.ThreatListDetails:
			if d.Matched {
				add(fmt.Sprintf("Listed on a threat intelligence blocklist (%d match(es))", d.Matches))
			}
		case domain.ScannerDetails:
			if d.Malicious > 0 {
				add(fmt.Sprintf("Flagged as malicious by %d security engine(s)", d.Malicious))
			} else if d.Suspicious > 0 && r.Verdict != domain.VerdictSafe {
				add(fmt.Sprintf("Marked suspicious by %d security engine(s)", d.Suspicious))
			}
		case domain.HeuristicDetails:
			if d.HasHTTP {
				add("No HTTPS encryption")
			}
			if d.BadTLD {
				add("Suspicious top-level domain")
			}
			if d.IsShortener {
				add("Shortened URL hides its real destination")
			}
			if d.TypoSquat {
				add("Domain imitates a well-known brand (possible typosquatting)")
			}
			if d.Keyword {
				add("Domain uses credential-bait wording")
			}
		case domain.DNSDetails:
			if !d.Exists {
				add("Domain does not resolve to any address")
			}
		case domain.AIDetails:
			for _, t := range d.Threats {
				add(t)
			}
		}
	}
	return threats
}

func buildRecommendations(level domain.Verdict, results []domain.ProviderResult) []string {
	var recs []string
	seen := map[string]bool{}
	add := func(rec string) {
		if rec != "" && !seen[rec] {
			seen[rec] = true
			recs = append(recs, rec)
		}
	}

	switch level {
	case domain.VerdictMalicious:
		add("Do not open this link")
		add("Report the link as phishing if you received it unexpectedly")
	case domain.VerdictCaution:
		add("Proceed only if you trust the sender")
		add("Verify the domain spelling before entering any information")
	default:
		add("No action needed, but stay vigilant")
	}

	for _, r := range results {
		switch d := r.Details.(type) {
		case domain.HeuristicDetails:
			if d.HasHTTP {
				add("Never enter passwords or payment details on this site")
			}
			if d.IsShortener {
				add("Expand the shortened link to see where it really leads")
			}
		case domain.AIDetails:
			for _, rec := range d.Recommendations {
				add(rec)
			}
		}
	}
	return recs
}

func buildExplanation(level domain.Verdict, score float64, results []domain.ProviderResult) string {
	malicious, caution, degraded := 0, 0, 0
	aiExplanation := ""
	for _, r := range results {
		switch r.Verdict {
		case domain.VerdictMalicious:
			malicious++
		case domain.VerdictCaution:
			caution++
		}
		if r.Status != domain.StatusOK {
			degraded++
		}
		if d, ok := r.Details.(domain.AIDetails); ok && r.Status == domain.StatusOK {
			aiExplanation = d.Explanation
		}
	}

	explanation := fmt.Sprintf(
		"Checked %d signal sources: %d reported malicious, %d reported caution, %d unavailable. Overall risk is %s (%.1f/10).",
		len(results), malicious, caution, degraded, level, score,
	)
	if aiExplanation != "" {
		explanation += " " + aiExplanation
	}
	return explanation
}
