package analysis

import (
	"math"
	"strings"

	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

// Verdict thresholds on the rounded 0-10 score.
const (
	maliciousThreshold = 3.5
	cautionThreshold   = 1.5
)

// Floors applied to the 0-100 provider-score average before scaling.
const (
	vetoScoreFloor     = 75 // one provider malicious with score >= 80
	agreementFloor     = 20 // two or more non-safe verdicts
	httpBadTLDFloor    = 40 // heuristics saw plain http on a deny-listed TLD
	vetoTriggerScore   = 80
	httpsOverrideScore = 1.6
)

// DeriveVerdict reduces a full set of provider results into one risk
// level and a 0-10 score. Pure and order-independent: every step is
// commutative over the results slice.
func DeriveVerdict(rawURL string, results []domain.ProviderResult) (domain.Verdict, float64) {
	score := scaledScore(results)

	level := domain.VerdictSafe
	switch {
	case score > maliciousThreshold:
		level = domain.VerdictMalicious
	case score > cautionThreshold:
		level = domain.VerdictCaution
	}

	// Plain-http URLs are never reported fully safe. Upgrade only; a
	// caution or malicious verdict stands on its own.
	if level == domain.VerdictSafe && !strings.HasPrefix(strings.ToLower(rawURL), "https://") {
		level = domain.VerdictCaution
		if score < httpsOverrideScore {
			score = httpsOverrideScore
		}
	}
	return level, score
}

// scaledScore averages the per-provider scores, applies the veto and
// agreement floors on the 0-100 scale, and rounds down to 0-10.
func scaledScore(results []domain.ProviderResult) float64 {
	if len(results) == 0 {
		return 0
	}

	sum := 0
	maxMalicious := 0
	notSafe := 0
	dangerCombo := false
	for _, r := range results {
		sum += r.Score
		if r.Verdict == domain.VerdictMalicious && r.Score > maxMalicious {
			maxMalicious = r.Score
		}
		if r.Verdict != domain.VerdictSafe {
			notSafe++
		}
		if d, ok := r.Details.(domain.HeuristicDetails); ok && d.HasHTTP && d.BadTLD {
			dangerCombo = true
		}
	}

	avg := float64(sum) / float64(len(results))
	if maxMalicious >= vetoTriggerScore {
		avg = math.Max(avg, vetoScoreFloor)
	}
	if notSafe >= 2 {
		avg = math.Max(avg, agreementFloor)
	}
	if dangerCombo {
		avg = math.Max(avg, httpBadTLDFloor)
	}

	score := math.Round(avg / 10)
	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}
	return score
}
