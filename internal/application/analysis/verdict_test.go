package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

func result(kind domain.ProviderKind, verdict domain.Verdict, score int, status domain.ProviderStatus) domain.ProviderResult {
	return domain.ProviderResult{Provider: kind, Verdict: verdict, Score: score, Status: status}
}

func safeSet(n int) []domain.ProviderResult {
	out := make([]domain.ProviderResult, n)
	kinds := []domain.ProviderKind{
		domain.ProviderThreatList, domain.ProviderMultiScanner,
		domain.ProviderAIContext, domain.ProviderHeuristics, domain.ProviderDNS,
	}
	for i := 0; i < n; i++ {
		out[i] = result(kinds[i%len(kinds)], domain.VerdictSafe, 10, domain.StatusOK)
	}
	return out
}

func TestDeriveVerdict_Deterministic(t *testing.T) {
	results := safeSet(4)
	results = append(results, result(domain.ProviderHeuristics, domain.VerdictMalicious, 90, domain.StatusOK))

	l1, s1 := DeriveVerdict("https://example.com", results)
	l2, s2 := DeriveVerdict("https://example.com", results)
	assert.Equal(t, l1, l2)
	assert.Equal(t, s1, s2)
}

func TestDeriveVerdict_OrderIndependent(t *testing.T) {
	results := []domain.ProviderResult{
		result(domain.ProviderThreatList, domain.VerdictSafe, 10, domain.StatusSkipped),
		result(domain.ProviderMultiScanner, domain.VerdictCaution, 45, domain.StatusOK),
		result(domain.ProviderAIContext, domain.VerdictMalicious, 85, domain.StatusOK),
		result(domain.ProviderHeuristics, domain.VerdictSafe, 10, domain.StatusOK),
		result(domain.ProviderDNS, domain.VerdictSafe, 10, domain.StatusOK),
	}

	wantLevel, wantScore := DeriveVerdict("https://example.com", results)
	for rot := 1; rot < len(results); rot++ {
		perm := append(append([]domain.ProviderResult{}, results[rot:]...), results[:rot]...)
		level, score := DeriveVerdict("https://example.com", perm)
		assert.Equal(t, wantLevel, level, "rotation %d", rot)
		assert.Equal(t, wantScore, score, "rotation %d", rot)
	}
}

func TestDeriveVerdict_ScoreBounds(t *testing.T) {
	cases := [][]domain.ProviderResult{
		nil,
		safeSet(5),
		{
			result(domain.ProviderThreatList, domain.VerdictMalicious, 100, domain.StatusOK),
			result(domain.ProviderMultiScanner, domain.VerdictMalicious, 100, domain.StatusOK),
			result(domain.ProviderHeuristics, domain.VerdictMalicious, 95, domain.StatusOK),
		},
		{result(domain.ProviderHeuristics, domain.VerdictSafe, 0, domain.StatusOK)},
	}
	for _, results := range cases {
		_, score := DeriveVerdict("https://example.com", results)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 10.0)
	}
}

func TestDeriveVerdict_MaliciousVeto(t *testing.T) {
	results := safeSet(4)
	results = append(results, result(domain.ProviderThreatList, domain.VerdictMalicious, 95, domain.StatusOK))

	level, score := DeriveVerdict("https://example.com", results)
	assert.Equal(t, domain.VerdictMalicious, level)
	assert.Greater(t, score, 3.5)
}

func TestDeriveVerdict_HTTPSFloor(t *testing.T) {
	level, score := DeriveVerdict("http://example.com", safeSet(5))
	assert.Equal(t, domain.VerdictCaution, level)
	assert.GreaterOrEqual(t, score, 1.6)

	// never downgrades a more severe verdict
	results := safeSet(4)
	results = append(results, result(domain.ProviderThreatList, domain.VerdictMalicious, 95, domain.StatusOK))
	level, _ = DeriveVerdict("http://example.com", results)
	assert.Equal(t, domain.VerdictMalicious, level)
}

func TestDeriveVerdict_SkippedNeutrality(t *testing.T) {
	withSkipped := safeSet(4)
	withSkipped = append(withSkipped, result(domain.ProviderMultiScanner, domain.VerdictSafe, 10, domain.StatusSkipped))

	withRan := safeSet(4)
	withRan = append(withRan, result(domain.ProviderMultiScanner, domain.VerdictSafe, 10, domain.StatusOK))

	l1, s1 := DeriveVerdict("https://example.com", withSkipped)
	l2, s2 := DeriveVerdict("https://example.com", withRan)
	assert.Equal(t, l1, l2)
	assert.Equal(t, s1, s2)
}

func TestDeriveVerdict_AgreementFloor(t *testing.T) {
	// two weak non-safe signals still guarantee at least caution
	results := []domain.ProviderResult{
		result(domain.ProviderThreatList, domain.VerdictSafe, 10, domain.StatusOK),
		result(domain.ProviderMultiScanner, domain.VerdictCaution, 15, domain.StatusOK),
		result(domain.ProviderAIContext, domain.VerdictCaution, 15, domain.StatusOK),
		result(domain.ProviderHeuristics, domain.VerdictSafe, 10, domain.StatusOK),
		result(domain.ProviderDNS, domain.VerdictSafe, 10, domain.StatusOK),
	}
	level, score := DeriveVerdict("https://example.com", results)
	assert.Equal(t, domain.VerdictCaution, level)
	assert.GreaterOrEqual(t, score, 2.0)
}

func TestDeriveVerdict_HTTPBadTLDFloor(t *testing.T) {
	heur := result(domain.ProviderHeuristics, domain.VerdictMalicious, 70, domain.StatusOK)
	heur.Details = domain.HeuristicDetails{HasHTTP: true, BadTLD: true}
	flagged := append(safeSet(4), heur)

	level, score := DeriveVerdict("http://danger.tk", flagged)
	assert.Equal(t, domain.VerdictMalicious, level)
	assert.GreaterOrEqual(t, score, 4.0)

	// same scores without the flag combination stay below the floor
	plain := append(safeSet(4), result(domain.ProviderHeuristics, domain.VerdictMalicious, 70, domain.StatusOK))
	_, plainScore := DeriveVerdict("https://example.com", plain)
	assert.Less(t, plainScore, 4.0)
}

func TestDeriveVerdict_AllProvidersDegraded(t *testing.T) {
	results := []domain.ProviderResult{
		result(domain.ProviderThreatList, domain.VerdictSafe, 10, domain.StatusSkipped),
		result(domain.ProviderMultiScanner, domain.VerdictSafe, 10, domain.StatusError),
		result(domain.ProviderAIContext, domain.VerdictSafe, 10, domain.StatusSkipped),
		result(domain.ProviderHeuristics, domain.VerdictSafe, 10, domain.StatusOK),
		result(domain.ProviderDNS, domain.VerdictSafe, 10, domain.StatusOK),
	}
	level, score := DeriveVerdict("https://www.wikipedia.org", results)
	assert.Equal(t, domain.VerdictSafe, level)
	assert.InDelta(t, 1.0, score, 0.01)
}
