package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/seif8911/cyberqr/internal/application"
	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

// Service implements the URL analysis use-case: cache lookup, DNS
// pre-step, concurrent provider fan-out, verdict derivation, write-back.
// Safe for concurrent use; all state lives in the ports.
type Service struct {
	ThreatList domain.Provider
	Scanner    domain.Provider
	AI         domain.Provider
	Heuristics domain.Provider
	Resolver   domain.Resolver
	Cache      domain.Cache
	Archive    domain.Archive // optional
	Clock      application.Clock
}

// Analyze runs the full pipeline for one URL. Provider failures are
// absorbed by the adapters; the only error paths here are the missing
// url client error and nothing else.
func (s *Service) Analyze(ctx context.Context, rawURL string) (*domain.Result, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return nil, domain.ErrMissingURL
	}

	normalized, host := domain.Normalize(raw)
	key := domain.CacheKey(normalized)

	if cached, createdAt, err := s.Cache.Get(ctx, key); err == nil {
		cached.Cached = true
		cached.CacheAge = int64(s.Clock.Now().Sub(createdAt).Minutes())
		return cached, nil
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		// read failure is a miss, not a request failure
		log.Printf("cache read error for %s: %v", key, err)
	}

	// DNS first: its outcome feeds the AI provider and the synthesized
	// dns pseudo-result.
	var dns domain.DNSInfo
	if host != "" {
		dns = s.Resolver.Resolve(ctx, host)
	}
	cc := domain.CheckContext{DNSExists: dns.Exists, DNSRecords: dns.Records}

	// Fan out the three network providers, run heuristics inline, join.
	var threatRes, scanRes, aiRes domain.ProviderResult
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		threatRes = s.ThreatList.Check(ctx, normalized, cc)
	}()
	go func() {
		defer wg.Done()
		scanRes = s.Scanner.Check(ctx, normalized, cc)
	}()
	go func() {
		defer wg.Done()
		aiRes = s.AI.Check(ctx, normalized, cc)
	}()
	heuristicRes := s.Heuristics.Check(ctx, normalized, cc)
	wg.Wait()

	results := []domain.ProviderResult{threatRes, scanRes, aiRes, heuristicRes}
	if host != "" {
		results = append(results, dnsResult(dns))
	}

	level, score := DeriveVerdict(normalized, results)
	res := &domain.Result{
		URL:             normalized,
		RiskLevel:       level,
		RiskScore:       score,
		Results:         results,
		Threats:         buildThreats(results),
		Recommendations: buildRecommendations(level, results),
		Explanation:     buildExplanation(level, score, results),
		AnalyzedAt:      s.Clock.Now(),
	}

	// write-through is best-effort: the fresh result is returned even
	// when caching or archiving fails
	if err := s.Cache.Put(ctx, key, res); err != nil {
		log.Printf("cache write failed for %s: %v", key, err)
	}
	s.archive(ctx, host, res)

	return res, nil
}

// Latest returns the most recent analyses from the cache store.
func (s *Service) Latest(ctx context.Context, limit int) ([]*domain.Result, error) {
	return s.Cache.Latest(ctx, limit)
}

func (s *Service) archive(ctx context.Context, host string, res *domain.Result) {
	if s.Archive == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		log.Printf("archive marshal failed: %v", err)
		return
	}
	if host == "" {
		host = "unparsed"
	}
	key := fmt.Sprintf("%s/%s/%s.json", host, s.Clock.Now().Format("2006-01-02"), uuid.New().String())
	if _, err := s.Archive.Store(ctx, key, data); err != nil {
		log.Printf("archive write failed for %s: %v", key, err)
	}
}

// dnsResult synthesizes the dns pseudo-provider entry appended by the
// aggregator when the URL carried a resolvable hostname.
func dnsResult(dns domain.DNSInfo) domain.ProviderResult {
	r := domain.ProviderResult{
		Provider:  domain.ProviderDNS,
		Verdict:   domain.VerdictSafe,
		Score:     10,
		Status:    domain.StatusOK,
		Details:   domain.DNSDetails{Exists: dns.Exists, Records: dns.Records},
		ElapsedMS: dns.Elapsed.Milliseconds(),
	}
	if !dns.Exists {
		r.Verdict = domain.VerdictMalicious
		r.Score = 80
	}
	return r
}
