// Package heuristics scores structural red flags of a URL locally,
// without any network I/O. It is the one provider that can never be
// skipped or fail.
package heuristics

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

const (
	baseScore      = 10
	httpPenalty    = 20
	badTLDPenalty  = 40
	shortPenalty   = 25
	typoPenalty    = 40
	keywordPenalty = 25
	maxScore       = 95
)

var badTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top"}

var shorteners = map[string]bool{
	"bit.ly":      true,
	"tinyurl.com": true,
	"t.co":        true,
	"goo.gl":      true,
	"is.gd":       true,
	"ow.ly":       true,
	"buff.ly":     true,
	"rb.gy":       true,
	"cutt.ly":     true,
}

// Digit-substituted brand names, e.g. paypa1 or g0ogle.
var typoPattern = regexp.MustCompile(`paypa[0-9]|g[0-9]ogle|go[0-9]gle|faceb[0-9]{2}k|amaz[0-9]n|micr[0-9]soft|app[0-9]e|netf[0-9]ix|tw[0-9]tter|inst[0-9]gram`)

// Credential-bait wording in the host, a staple of phishing domains.
var keywordPattern = regexp.MustCompile(`login|signin|verify|secure|account|update|confirm|banking|wallet`)

type Checker struct{}

func New() *Checker { return &Checker{} }

func (c *Checker) Check(_ context.Context, rawURL string, _ domain.CheckContext) domain.ProviderResult {
	start := time.Now()
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	host := hostOf(lower)

	d := domain.HeuristicDetails{
		HasHTTP:     strings.HasPrefix(lower, "http://"),
		BadTLD:      hasBadTLD(host),
		IsShortener: shorteners[host],
		TypoSquat:   typoPattern.MatchString(lower),
		Keyword:     keywordPattern.MatchString(host),
	}

	score := baseScore
	if d.HasHTTP {
		score += httpPenalty
	}
	if d.BadTLD {
		score += badTLDPenalty
	}
	if d.IsShortener {
		score += shortPenalty
	}
	if d.TypoSquat {
		score += typoPenalty
	}
	if d.Keyword {
		score += keywordPenalty
	}
	if score > maxScore {
		score = maxScore
	}

	verdict := domain.VerdictSafe
	switch {
	case score >= 70:
		verdict = domain.VerdictMalicious
	case score >= 35:
		verdict = domain.VerdictCaution
	}

	return domain.ProviderResult{
		Provider:  domain.ProviderHeuristics,
		Verdict:   verdict,
		Score:     score,
		Status:    domain.StatusOK,
		Details:   d,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
}

func hostOf(lower string) string {
	if u, err := url.Parse(lower); err == nil && u.Host != "" {
		return u.Hostname()
	}
	// best-effort for scheme-less or unparseable input
	s := strings.TrimPrefix(strings.TrimPrefix(lower, "http://"), "https://")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	return s
}

func hasBadTLD(host string) bool {
	for _, tld := range badTLDs {
		if strings.HasSuffix(host, tld) {
			return true
		}
	}
	return false
}
