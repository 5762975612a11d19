package analysis

import (
	"net/url"
	"strings"
)

// Normalize parses a candidate URL into absolute form, defaulting the
// scheme to https:// when missing. When even the prefixed form does not
// parse, the raw string is passed through unchanged as a best-effort
// fallback (host empty). Never fails.
func Normalize(raw string) (normalized string, host string) {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		return raw, u.Hostname()
	}
	if u, err := url.Parse("https://" + raw); err == nil && u.Host != "" {
		return "https://" + raw, u.Hostname()
	}
	return raw, ""
}

// CacheKey folds a normalized URL into its cache key form.
func CacheKey(normalized string) string {
	return strings.ToLower(strings.TrimSpace(normalized))
}
