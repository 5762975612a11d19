package middleware

import (
	"fmt"
	"strings"
)

// Input validation and sanitization utilities

const maxURLLength = 2048

// ValidateCandidateURL applies basic sanity checks before analysis.
// Parse errors are NOT rejected here: the engine handles unparseable
// URLs as a best-effort passthrough.
func ValidateCandidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	if len(rawURL) > maxURLLength {
		return fmt.Errorf("URL exceeds %d characters", maxURLLength)
	}
	if strings.ContainsAny(rawURL, "\x00\n\r") {
		return fmt.Errorf("URL contains control characters")
	}
	return nil
}

// ValidateLimit clamps a pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
