package prompt

import (
	"fmt"
	"strings"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a cybersecurity analyst assessing whether a URL is safe to open. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- riskLevel must be one of: safe, caution, malicious.
- riskScore is an integer from 0 to 100.
- threats and recommendations are short, user-facing strings; keep each under 120 characters.
- Consider the DNS context provided: a domain that does not resolve is a strong phishing indicator.
- Be conservative: when in doubt, prefer caution over safe.

Schema (example with empty values):
{
  "riskLevel": "<safe|caution|malicious>",
  "riskScore": 0,
  "threats": ["<string>"],
  "recommendations": ["<string>"],
  "explanation": "<string>"
}`
}

// GetUserPrompt builds a compact user message around the URL and its
// DNS resolution context.
func GetUserPrompt(rawURL string, dnsExists bool, dnsRecords []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assess this URL and respond with the JSON per schema. URL: %s\n", rawURL)
	fmt.Fprintf(&b, "DNS context: resolves=%t", dnsExists)
	if len(dnsRecords) > 0 {
		fmt.Fprintf(&b, ", records=%s", strings.Join(dnsRecords, ", "))
	}
	return b.String()
}
