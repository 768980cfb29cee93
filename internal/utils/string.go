package utils

import (
	"regexp"
	"strings"
)

// NormalizeEmailSubject removes prefixes like Re:, Fwd:, etc. from a subject
func NormalizeEmailSubject(subject string) string {
	subject = strings.TrimSpace(subject)
	prefixRegex := regexp.MustCompile(`(?i)^(Re|Fwd|Fw)(\[\d+\])?:\s*`)
	for prefixRegex.MatchString(subject) {
		subject = prefixRegex.ReplaceAllString(subject, "")
		subject = strings.TrimSpace(subject)
	}
	return subject
}

// NormalizeIdentifier lowercases and strips all whitespace. Used for comparing
// free-text identifiers such as microchip numbers, test types and medicine names.
func NormalizeIdentifier(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeLooseText lowercases and collapses inner whitespace, keeping word
// boundaries. Used for fuzzy containment checks on names and breeds.
func NormalizeLooseText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
