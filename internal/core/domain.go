package core

import (
	"regexp"
	"sort"
	"strings"
)

var angleAddress = regexp.MustCompile(`<([^>]+)>`)

// NormalizeDomain lowercases and trims a domain key
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// SenderAddress pulls the bare address out of a From header value.
// "Jane <jane@example.com>" yields "jane@example.com"; anything without
// angle brackets is returned trimmed.
func SenderAddress(from string) string {
	if m := angleAddress.FindStringSubmatch(from); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(from)
}

// ExtractDomain returns the lowercased part after '@', or "" when there is none
func ExtractDomain(address string) string {
	at := strings.LastIndex(address, "@")
	if at < 0 {
		return ""
	}
	return NormalizeDomain(address[at+1:])
}

// uniqueDomains normalizes, drops empties and deduplicates, returning a sorted slice
func uniqueDomains(domains []string) []string {
	seen := make(map[string]struct{}, len(domains))
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = NormalizeDomain(d)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
