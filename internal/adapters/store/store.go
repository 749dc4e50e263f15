package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/inbox-labeler/internal/core"
)

// normalize lowercases the domain and rejects empty keys or labels
func normalize(domain, label string) (string, string, error) {
	domain = core.NormalizeDomain(domain)
	label = strings.TrimSpace(label)
	if domain == "" {
		return "", "", fmt.Errorf("%w: domain is required", core.ErrInvalidInput)
	}
	if label == "" {
		return "", "", fmt.Errorf("%w: label is required", core.ErrInvalidInput)
	}
	return domain, label, nil
}

func now() time.Time {
	return time.Now().UTC()
}

// parseTimestamp accepts the layouts written by the SQL stores
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
