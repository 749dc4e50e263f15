package whitelist

import (
	"strings"

	"github.com/mikey/inbox-labeler/internal/core"
	"go.uber.org/zap"
)

// Checker holds the sender domains that batch labeling leaves alone
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new whitelist checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = core.NormalizeDomain(strings.TrimPrefix(strings.TrimSpace(d), "@"))
		if d != "" {
			set[d] = struct{}{}
		}
	}

	if len(set) > 0 && logger != nil {
		logger.Info("Initialized domain whitelist", zap.Int("domains", len(set)))
	}

	return &Checker{
		domains: set,
		logger:  logger,
	}
}

// Contains reports whether domain is whitelisted
func (c *Checker) Contains(domain string) bool {
	if c == nil || len(c.domains) == 0 {
		return false
	}
	_, ok := c.domains[core.NormalizeDomain(domain)]
	if ok && c.logger != nil {
		c.logger.Debug("Domain is whitelisted", zap.String("domain", domain))
	}
	return ok
}
