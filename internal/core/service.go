package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// DefaultSkipCategories are reported but never applied as labels
var DefaultSkipCategories = []string{CategoryPersonal}

// DomainClassifier builds entertainment verdicts for a set of domains
type DomainClassifier interface {
	ClassifyBatch(ctx context.Context, domains []string) EntertainmentCache
	ClassifyDomain(ctx context.Context, domain string) bool
}

// ClassificationService decides a message's category from the label store,
// the rule engine and the entertainment cache, in that order
type ClassificationService struct {
	store          LabelStore
	rules          *RuleEngine
	classifier     DomainClassifier
	logger         *zap.Logger
	skipCategories map[string]struct{}
	metrics        Metrics
}

// NewClassificationService creates a new classification service. A nil
// skipCategories selects DefaultSkipCategories; a nil classifier disables
// the entertainment tier.
func NewClassificationService(
	store LabelStore,
	rules *RuleEngine,
	classifier DomainClassifier,
	logger *zap.Logger,
	skipCategories []string,
	metrics Metrics,
) *ClassificationService {
	if rules == nil {
		rules = NewRuleEngine()
	}
	if skipCategories == nil {
		skipCategories = DefaultSkipCategories
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}

	skip := make(map[string]struct{}, len(skipCategories))
	for _, c := range skipCategories {
		skip[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}

	return &ClassificationService{
		store:          store,
		rules:          rules,
		classifier:     classifier,
		logger:         logger,
		skipCategories: skip,
		metrics:        metrics,
	}
}

// BuildEntertainmentCache asks the classifier about every distinct domain
// once. Without a classifier the cache is empty.
func (s *ClassificationService) BuildEntertainmentCache(ctx context.Context, domains []string) EntertainmentCache {
	if s.classifier == nil {
		return EntertainmentCache{}
	}
	return s.classifier.ClassifyBatch(ctx, domains)
}

// CheckDomain asks the classifier about a single domain and returns a cache
// holding just that verdict
func (s *ClassificationService) CheckDomain(ctx context.Context, domain string) EntertainmentCache {
	domain = NormalizeDomain(domain)
	if s.classifier == nil || domain == "" {
		return EntertainmentCache{}
	}
	return EntertainmentCache{domain: s.classifier.ClassifyDomain(ctx, domain)}
}

// ClassifyMessage resolves the category for one message
func (s *ClassificationService) ClassifyMessage(ctx context.Context, domain, subject, sender string, cache EntertainmentCache) ClassificationResult {
	domain = NormalizeDomain(domain)

	result := s.resolve(ctx, domain, subject, sender, cache)
	if _, skip := s.skipCategories[strings.ToLower(result.Category)]; skip {
		result.Skipped = true
	}

	s.metrics.ClassificationRecorded(result.Tier)
	s.logger.Debug("Classified message",
		zap.String("domain", domain),
		zap.String("category", result.Category),
		zap.Int("confidence", result.Confidence),
		zap.String("tier", string(result.Tier)),
		zap.Bool("skipped", result.Skipped))

	return result
}

func (s *ClassificationService) resolve(ctx context.Context, domain, subject, sender string, cache EntertainmentCache) ClassificationResult {
	if domain != "" && s.store != nil {
		label, err := s.store.Get(ctx, domain)
		switch {
		case err == nil:
			return ClassificationResult{
				Category:   label,
				Confidence: 99,
				Reason:     "DB override",
				Tier:       TierOverride,
			}
		case !errors.Is(err, ErrNotFound):
			s.logger.Warn("Label store lookup failed, falling through to rules",
				zap.String("domain", domain),
				zap.Error(err))
		}
	}

	switch outcome := s.rules.Classify(subject, sender).(type) {
	case Resolved:
		return ClassificationResult{
			Category:   outcome.Category,
			Confidence: outcome.Confidence,
			Reason:     outcome.Reason,
			Tier:       TierRule,
		}
	case NeedsExternalCheck:
		if cache.IsEntertainment(domain) {
			return ClassificationResult{
				Category:   CategoryEntertainment,
				Confidence: 80,
				Reason:     "AI entertainment",
				Tier:       TierAI,
			}
		}
	}

	return ClassificationResult{
		Category:   CategoryNone,
		Confidence: 0,
		Reason:     "no rule matched",
		Tier:       TierNone,
	}
}
