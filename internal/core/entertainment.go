package core

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// DefaultEntertainmentBatchSize bounds how many domains go into one prompt
const DefaultEntertainmentBatchSize = 20

const batchPromptFormat = `Classify each domain as entertainment/social/dating or not.

Entertainment examples:
- Dating: tinder, bumble, hinge
- Social: instagram, facebook, reddit, pinterest
- Video/Music: netflix, primevideo, youtube, spotify

Return ONLY JSON:
{
 "results": [
   {"domain": "...", "entertainment": true/false}
 ]
}

Domains: %s`

const singlePromptFormat = `You are a domain classifier.

Classify ONLY whether this domain belongs to entertainment, social media, or dating apps.

Entertainment examples:
- Dating: tinder, bumble, hinge
- Social: instagram, facebook, reddit, pinterest
- Video/Music: netflix, primevideo, youtube, spotify

DOMAIN: %q

Respond ONLY as valid JSON:
{
  "entertainment": true/false
}`

type batchVerdict struct {
	Results []struct {
		Domain        string `json:"domain"`
		Entertainment bool   `json:"entertainment"`
	} `json:"results"`
}

type singleVerdict struct {
	Entertainment bool `json:"entertainment"`
}

// EntertainmentClassifier asks the model whether domains belong to
// entertainment, social or dating services. Every failure resolves to false.
type EntertainmentClassifier struct {
	generator TextGenerator
	logger    *zap.Logger
	batchSize int
	metrics   Metrics
}

// NewEntertainmentClassifier creates a new classifier
func NewEntertainmentClassifier(generator TextGenerator, logger *zap.Logger, batchSize int, metrics Metrics) *EntertainmentClassifier {
	if batchSize <= 0 {
		batchSize = DefaultEntertainmentBatchSize
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &EntertainmentClassifier{
		generator: generator,
		logger:    logger,
		batchSize: batchSize,
		metrics:   metrics,
	}
}

// ClassifyBatch returns a verdict for every distinct non-empty domain
func (c *EntertainmentClassifier) ClassifyBatch(ctx context.Context, domains []string) EntertainmentCache {
	unique := uniqueDomains(domains)
	cache := make(EntertainmentCache, len(unique))

	for start := 0; start < len(unique); start += c.batchSize {
		end := start + c.batchSize
		if end > len(unique) {
			end = len(unique)
		}
		batch := unique[start:end]

		// Absent or failed answers stay false
		for _, d := range batch {
			cache[d] = false
		}

		verdict, err := c.classifyBatch(ctx, batch)
		if err != nil {
			c.logger.Warn("Entertainment batch failed, defaulting to false",
				zap.Int("batch_size", len(batch)),
				zap.Error(err))
			c.metrics.EntertainmentBatchRecorded("failed")
			continue
		}

		for _, row := range verdict.Results {
			d := NormalizeDomain(row.Domain)
			if _, asked := cache[d]; asked {
				cache[d] = row.Entertainment
			}
		}
		c.metrics.EntertainmentBatchRecorded("ok")
	}

	return cache
}

func (c *EntertainmentClassifier) classifyBatch(ctx context.Context, batch []string) (*batchVerdict, error) {
	list, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode domain list: %w", err)
	}

	text, err := c.generator.Generate(ctx, fmt.Sprintf(batchPromptFormat, list))
	if err != nil {
		return nil, err
	}

	var verdict batchVerdict
	if err := parseModelJSON(text, &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

// ClassifyDomain checks a single domain
func (c *EntertainmentClassifier) ClassifyDomain(ctx context.Context, domain string) bool {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return false
	}

	text, err := c.generator.Generate(ctx, fmt.Sprintf(singlePromptFormat, domain))
	if err != nil {
		c.logger.Warn("Entertainment check failed, defaulting to false",
			zap.String("domain", domain), zap.Error(err))
		c.metrics.EntertainmentBatchRecorded("failed")
		return false
	}

	var verdict singleVerdict
	if err := parseModelJSON(text, &verdict); err != nil {
		c.logger.Warn("Unparseable entertainment verdict, defaulting to false",
			zap.String("domain", domain), zap.Error(err))
		c.metrics.EntertainmentBatchRecorded("failed")
		return false
	}

	c.metrics.EntertainmentBatchRecorded("ok")
	return verdict.Entertainment
}
