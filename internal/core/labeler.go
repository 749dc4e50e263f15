package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultDomainWindow   = 100
	DefaultLabelBatchSize = 20
)

// DomainSet answers whether a domain is excluded from labeling
type DomainSet interface {
	Contains(domain string) bool
}

// InboxLabeler classifies the most recent messages and attaches labels
// through the mail service
type InboxLabeler struct {
	classifier   *ClassificationService
	ignored      DomainSet
	logger       *zap.Logger
	domainWindow int
	batchSize    int
}

// NewInboxLabeler creates a new inbox labeler; ignored may be nil
func NewInboxLabeler(
	classifier *ClassificationService,
	ignored DomainSet,
	logger *zap.Logger,
	domainWindow int,
	batchSize int,
) *InboxLabeler {
	if domainWindow <= 0 {
		domainWindow = DefaultDomainWindow
	}
	if batchSize <= 0 {
		batchSize = DefaultLabelBatchSize
	}
	return &InboxLabeler{
		classifier:   classifier,
		ignored:      ignored,
		logger:       logger,
		domainWindow: domainWindow,
		batchSize:    batchSize,
	}
}

// LabelRecent labels up to batchSize recent messages. Per-message failures
// are recorded in the report; only listing failures abort the run.
func (l *InboxLabeler) LabelRecent(ctx context.Context, mail MailService) (*LabelReport, error) {
	domains, err := l.recentDomains(ctx, mail)
	if err != nil {
		return nil, err
	}
	cache := l.classifier.BuildEntertainmentCache(ctx, domains)

	ids, err := mail.ListRecentMessageIDs(ctx, l.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	labels := newLabelResolver(mail)
	report := &LabelReport{
		Domains: len(domains),
		Results: make([]LabelOutcome, 0, len(ids)),
	}

	for _, id := range ids {
		report.Results = append(report.Results, l.labelOne(ctx, mail, labels, cache, id))
		report.Processed++
	}

	l.logger.Info("Labeling run finished",
		zap.Int("processed", report.Processed),
		zap.Int("domains", report.Domains))
	return report, nil
}

func (l *InboxLabeler) labelOne(ctx context.Context, mail MailService, labels *labelResolver, cache EntertainmentCache, id string) LabelOutcome {
	outcome := LabelOutcome{MessageID: id}

	msg, err := mail.GetMessageMetadata(ctx, id)
	if err != nil {
		l.logger.Warn("Failed to fetch message", zap.String("message_id", id), zap.Error(err))
		outcome.Category = CategoryNone
		outcome.Error = err.Error()
		return outcome
	}

	sender := SenderAddress(msg.From)
	outcome.Domain = ExtractDomain(sender)

	if l.ignored != nil && outcome.Domain != "" && l.ignored.Contains(outcome.Domain) {
		outcome.Category = CategoryNone
		outcome.Reason = "ignored domain"
		return outcome
	}

	result := l.classifier.ClassifyMessage(ctx, outcome.Domain, msg.Subject, sender, cache)
	outcome.Category = result.DisplayCategory()
	outcome.Confidence = result.Confidence
	outcome.Reason = result.Reason

	if !result.Applicable() {
		return outcome
	}

	labelID, err := labels.ensure(ctx, result.Category)
	if err != nil {
		l.logger.Warn("Failed to ensure label", zap.String("label", result.Category), zap.Error(err))
		outcome.Error = err.Error()
		return outcome
	}
	if err := mail.AddLabel(ctx, id, labelID); err != nil {
		l.logger.Warn("Failed to apply label",
			zap.String("message_id", id),
			zap.String("label", result.Category),
			zap.Error(err))
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Applied = true
	return outcome
}

func (l *InboxLabeler) recentDomains(ctx context.Context, mail MailService) ([]string, error) {
	ids, err := mail.ListRecentMessageIDs(ctx, l.domainWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	domains := make([]string, 0, len(ids))
	for _, id := range ids {
		msg, err := mail.GetMessageMetadata(ctx, id)
		if err != nil {
			l.logger.Debug("Skipping message in domain scan", zap.String("message_id", id), zap.Error(err))
			continue
		}
		domains = append(domains, ExtractDomain(SenderAddress(msg.From)))
	}
	return uniqueDomains(domains), nil
}

// labelResolver maps label names to ids for one run, creating labels on demand
type labelResolver struct {
	mail   MailService
	loaded bool
	ids    map[string]string
}

func newLabelResolver(mail MailService) *labelResolver {
	return &labelResolver{mail: mail, ids: make(map[string]string)}
}

func (r *labelResolver) ensure(ctx context.Context, name string) (string, error) {
	if !r.loaded {
		existing, err := r.mail.ListLabels(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list labels: %w", err)
		}
		for _, lbl := range existing {
			r.ids[strings.ToLower(lbl.Name)] = lbl.ID
		}
		r.loaded = true
	}

	key := strings.ToLower(name)
	if id, ok := r.ids[key]; ok {
		return id, nil
	}

	created, err := r.mail.CreateLabel(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to create label %s: %w", name, err)
	}
	r.ids[key] = created.ID
	return created.ID, nil
}
