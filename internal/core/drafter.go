package core

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
)

const replyPromptFormat = `You are an assistant that drafts professional and natural email replies.

Below is the full email thread. Summaries and clean replies are allowed.
Do NOT hallucinate details. Maintain the same tone and context.

THREAD:
%s

Write a helpful reply:`

// Reasons reported for ineligible messages
const (
	ReasonSenderNotAllowed = "Sender not gmail.com"
	ReasonTooOld           = "Email older than 24 hours"
)

// BodyProcessor turns raw body bytes into model-ready plain text
type BodyProcessor interface {
	DecodeCharset(data []byte, charset string) string
	HTMLToText(html string) string
	ProcessText(text string, maxSize int) string
}

// DrafterOptions tunes the reply drafter
type DrafterOptions struct {
	SenderFilter  string
	MaxAge        time.Duration
	PreviewLength int
	MaxBodySize   int
	BatchSize     int
	Now           func() time.Time
}

func (o *DrafterOptions) withDefaults() {
	if o.SenderFilter == "" {
		o.SenderFilter = "@gmail.com"
	}
	if o.MaxAge <= 0 {
		o.MaxAge = 24 * time.Hour
	}
	if o.PreviewLength <= 0 {
		o.PreviewLength = 200
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 20
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// ReplyDrafter drafts replies to recent messages from allowed senders
type ReplyDrafter struct {
	generator TextGenerator
	processor BodyProcessor
	logger    *zap.Logger
	opts      DrafterOptions
	metrics   Metrics
}

// NewReplyDrafter creates a new reply drafter
func NewReplyDrafter(generator TextGenerator, processor BodyProcessor, logger *zap.Logger, opts DrafterOptions, metrics Metrics) *ReplyDrafter {
	opts.withDefaults()
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &ReplyDrafter{
		generator: generator,
		processor: processor,
		logger:    logger,
		opts:      opts,
		metrics:   metrics,
	}
}

// CheckEligibility applies the sender and age gates in order. The returned
// reason is empty when the message is eligible.
func (d *ReplyDrafter) CheckEligibility(msg *Message) (bool, string) {
	if !strings.Contains(msg.From, d.opts.SenderFilter) {
		return false, ReasonSenderNotAllowed
	}
	if !d.isRecent(msg.Date) {
		return false, ReasonTooOld
	}
	return true, ""
}

func (d *ReplyDrafter) isRecent(date string) bool {
	sent, err := mail.ParseDate(strings.TrimSpace(date))
	if err != nil {
		return false
	}
	return d.opts.Now().Sub(sent) <= d.opts.MaxAge
}

// ExtractBodyText finds the first inline text part, depth first, and
// returns it as plain text
func (d *ReplyDrafter) ExtractBodyText(msg *Message) string {
	part := firstTextPart(msg.Payload)
	if part == nil {
		return ""
	}

	text := d.processor.DecodeCharset(part.Data, part.Charset())
	if strings.EqualFold(mediaType(part.MimeType), "text/html") {
		text = d.processor.HTMLToText(text)
	}
	return strings.TrimSpace(text)
}

func firstTextPart(p *MessagePart) *MessagePart {
	if p == nil {
		return nil
	}
	if len(p.Data) > 0 && p.Filename == "" {
		mt := strings.ToLower(mediaType(p.MimeType))
		if mt == "" || strings.HasPrefix(mt, "text/") {
			return p
		}
	}
	for _, child := range p.Parts {
		if found := firstTextPart(child); found != nil {
			return found
		}
	}
	return nil
}

func mediaType(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.TrimSpace(mimeType)
}

// GenerateReply asks the model for a reply to body
func (d *ReplyDrafter) GenerateReply(ctx context.Context, body string) (string, error) {
	body = d.processor.ProcessText(body, d.opts.MaxBodySize)

	reply, err := d.generator.Generate(ctx, fmt.Sprintf(replyPromptFormat, body))
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ErrEmptyResponse
	}
	return reply, nil
}

// PreviewReply runs eligibility and generation without creating a draft
func (d *ReplyDrafter) PreviewReply(ctx context.Context, msg *Message) (*DraftResult, error) {
	if ok, reason := d.CheckEligibility(msg); !ok {
		return &DraftResult{MessageID: msg.ID, Reason: reason}, nil
	}

	reply, err := d.GenerateReply(ctx, d.ExtractBodyText(msg))
	if err != nil {
		return nil, err
	}
	return &DraftResult{MessageID: msg.ID, Eligible: true, Preview: reply}, nil
}

// DraftReply drafts a reply to one fully fetched message
func (d *ReplyDrafter) DraftReply(ctx context.Context, svc MailService, msg *Message) (*DraftResult, error) {
	if ok, reason := d.CheckEligibility(msg); !ok {
		d.logger.Debug("Message not eligible for reply",
			zap.String("message_id", msg.ID),
			zap.String("reason", reason))
		d.metrics.DraftRecorded("ineligible")
		return &DraftResult{MessageID: msg.ID, Reason: reason}, nil
	}

	reply, err := d.GenerateReply(ctx, d.ExtractBodyText(msg))
	if err != nil {
		d.metrics.DraftRecorded("failed")
		return nil, err
	}

	draftID, err := svc.CreateDraft(ctx, &DraftRequest{
		To:       msg.From,
		Subject:  "Re: " + msg.Subject,
		Body:     reply,
		ThreadID: msg.ThreadID,
	})
	if err != nil {
		d.metrics.DraftRecorded("failed")
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	d.metrics.DraftRecorded("drafted")
	d.logger.Info("Drafted reply",
		zap.String("message_id", msg.ID),
		zap.String("draft_id", draftID))

	return &DraftResult{
		MessageID: msg.ID,
		Eligible:  true,
		DraftID:   draftID,
		Preview:   Preview(reply, d.opts.PreviewLength),
	}, nil
}

// DraftRecent drafts replies for the most recent messages
func (d *ReplyDrafter) DraftRecent(ctx context.Context, svc MailService) (*DraftReport, error) {
	ids, err := svc.ListRecentMessageIDs(ctx, d.opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	report := &DraftReport{
		Drafted: []DraftResult{},
		Skipped: []DraftResult{},
	}
	for _, id := range ids {
		report.Processed++

		msg, err := svc.GetMessage(ctx, id)
		if err != nil {
			report.Skipped = append(report.Skipped, DraftResult{MessageID: id, Reason: err.Error()})
			continue
		}

		res, err := d.DraftReply(ctx, svc, msg)
		if err != nil {
			d.logger.Warn("Failed to draft reply", zap.String("message_id", id), zap.Error(err))
			report.Skipped = append(report.Skipped, DraftResult{MessageID: id, Eligible: true, Reason: err.Error()})
			continue
		}
		if res.Eligible {
			report.Drafted = append(report.Drafted, *res)
		} else {
			report.Skipped = append(report.Skipped, *res)
		}
	}
	return report, nil
}

// Preview returns the first n runes of text, with "..." when cut
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
