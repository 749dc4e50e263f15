package core

import (
	"fmt"
	"mime"
	"strings"
	"time"
)

// LabelSource records how a domain override was created
type LabelSource string

const (
	SourceSeed   LabelSource = "seed"
	SourceManual LabelSource = "manual"
	SourceAI     LabelSource = "ai"
)

// ParseLabelSource validates a stored or user-supplied source tag
func ParseLabelSource(s string) (LabelSource, error) {
	switch LabelSource(strings.ToLower(strings.TrimSpace(s))) {
	case SourceSeed:
		return SourceSeed, nil
	case SourceManual:
		return SourceManual, nil
	case SourceAI:
		return SourceAI, nil
	default:
		return "", fmt.Errorf("%w: unknown label source %q", ErrInvalidInput, s)
	}
}

// DomainLabelRecord is a persisted domain override
type DomainLabelRecord struct {
	Domain    string      `json:"domain"`
	Label     string      `json:"label"`
	Source    LabelSource `json:"source"`
	CreatedAt time.Time   `json:"created_at"`
}

// Category names produced by the pipeline
const (
	CategoryNone          = "None"
	CategoryFinance       = "Finance"
	CategoryBills         = "Bills"
	CategoryPromotions    = "Promotions"
	CategoryCareer        = "Career"
	CategoryWork          = "Work"
	CategoryTravel        = "Travel"
	CategorySupport       = "Support"
	CategoryUrgent        = "Urgent"
	CategoryNewsletter    = "Newsletter"
	CategoryPersonal      = "Personal"
	CategoryEntertainment = "Entertainment"
)

// Tier names the precedence level that decided a classification
type Tier string

const (
	TierOverride Tier = "override"
	TierRule     Tier = "rule"
	TierAI       Tier = "ai"
	TierNone     Tier = "none"
)

// ClassificationResult is the per-message outcome of the pipeline
type ClassificationResult struct {
	Category   string `json:"category"`
	Confidence int    `json:"confidence"`
	Reason     string `json:"reason"`
	Tier       Tier   `json:"tier"`
	// Skipped marks a category that is reported but never applied
	Skipped bool `json:"skipped"`
}

// Applicable reports whether the caller should attach a label
func (r ClassificationResult) Applicable() bool {
	return !r.Skipped && r.Category != CategoryNone && r.Category != ""
}

// DisplayCategory renders the category the way batch reports show it
func (r ClassificationResult) DisplayCategory() string {
	if r.Skipped {
		return r.Category + " (skipped)"
	}
	return r.Category
}

// EntertainmentCache holds per-batch entertainment verdicts keyed by domain
type EntertainmentCache map[string]bool

// IsEntertainment returns the cached verdict, false when absent
func (c EntertainmentCache) IsEntertainment(domain string) bool {
	if c == nil {
		return false
	}
	return c[NormalizeDomain(domain)]
}

// Message is a mail message as supplied by the mail service
type Message struct {
	ID       string
	ThreadID string
	From     string
	Subject  string
	Date     string
	Payload  *MessagePart
}

// MessagePart is one node of a message body tree. Data holds the
// transfer-decoded bytes; charset decoding is left to the consumer.
type MessagePart struct {
	MimeType string
	Filename string
	Headers  map[string]string
	Data     []byte
	Parts    []*MessagePart
}

// Header returns a part header, case-insensitively
func (p *MessagePart) Header(name string) string {
	if p == nil {
		return ""
	}
	for k, v := range p.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Charset returns the charset parameter of the part's Content-Type
func (p *MessagePart) Charset() string {
	ct := p.Header("Content-Type")
	if ct == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return params["charset"]
}

// MailLabel is a label object in the mail service
type MailLabel struct {
	ID   string
	Name string
}

// DraftRequest describes a reply draft to create
type DraftRequest struct {
	To       string
	Subject  string
	Body     string
	ThreadID string
}

// LabelOutcome is one message's entry in a labeling report
type LabelOutcome struct {
	MessageID  string `json:"message_id"`
	Domain     string `json:"domain"`
	Category   string `json:"category"`
	Confidence int    `json:"confidence"`
	Reason     string `json:"reason"`
	Applied    bool   `json:"applied"`
	Error      string `json:"error,omitempty"`
}

// LabelReport summarizes a batch labeling run
type LabelReport struct {
	Processed int            `json:"processed"`
	Domains   int            `json:"domains"`
	Results   []LabelOutcome `json:"results"`
}

// DraftResult is the outcome of drafting a reply to one message
type DraftResult struct {
	MessageID string `json:"message_id,omitempty"`
	Eligible  bool   `json:"eligible"`
	Reason    string `json:"reason,omitempty"`
	DraftID   string `json:"draft_id,omitempty"`
	Preview   string `json:"reply_preview,omitempty"`
}

// DraftReport summarizes a draft-all run
type DraftReport struct {
	Processed int           `json:"processed"`
	Drafted   []DraftResult `json:"drafted"`
	Skipped   []DraftResult `json:"skipped"`
}
