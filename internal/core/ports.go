package core

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a LabelStore when a domain has no override
	ErrNotFound = errors.New("domain label not found")
	// ErrInvalidInput is returned for empty or malformed domain/label values
	ErrInvalidInput = errors.New("invalid input")
	// ErrReauthRequired signals that the mail session is missing or expired
	// beyond refresh, and the user must log in again
	ErrReauthRequired = errors.New("re-authentication required")
	// ErrEmptyResponse is returned by a TextGenerator that got no text back
	ErrEmptyResponse = errors.New("empty response from model")
)

// LabelStore persists domain overrides. Implementations lowercase the
// domain before every read and write.
type LabelStore interface {
	// Put inserts or replaces the record for domain, stamping the current UTC time
	Put(ctx context.Context, domain, label string, source LabelSource) error

	// Get returns the label for domain or ErrNotFound
	Get(ctx context.Context, domain string) (string, error)

	// List returns every record in unspecified order
	List(ctx context.Context) ([]DomainLabelRecord, error)

	// Delete removes the record for domain; deleting a missing domain is not an error
	Delete(ctx context.Context, domain string) error

	// Close releases the underlying resources
	Close() error
}

// TextGenerator is a generative text model
type TextGenerator interface {
	// Generate sends prompt to the model and returns its free-form text reply
	Generate(ctx context.Context, prompt string) (string, error)
}

// MailService is the mail provider collaborator
type MailService interface {
	ListRecentMessageIDs(ctx context.Context, max int) ([]string, error)

	// GetMessageMetadata fetches only the From, Subject and Date headers
	GetMessageMetadata(ctx context.Context, id string) (*Message, error)

	// GetMessage fetches the full message including the body tree
	GetMessage(ctx context.Context, id string) (*Message, error)

	ListLabels(ctx context.Context) ([]MailLabel, error)
	CreateLabel(ctx context.Context, name string) (*MailLabel, error)
	AddLabel(ctx context.Context, messageID, labelID string) error

	// CreateDraft creates a reply draft and returns its identifier
	CreateDraft(ctx context.Context, req *DraftRequest) (string, error)
}

// MailSessions opens an authenticated MailService, returning
// ErrReauthRequired when no usable credential exists
type MailSessions interface {
	Open(ctx context.Context) (MailService, error)
}

// Metrics receives pipeline events
type Metrics interface {
	ClassificationRecorded(tier Tier)
	EntertainmentBatchRecorded(outcome string)
	DraftRecorded(outcome string)
}

// NopMetrics discards all events
type NopMetrics struct{}

func (NopMetrics) ClassificationRecorded(Tier)       {}
func (NopMetrics) EntertainmentBatchRecorded(string) {}
func (NopMetrics) DraftRecorded(string)              {}
