package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/mikey/inbox-labeler/internal/core"
	"go.uber.org/zap"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const userID = "me"

// apiError tags Gmail API failures with the matching core error
func apiError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch gerr.Code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", core.ErrNotFound, err)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %v", core.ErrReauthRequired, err)
	default:
		return err
	}
}

// MailService implements core.MailService on the Gmail API
type MailService struct {
	users  *gmail.UsersService
	logger *zap.Logger
}

// NewMailService creates a Gmail-backed mail service using an authorized client
func NewMailService(ctx context.Context, client *http.Client, logger *zap.Logger, opts ...option.ClientOption) (*MailService, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &MailService{
		users:  svc.Users,
		logger: logger,
	}, nil
}

// ListRecentMessageIDs returns up to max message ids, newest first
func (s *MailService) ListRecentMessageIDs(ctx context.Context, max int) ([]string, error) {
	resp, err := s.users.Messages.List(userID).MaxResults(int64(max)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", apiError(err))
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// GetMessageMetadata fetches the From, Subject and Date headers
func (s *MailService) GetMessageMetadata(ctx context.Context, id string) (*core.Message, error) {
	msg, err := s.users.Messages.Get(userID, id).
		Format("metadata").
		MetadataHeaders("From", "Subject", "Date").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, apiError(err))
	}
	return toMessage(msg), nil
}

// GetMessage fetches the full message
func (s *MailService) GetMessage(ctx context.Context, id string) (*core.Message, error) {
	msg, err := s.users.Messages.Get(userID, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, apiError(err))
	}
	return toMessage(msg), nil
}

// ListLabels returns all labels of the mailbox
func (s *MailService) ListLabels(ctx context.Context) ([]core.MailLabel, error) {
	resp, err := s.users.Labels.List(userID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", apiError(err))
	}

	labels := make([]core.MailLabel, 0, len(resp.Labels))
	for _, l := range resp.Labels {
		labels = append(labels, core.MailLabel{ID: l.Id, Name: l.Name})
	}
	return labels, nil
}

// CreateLabel creates a visible user label
func (s *MailService) CreateLabel(ctx context.Context, name string) (*core.MailLabel, error) {
	created, err := s.users.Labels.Create(userID, &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create label %s: %w", name, apiError(err))
	}

	s.logger.Info("Created label", zap.String("name", name), zap.String("id", created.Id))
	return &core.MailLabel{ID: created.Id, Name: created.Name}, nil
}

// AddLabel attaches a label to a message
func (s *MailService) AddLabel(ctx context.Context, messageID, labelID string) error {
	_, err := s.users.Messages.Modify(userID, messageID, &gmail.ModifyMessageRequest{
		AddLabelIds: []string{labelID},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to label message %s: %w", messageID, apiError(err))
	}
	return nil
}

// CreateDraft creates a reply draft on the original thread
func (s *MailService) CreateDraft(ctx context.Context, req *core.DraftRequest) (string, error) {
	draft := &gmail.Draft{
		Message: &gmail.Message{
			Raw:      base64.URLEncoding.EncodeToString([]byte(buildDraftRaw(req))),
			ThreadId: req.ThreadID,
		},
	}

	created, err := s.users.Drafts.Create(userID, draft).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create draft: %w", apiError(err))
	}
	return created.Id, nil
}
