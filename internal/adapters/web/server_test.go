package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mikey/inbox-labeler/internal/adapters/store"
	"github.com/mikey/inbox-labeler/internal/auth"
	"github.com/mikey/inbox-labeler/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubMail struct {
	messages map[string]*core.Message
	order    []string
	drafts   []*core.DraftRequest
	applied  map[string]string
}

func newStubMail(msgs ...*core.Message) *stubMail {
	m := &stubMail{messages: map[string]*core.Message{}, applied: map[string]string{}}
	for _, msg := range msgs {
		m.messages[msg.ID] = msg
		m.order = append(m.order, msg.ID)
	}
	return m
}

func (m *stubMail) ListRecentMessageIDs(_ context.Context, max int) ([]string, error) {
	if max < len(m.order) {
		return m.order[:max], nil
	}
	return m.order, nil
}

func (m *stubMail) GetMessageMetadata(ctx context.Context, id string) (*core.Message, error) {
	return m.GetMessage(ctx, id)
}

func (m *stubMail) GetMessage(_ context.Context, id string) (*core.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %s: %w", id, core.ErrNotFound)
	}
	return msg, nil
}

func (m *stubMail) ListLabels(context.Context) ([]core.MailLabel, error) { return nil, nil }

func (m *stubMail) CreateLabel(_ context.Context, name string) (*core.MailLabel, error) {
	return &core.MailLabel{ID: "Label_" + name, Name: name}, nil
}

func (m *stubMail) AddLabel(_ context.Context, messageID, labelID string) error {
	m.applied[messageID] = labelID
	return nil
}

func (m *stubMail) CreateDraft(_ context.Context, req *core.DraftRequest) (string, error) {
	m.drafts = append(m.drafts, req)
	return fmt.Sprintf("draft-%d", len(m.drafts)), nil
}

type stubSessions struct {
	mail core.MailService
	err  error
}

func (s stubSessions) Open(context.Context) (core.MailService, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.mail, nil
}

type stubLogin struct {
	exchangeErr error
	exchanged   []string
}

func (l *stubLogin) AuthURL() (string, error) {
	return "https://accounts.example/auth?state=s1", nil
}

func (l *stubLogin) Exchange(_ context.Context, state, code string) error {
	l.exchanged = append(l.exchanged, state+":"+code)
	return l.exchangeErr
}

type replyGenerator string

func (g replyGenerator) Generate(context.Context, string) (string, error) { return string(g), nil }

type testServer struct {
	*Server
	labels core.LabelStore
	mail   *stubMail
}

func newTestServer(t *testing.T, sessions core.MailSessions, login LoginFlow, mail *stubMail) *testServer {
	t.Helper()
	logger := zap.NewNop()
	labels := store.NewMemoryStore(logger)

	svc := core.NewClassificationService(labels, nil, nil, logger, nil, nil)
	labeler := core.NewInboxLabeler(svc, nil, logger, 0, 0)
	drafter := core.NewReplyDrafter(replyGenerator("Sounds good"), passthrough{}, logger, core.DrafterOptions{}, nil)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	return &testServer{
		Server: NewServer(labels, labeler, drafter, sessions, login, metrics, logger, "127.0.0.1:0"),
		labels: labels,
		mail:   mail,
	}
}

type passthrough struct{}

func (passthrough) DecodeCharset(data []byte, _ string) string { return string(data) }
func (passthrough) HTMLToText(html string) string             { return html }
func (passthrough) ProcessText(text string, _ int) string     { return text }

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, stubSessions{}, nil, nil)

	rec := s.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = s.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics", rec.Body.String())
}

func TestDomainCRUD(t *testing.T) {
	s := newTestServer(t, stubSessions{}, nil, nil)

	rec := s.do(http.MethodGet, "/domains/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(http.MethodPost, "/domains/", `{"domain":"Shop.Example","label":"Shopping"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/domains/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []core.DomainLabelRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "shop.example", records[0].Domain)
	assert.Equal(t, "Shopping", records[0].Label)
	assert.Equal(t, core.SourceManual, records[0].Source)

	rec = s.do(http.MethodDelete, "/domains/shop.example", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err := s.labels.Get(context.Background(), "shop.example")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSaveDomainValidation(t *testing.T) {
	s := newTestServer(t, stubSessions{}, nil, nil)

	rec := s.do(http.MethodPost, "/domains/", `{"domain":"","label":"Work"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/domains/", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decodeError(t, rec))
}

func TestLabelEndpoint(t *testing.T) {
	mail := newStubMail(
		&core.Message{ID: "m1", From: "billing@vendor.example", Subject: "Your invoice"},
		&core.Message{ID: "m2", From: "friend@gmail.com", Subject: "Hi"},
	)
	s := newTestServer(t, stubSessions{mail: mail}, nil, mail)

	rec := s.do(http.MethodPost, "/label", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report core.LabelReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, core.CategoryFinance, report.Results[0].Category)
	assert.Equal(t, "Personal (skipped)", report.Results[1].Category)
	assert.Equal(t, map[string]string{"m1": "Label_Finance"}, mail.applied)
}

func TestReauthRequiredMapsTo401(t *testing.T) {
	s := newTestServer(t, stubSessions{err: fmt.Errorf("refresh failed: %w", core.ErrReauthRequired)}, nil, nil)

	for _, path := range []string{"/label", "/draft/m1", "/draft_all"} {
		rec := s.do(http.MethodPost, path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "login again", decodeError(t, rec), path)
	}
}

func TestDraftEndpoints(t *testing.T) {
	now := time.Now().UTC().Format(time.RFC1123Z)
	mail := newStubMail(
		&core.Message{ID: "m1", ThreadID: "t1", From: "ann@gmail.com", Subject: "Lunch", Date: now,
			Payload: &core.MessagePart{MimeType: "text/plain", Data: []byte("Lunch tomorrow?")}},
		&core.Message{ID: "m2", From: "shop@store.example", Subject: "Sale", Date: now,
			Payload: &core.MessagePart{MimeType: "text/plain", Data: []byte("Buy")}},
	)
	s := newTestServer(t, stubSessions{mail: mail}, nil, mail)

	rec := s.do(http.MethodPost, "/draft/m1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var result core.DraftResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Eligible)
	assert.Equal(t, "draft-1", result.DraftID)
	assert.Equal(t, "Sounds good", result.Preview)
	assert.Contains(t, rec.Body.String(), `"reply_preview"`)

	rec = s.do(http.MethodPost, "/draft/m2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Eligible)
	assert.Equal(t, core.ReasonSenderNotAllowed, result.Reason)

	rec = s.do(http.MethodPost, "/draft/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/draft_all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report core.DraftReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Processed)
	assert.Len(t, report.Drafted, 1)
	assert.Len(t, report.Skipped, 1)
}

func TestLoginFlowEndpoints(t *testing.T) {
	mail := newStubMail()
	login := &stubLogin{}
	s := newTestServer(t, stubSessions{mail: mail}, login, mail)

	rec := s.do(http.MethodGet, "/login", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://accounts.example/auth?state=s1", rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, "/oauth2callback?state=s1&code=c1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"s1:c1"}, login.exchanged)
	assert.Contains(t, rec.Body.String(), `"processed":0`)

	rec = s.do(http.MethodGet, "/oauth2callback?error=access_denied", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "access_denied", decodeError(t, rec))

	login.exchangeErr = auth.ErrStateMismatch
	rec = s.do(http.MethodGet, "/oauth2callback?state=forged&code=c1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginNotConfigured(t *testing.T) {
	s := newTestServer(t, stubSessions{}, nil, nil)

	rec := s.do(http.MethodGet, "/login", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnexpectedErrorsMapTo500(t *testing.T) {
	s := newTestServer(t, stubSessions{err: errors.New("dial tcp: timeout")}, nil, nil)

	rec := s.do(http.MethodPost, "/label", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t, stubSessions{}, nil, nil)
	require.NoError(t, s.Start())
	assert.NoError(t, s.Stop())
}
