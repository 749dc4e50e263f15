package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.reply == nil {
		return "", errors.New("no reply configured")
	}
	return g.reply(prompt)
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type fakeStore struct {
	labels map[string]string
	getErr error
}

func newFakeStore(pairs ...string) *fakeStore {
	s := &fakeStore{labels: map[string]string{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		s.labels[pairs[i]] = pairs[i+1]
	}
	return s
}

func (s *fakeStore) Put(_ context.Context, domain, label string, _ LabelSource) error {
	s.labels[NormalizeDomain(domain)] = label
	return nil
}

func (s *fakeStore) Get(_ context.Context, domain string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	label, ok := s.labels[NormalizeDomain(domain)]
	if !ok {
		return "", ErrNotFound
	}
	return label, nil
}

func (s *fakeStore) List(context.Context) ([]DomainLabelRecord, error) {
	var out []DomainLabelRecord
	for d, l := range s.labels {
		out = append(out, DomainLabelRecord{Domain: d, Label: l})
	}
	return out, nil
}

func (s *fakeStore) Delete(_ context.Context, domain string) error {
	delete(s.labels, NormalizeDomain(domain))
	return nil
}

func (s *fakeStore) Close() error { return nil }

type fakeMail struct {
	ids      []string
	messages map[string]*Message
	labels   []MailLabel
	getErr   map[string]error
	addErr   error

	created []string
	applied map[string]string
	drafts  []*DraftRequest
}

func newFakeMail() *fakeMail {
	return &fakeMail{
		messages: map[string]*Message{},
		getErr:   map[string]error{},
		applied:  map[string]string{},
	}
}

func (m *fakeMail) add(msg *Message) {
	m.ids = append(m.ids, msg.ID)
	m.messages[msg.ID] = msg
}

func (m *fakeMail) ListRecentMessageIDs(_ context.Context, max int) ([]string, error) {
	if max < len(m.ids) {
		return m.ids[:max], nil
	}
	return m.ids, nil
}

func (m *fakeMail) GetMessageMetadata(ctx context.Context, id string) (*Message, error) {
	return m.GetMessage(ctx, id)
}

func (m *fakeMail) GetMessage(_ context.Context, id string) (*Message, error) {
	if err := m.getErr[id]; err != nil {
		return nil, err
	}
	msg, ok := m.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %s not found", id)
	}
	return msg, nil
}

func (m *fakeMail) ListLabels(context.Context) ([]MailLabel, error) {
	return m.labels, nil
}

func (m *fakeMail) CreateLabel(_ context.Context, name string) (*MailLabel, error) {
	lbl := MailLabel{ID: "Label_" + strings.ToLower(name), Name: name}
	m.labels = append(m.labels, lbl)
	m.created = append(m.created, name)
	return &lbl, nil
}

func (m *fakeMail) AddLabel(_ context.Context, messageID, labelID string) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.applied[messageID] = labelID
	return nil
}

func (m *fakeMail) CreateDraft(_ context.Context, req *DraftRequest) (string, error) {
	m.drafts = append(m.drafts, req)
	return fmt.Sprintf("draft-%d", len(m.drafts)), nil
}
