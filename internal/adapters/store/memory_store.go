package store

import (
	"context"
	"sync"

	"github.com/mikey/inbox-labeler/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of core.LabelStore
type MemoryStore struct {
	records map[string]core.DomainLabelRecord
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory label store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]core.DomainLabelRecord),
		logger:  logger,
	}
}

// Put inserts or replaces the record for a domain
func (s *MemoryStore) Put(_ context.Context, domain, label string, source core.LabelSource) error {
	domain, label, err := normalize(domain, label)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[domain] = core.DomainLabelRecord{
		Domain:    domain,
		Label:     label,
		Source:    source,
		CreatedAt: now(),
	}
	s.logger.Debug("Stored domain label", zap.String("domain", domain), zap.String("label", label))
	return nil
}

// Get returns the label for a domain
func (s *MemoryStore) Get(_ context.Context, domain string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[core.NormalizeDomain(domain)]
	if !ok {
		return "", core.ErrNotFound
	}
	return rec.Label, nil
}

// List returns all records
func (s *MemoryStore) List(_ context.Context) ([]core.DomainLabelRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.DomainLabelRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}

// Delete removes the record for a domain
func (s *MemoryStore) Delete(_ context.Context, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, core.NormalizeDomain(domain))
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
