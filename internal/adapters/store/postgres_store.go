package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/mikey/inbox-labeler/internal/core"
	"go.uber.org/zap"
)

// PostgresStore is a PostgreSQL implementation of core.LabelStore
type PostgresStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// domainLabelRow represents the database row for domain labels
type domainLabelRow struct {
	Domain    string    `db:"domain"`
	Label     string    `db:"label"`
	Source    string    `db:"source"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *domainLabelRow) toRecord() core.DomainLabelRecord {
	return core.DomainLabelRecord{
		Domain:    r.Domain,
		Label:     r.Label,
		Source:    core.LabelSource(r.Source),
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// NewPostgresStore connects to PostgreSQL and creates the table if needed
func NewPostgresStore(dsn string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS domain_labels (
			id BIGSERIAL PRIMARY KEY,
			domain TEXT NOT NULL UNIQUE,
			label TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &PostgresStore{
		db:     db,
		logger: logger,
	}, nil
}

// Put inserts or replaces the record for a domain
func (s *PostgresStore) Put(ctx context.Context, domain, label string, source core.LabelSource) error {
	domain, label, err := normalize(domain, label)
	if err != nil {
		return err
	}

	row := domainLabelRow{
		Domain:    domain,
		Label:     label,
		Source:    string(source),
		CreatedAt: now(),
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO domain_labels (domain, label, source, created_at)
		VALUES (:domain, :label, :source, :created_at)
		ON CONFLICT (domain) DO UPDATE SET
			label = EXCLUDED.label,
			source = EXCLUDED.source,
			created_at = EXCLUDED.created_at
	`, row)
	if err != nil {
		return fmt.Errorf("failed to save domain label: %w", err)
	}

	s.logger.Debug("Stored domain label", zap.String("domain", domain), zap.String("label", label))
	return nil
}

// Get returns the label for a domain
func (s *PostgresStore) Get(ctx context.Context, domain string) (string, error) {
	var label string
	err := s.db.GetContext(ctx, &label, `
		SELECT label FROM domain_labels WHERE domain = $1
	`, core.NormalizeDomain(domain))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", core.ErrNotFound
		}
		return "", fmt.Errorf("failed to query domain label: %w", err)
	}
	return label, nil
}

// List returns all records
func (s *PostgresStore) List(ctx context.Context) ([]core.DomainLabelRecord, error) {
	var rows []domainLabelRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT domain, label, source, created_at FROM domain_labels
	`); err != nil {
		return nil, fmt.Errorf("failed to list domain labels: %w", err)
	}

	records := make([]core.DomainLabelRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].toRecord())
	}
	return records, nil
}

// Delete removes the record for a domain
func (s *PostgresStore) Delete(ctx context.Context, domain string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM domain_labels WHERE domain = $1
	`, core.NormalizeDomain(domain))
	if err != nil {
		return fmt.Errorf("failed to delete domain label: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
