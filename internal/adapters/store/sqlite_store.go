package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/inbox-labeler/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of core.LabelStore
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens the database at dbPath and creates the table if needed
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS domain_labels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			domain TEXT UNIQUE NOT NULL,
			label TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// Put inserts or replaces the record for a domain
func (s *SQLiteStore) Put(ctx context.Context, domain, label string, source core.LabelSource) error {
	domain, label, err := normalize(domain, label)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO domain_labels (domain, label, source, created_at)
		VALUES (?, ?, ?, ?)
	`, domain, label, string(source), now().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save domain label: %w", err)
	}

	s.logger.Debug("Stored domain label", zap.String("domain", domain), zap.String("label", label))
	return nil
}

// Get returns the label for a domain
func (s *SQLiteStore) Get(ctx context.Context, domain string) (string, error) {
	var label string
	err := s.db.QueryRowContext(ctx, `
		SELECT label FROM domain_labels WHERE domain = ?
	`, core.NormalizeDomain(domain)).Scan(&label)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", core.ErrNotFound
		}
		return "", fmt.Errorf("failed to query domain label: %w", err)
	}
	return label, nil
}

// List returns all records
func (s *SQLiteStore) List(ctx context.Context) ([]core.DomainLabelRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, label, source, created_at FROM domain_labels
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list domain labels: %w", err)
	}
	defer rows.Close()

	var records []core.DomainLabelRecord
	for rows.Next() {
		var rec core.DomainLabelRecord
		var source, createdAt string
		if err := rows.Scan(&rec.Domain, &rec.Label, &source, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan domain label: %w", err)
		}
		rec.Source = core.LabelSource(source)
		if rec.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			s.logger.Warn("Failed to parse created_at", zap.String("domain", rec.Domain), zap.Error(err))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate domain labels: %w", err)
	}
	return records, nil
}

// Delete removes the record for a domain
func (s *SQLiteStore) Delete(ctx context.Context, domain string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM domain_labels WHERE domain = ?
	`, core.NormalizeDomain(domain))
	if err != nil {
		return fmt.Errorf("failed to delete domain label: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
