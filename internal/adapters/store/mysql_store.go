package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/inbox-labeler/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of core.LabelStore
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore connects to MySQL and creates the table if needed
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS domain_labels (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			domain VARCHAR(255) NOT NULL UNIQUE,
			label VARCHAR(255) NOT NULL,
			source VARCHAR(16) NOT NULL,
			created_at DATETIME(6) NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:     db,
		logger: logger,
	}, nil
}

// Put inserts or replaces the record for a domain
func (s *MySQLStore) Put(ctx context.Context, domain, label string, source core.LabelSource) error {
	domain, label, err := normalize(domain, label)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO domain_labels (domain, label, source, created_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			label = VALUES(label),
			source = VALUES(source),
			created_at = VALUES(created_at)
	`, domain, label, string(source), now().Format("2006-01-02 15:04:05.999999"))
	if err != nil {
		return fmt.Errorf("failed to save domain label: %w", err)
	}

	s.logger.Debug("Stored domain label", zap.String("domain", domain), zap.String("label", label))
	return nil
}

// Get returns the label for a domain
func (s *MySQLStore) Get(ctx context.Context, domain string) (string, error) {
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
func (s *MySQLStore) List(ctx context.Context) ([]core.DomainLabelRecord, error) {
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
func (s *MySQLStore) Delete(ctx context.Context, domain string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM domain_labels WHERE domain = ?
	`, core.NormalizeDomain(domain))
	if err != nil {
		return fmt.Errorf("failed to delete domain label: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
