package company

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite. Variants are kept
// as a JSON array since SQLite has no array type.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sdb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := sdb.Exec(pragma); err != nil {
			sdb.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sdb}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id                     TEXT PRIMARY KEY,
	name                   TEXT NOT NULL,
	name_variants          TEXT NOT NULL DEFAULT '[]',
	status                 TEXT NOT NULL DEFAULT 'pending',
	merged_into_id         TEXT REFERENCES companies(id),
	source                 TEXT NOT NULL DEFAULT 'manual',
	code                   TEXT NOT NULL DEFAULT '',
	contact_email          TEXT NOT NULL DEFAULT '',
	first_seen_document_id TEXT NOT NULL DEFAULT '',
	created_by_id          TEXT NOT NULL DEFAULT '',
	created_at             DATETIME NOT NULL,
	updated_at             DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_status ON companies(status);
`

// Migrate applies the companies schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteCompanyColumns = `id, name, name_variants, status, merged_into_id, source, code, contact_email, first_seen_document_id, created_by_id, created_at, updated_at`

// CreateCompany inserts a new company, assigning an ID if absent.
func (s *SQLiteStore) CreateCompany(ctx context.Context, c *Company) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	if c.NameVariants == nil {
		c.NameVariants = []string{}
	}

	variantsJSON, err := json.Marshal(c.NameVariants)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal variants")
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO companies (
			id, name, name_variants, status, source,
			code, contact_email, first_seen_document_id, created_by_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, string(variantsJSON), string(c.Status), string(c.Source),
		c.Code, c.ContactEmail, c.FirstSeenDocumentID, c.CreatedByID,
		now, now,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: create company")
	}
	return nil
}

// UpdateCompany writes the mutable fields of an existing record.
func (s *SQLiteStore) UpdateCompany(ctx context.Context, c *Company) error {
	variantsJSON, err := json.Marshal(c.NameVariants)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal variants")
	}

	c.UpdatedAt = time.Now().UTC()

	var mergedInto any
	if c.MergedIntoID != "" {
		mergedInto = c.MergedIntoID
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE companies SET
			name = ?, name_variants = ?, status = ?, merged_into_id = ?,
			code = ?, contact_email = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, string(variantsJSON), string(c.Status), mergedInto,
		c.Code, c.ContactEmail, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update company %s", c.ID)
	}
	return checkRowsAffected(res, c.ID)
}

// GetCompany fetches a company by ID. Returns (nil, nil) when absent.
func (s *SQLiteStore) GetCompany(ctx context.Context, id string) (*Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteCompanyColumns+` FROM companies WHERE id = ?`, id)

	c, err := scanSQLiteCompany(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get company %s", id)
	}
	return c, nil
}

// ListActiveCompanies returns every non-merged company in creation order.
func (s *SQLiteStore) ListActiveCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteCompanyColumns+` FROM companies WHERE status <> ? ORDER BY created_at, id`,
		string(StatusMerged),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list active")
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c, err := scanSQLiteCompany(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan company")
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: list active")
	}
	return companies, nil
}

// MergeCompanies atomically replaces the primary's variants and flips each
// secondary to merged.
func (s *SQLiteStore) MergeCompanies(ctx context.Context, primaryID string, variants []string, secondaryIDs []string) error {
	variantsJSON, err := json.Marshal(variants)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal variants")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: merge: begin")
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	now := time.Now().UTC()

	res, err := tx.ExecContext(ctx, `
		UPDATE companies SET name_variants = ?, updated_at = ?
		WHERE id = ? AND status <> ?`,
		string(variantsJSON), now, primaryID, string(StatusMerged),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: merge: update primary %s", primaryID)
	}
	if err := checkRowsAffected(res, primaryID); err != nil {
		return err
	}

	for _, id := range secondaryIDs {
		res, err := tx.ExecContext(ctx, `
			UPDATE companies SET status = ?, merged_into_id = ?, updated_at = ?
			WHERE id = ? AND status <> ?`,
			string(StatusMerged), primaryID, now, id, string(StatusMerged),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: merge: update secondary %s", id)
		}
		if err := checkRowsAffected(res, id); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: merge: commit")
	}
	return nil
}

// scanSQLiteCompany reads one row in sqliteCompanyColumns order.
func scanSQLiteCompany(scan func(dest ...any) error) (*Company, error) {
	c := &Company{}
	var variantsJSON string
	var mergedInto sql.NullString

	err := scan(
		&c.ID, &c.Name, &variantsJSON, &c.Status, &mergedInto,
		&c.Source, &c.Code, &c.ContactEmail, &c.FirstSeenDocumentID,
		&c.CreatedByID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(variantsJSON), &c.NameVariants); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal variants")
	}
	if mergedInto.Valid {
		c.MergedIntoID = mergedInto.String
	}
	return c, nil
}

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: company %s not found or merged", id)
	}
	return nil
}
