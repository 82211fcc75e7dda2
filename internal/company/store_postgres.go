package company

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/resolve-cli/internal/db"
)

// PostgresStore implements Store using pgx.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgresStore creates a PostgresStore on the given pool.
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id                     TEXT PRIMARY KEY,
	name                   TEXT NOT NULL,
	name_variants          TEXT[] NOT NULL DEFAULT '{}',
	status                 TEXT NOT NULL DEFAULT 'pending',
	merged_into_id         TEXT REFERENCES companies(id),
	source                 TEXT NOT NULL DEFAULT 'manual',
	code                   TEXT NOT NULL DEFAULT '',
	contact_email          TEXT NOT NULL DEFAULT '',
	first_seen_document_id TEXT NOT NULL DEFAULT '',
	created_by_id          TEXT NOT NULL DEFAULT '',
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_companies_status ON companies(status);
`

// Migrate applies the companies schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "company: migrate")
	}
	return nil
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const companyColumns = `id, name, name_variants, status, merged_into_id, source, code, contact_email, first_seen_document_id, created_by_id, created_at, updated_at`

// CreateCompany inserts a new company. An ID is assigned if the record has
// none; IDs are never reused.
func (s *PostgresStore) CreateCompany(ctx context.Context, c *Company) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	if c.NameVariants == nil {
		c.NameVariants = []string{}
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO companies (
			id, name, name_variants, status, source,
			code, contact_email, first_seen_document_id, created_by_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.NameVariants, string(c.Status), string(c.Source),
		c.Code, c.ContactEmail, c.FirstSeenDocumentID, c.CreatedByID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return eris.Wrap(err, "company: create")
	}
	return nil
}

// UpdateCompany writes the mutable fields of an existing record.
func (s *PostgresStore) UpdateCompany(ctx context.Context, c *Company) error {
	c.UpdatedAt = time.Now().UTC()

	var mergedInto *string
	if c.MergedIntoID != "" {
		mergedInto = &c.MergedIntoID
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE companies SET
			name=$2, name_variants=$3, status=$4, merged_into_id=$5,
			code=$6, contact_email=$7, updated_at=now()
		WHERE id=$1`,
		c.ID, c.Name, c.NameVariants, string(c.Status), mergedInto,
		c.Code, c.ContactEmail,
	)
	if err != nil {
		return eris.Wrapf(err, "company: update %s", c.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("company: update %s: not found", c.ID)
	}
	return nil
}

// GetCompany fetches a company by ID. Returns (nil, nil) when absent.
func (s *PostgresStore) GetCompany(ctx context.Context, id string) (*Company, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id=$1`, id)
	c, err := scanCompany(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "company: get %s", id)
	}
	return c, nil
}

// ListActiveCompanies returns every non-merged company in creation order.
func (s *PostgresStore) ListActiveCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE status <> $1 ORDER BY created_at, id`,
		string(StatusMerged),
	)
	if err != nil {
		return nil, eris.Wrap(err, "company: list active")
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, eris.Wrap(err, "company: scan")
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "company: list active")
	}
	return companies, nil
}

// MergeCompanies atomically replaces the primary's variants and flips each
// secondary to merged. Any failure rolls back the whole transaction.
func (s *PostgresStore) MergeCompanies(ctx context.Context, primaryID string, variants []string, secondaryIDs []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "company: merge: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	tag, err := tx.Exec(ctx, `
		UPDATE companies SET name_variants=$2, updated_at=now()
		WHERE id=$1 AND status <> $3`,
		primaryID, variants, string(StatusMerged),
	)
	if err != nil {
		return eris.Wrapf(err, "company: merge: update primary %s", primaryID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("company: merge: primary %s not found or merged", primaryID)
	}

	for _, id := range secondaryIDs {
		tag, err := tx.Exec(ctx, `
			UPDATE companies SET status=$3, merged_into_id=$2, updated_at=now()
			WHERE id=$1 AND status <> $3`,
			id, primaryID, string(StatusMerged),
		)
		if err != nil {
			return eris.Wrapf(err, "company: merge: update secondary %s", id)
		}
		if tag.RowsAffected() == 0 {
			return eris.Errorf("company: merge: secondary %s not found or merged", id)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "company: merge: commit")
	}
	return nil
}

// scanCompany reads one row in companyColumns order.
func scanCompany(row pgx.Row) (*Company, error) {
	c := &Company{}
	var mergedInto *string

	err := row.Scan(
		&c.ID, &c.Name, &c.NameVariants, &c.Status, &mergedInto,
		&c.Source, &c.Code, &c.ContactEmail, &c.FirstSeenDocumentID,
		&c.CreatedByID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if mergedInto != nil {
		c.MergedIntoID = *mergedInto
	}
	return c, nil
}
