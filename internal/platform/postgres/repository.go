package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"company-directory/internal/core"
)

// Repository is a read-only record source over the companies table.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the companies table if it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS companies (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			location TEXT,
			industry TEXT
		)`

	_, err := r.db.ExecContext(ctx, query)
	return err
}

func (r *Repository) List(ctx context.Context) ([]core.Company, error) {
	query := `
		SELECT id, name, location, industry
		FROM companies ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	companies := make([]core.Company, 0)
	for rows.Next() {
		var (
			c        core.Company
			location sql.NullString
			industry sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &location, &industry); err != nil {
			return nil, err
		}
		if location.Valid {
			c.Location = &location.String
		}
		if industry.Valid {
			c.Industry = &industry.String
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", core.ErrSourceUnavailable, err)
	}
	return nil
}
