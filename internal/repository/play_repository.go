package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/theater-billing/internal/model"
)

// PlayRecord is a row of the plays table.
type PlayRecord struct {
	ID   string // plays.id, the play identifier referenced by performances
	Name string // plays.name
	Type string // plays.type, raw genre tag
}

// Play converts the row into a catalog entry with its genre resolved.
func (r PlayRecord) Play() model.Play {
	return model.NewPlay(r.Name, r.Type)
}

const createPlaysTable = `CREATE TABLE IF NOT EXISTS plays (
	id   VARCHAR(64)  NOT NULL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	type VARCHAR(32)  NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// PlayRepo manages persistence for the play catalog.
type PlayRepo struct {
	db *sql.DB
}

// NewPlayRepo constructs a PlayRepo with the given DB handle.
func NewPlayRepo(db *sql.DB) *PlayRepo {
	return &PlayRepo{db: db}
}

// EnsureSchema creates the plays table when it does not exist yet.
func (r *PlayRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPlaysTable); err != nil {
		return fmt.Errorf("create plays table: %w", err)
	}
	return nil
}

// List returns every stored play ordered by id.
func (r *PlayRepo) List(ctx context.Context) ([]PlayRecord, error) {
	const q = `SELECT id, name, type FROM plays ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PlayRecord
	for rows.Next() {
		var p PlayRecord
		if err := rows.Scan(&p.ID, &p.Name, &p.Type); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Catalog loads the whole plays table as a catalog.  Genres are resolved
// here, once per load.
func (r *PlayRepo) Catalog(ctx context.Context) (model.Catalog, error) {
	recs, err := r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	catalog := make(model.Catalog, len(recs))
	for _, rec := range recs {
		catalog[rec.ID] = rec.Play()
	}
	return catalog, nil
}

// GetByID retrieves a play by id.  It returns ErrPlayNotFound if there is
// no matching row.
func (r *PlayRepo) GetByID(ctx context.Context, id string) (*PlayRecord, error) {
	const q = `SELECT id, name, type FROM plays WHERE id = ?`
	var p PlayRecord
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Name, &p.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Upsert inserts the play or replaces the name and type of an existing one.
func (r *PlayRepo) Upsert(ctx context.Context, p PlayRecord) error {
	const q = `INSERT INTO plays (id, name, type) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE name = VALUES(name), type = VALUES(type)`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Name, p.Type)
	return err
}

// Delete removes a play.  It returns ErrPlayNotFound when nothing was
// deleted.
func (r *PlayRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plays WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPlayNotFound
	}
	return nil
}
