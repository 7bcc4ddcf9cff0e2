package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/craftline/craftline-backend/pkg/database"
)

var dialect = goqu.Dialect("postgres")

// Role names a flag may require
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// FeatureFlag drives runtime gating of client features. Enabled is an
// integer bit (0/1), not a boolean, matching the stored column.
type FeatureFlag struct {
	ID           int       `db:"id" json:"id"`
	Key          string    `db:"key" json:"key"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Enabled      int       `db:"enabled" json:"enabled"`
	Category     *string   `db:"category" json:"category,omitempty"`
	RequiredRole string    `db:"required_role" json:"required_role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FlagPatch is a partial update; only non-nil fields are applied.
type FlagPatch struct {
	Key          *string `json:"key,omitempty"`
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Enabled      *int    `json:"enabled,omitempty"`
	Category     *string `json:"category,omitempty"`
	RequiredRole *string `json:"required_role,omitempty"`
}

func (p *FlagPatch) record() goqu.Record {
	rec := goqu.Record{}
	if p.Key != nil {
		rec["key"] = *p.Key
	}
	if p.Name != nil {
		rec["name"] = *p.Name
	}
	if p.Description != nil {
		rec["description"] = *p.Description
	}
	if p.Enabled != nil {
		rec["enabled"] = *p.Enabled
	}
	if p.Category != nil {
		rec["category"] = *p.Category
	}
	if p.RequiredRole != nil {
		rec["required_role"] = *p.RequiredRole
	}
	return rec
}

const flagColumns = `id, key, name, description, enabled, category, required_role, created_at, updated_at`

// FlagRepository handles feature flag persistence
type FlagRepository struct {
	db *database.DB
}

// NewFlagRepository creates a new flag repository
func NewFlagRepository(db *database.DB) *FlagRepository {
	return &FlagRepository{db: db}
}

// List returns all flags, newest first. Degrades to an empty list
// when no store handle exists.
func (r *FlagRepository) List(ctx context.Context) ([]*FeatureFlag, error) {
	if !r.db.Available() {
		return []*FeatureFlag{}, nil
	}

	flags := []*FeatureFlag{}
	query := `SELECT ` + flagColumns + ` FROM feature_flags ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &flags, query); err != nil {
		return nil, err
	}
	return flags, nil
}

// GetByID returns the flag or nil when absent.
func (r *FlagRepository) GetByID(ctx context.Context, id int) (*FeatureFlag, error) {
	if !r.db.Available() {
		return nil, nil
	}

	var flag FeatureFlag
	query := `SELECT ` + flagColumns + ` FROM feature_flags WHERE id = $1`
	err := r.db.GetContext(ctx, &flag, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &flag, nil
}

// GetByKey returns the flag or nil when absent.
func (r *FlagRepository) GetByKey(ctx context.Context, key string) (*FeatureFlag, error) {
	if !r.db.Available() {
		return nil, nil
	}

	var flag FeatureFlag
	query := `SELECT ` + flagColumns + ` FROM feature_flags WHERE key = $1`
	err := r.db.GetContext(ctx, &flag, query, key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &flag, nil
}

// Create persists a new flag and fills in server-assigned fields.
func (r *FlagRepository) Create(ctx context.Context, flag *FeatureFlag) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	if flag.RequiredRole == "" {
		flag.RequiredRole = RoleUser
	}

	query := `
		INSERT INTO feature_flags (key, name, description, enabled, category, required_role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		flag.Key,
		flag.Name,
		flag.Description,
		flag.Enabled,
		flag.Category,
		flag.RequiredRole,
	).Scan(&flag.ID, &flag.CreatedAt, &flag.UpdatedAt)
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}

// Update applies a partial patch. Updating a missing id is not an error.
func (r *FlagRepository) Update(ctx context.Context, id int, patch *FlagPatch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	rec := patch.record()
	rec["updated_at"] = goqu.L("NOW()")

	query, args, err := dialect.Update("feature_flags").
		Set(rec).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}

// Toggle flips the enabled bit. A missing id is a silent no-op: the
// returned flag is nil and no row is touched.
func (r *FlagRepository) Toggle(ctx context.Context, id int) (*FeatureFlag, error) {
	if err := r.db.RequireStore(); err != nil {
		return nil, err
	}

	flag, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if flag == nil {
		return nil, nil
	}

	next := 1 - flag.Enabled
	query := `UPDATE feature_flags SET enabled = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, next); err != nil {
		return nil, err
	}

	flag.Enabled = next
	return flag, nil
}

// Delete removes the flag. Deleting a missing id is not an error.
func (r *FlagRepository) Delete(ctx context.Context, id int) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `DELETE FROM feature_flags WHERE id = $1`, id)
	return err
}
