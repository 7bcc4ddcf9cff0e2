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

// Recipe statuses
const (
	RecipeDraft    = "draft"
	RecipeActive   = "active"
	RecipeArchived = "archived"
)

// Recipe is a bill of materials for producing a product. ProductID is
// a weak reference to a finished-product material.
type Recipe struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Code          string    `db:"code" json:"code"`
	ProductID     *int      `db:"product_id" json:"product_id,omitempty"`
	Version       string    `db:"version" json:"version"`
	YieldQuantity float64   `db:"yield_quantity" json:"yield_quantity"`
	YieldUnit     string    `db:"yield_unit" json:"yield_unit"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// RecipePatch is a partial update; only non-nil fields are applied.
type RecipePatch struct {
	Name          *string  `json:"name,omitempty"`
	Code          *string  `json:"code,omitempty"`
	ProductID     *int     `json:"product_id,omitempty"`
	Version       *string  `json:"version,omitempty"`
	YieldQuantity *float64 `json:"yield_quantity,omitempty"`
	YieldUnit     *string  `json:"yield_unit,omitempty"`
	Status        *string  `json:"status,omitempty"`
}

func (p *RecipePatch) record() goqu.Record {
	rec := goqu.Record{}
	if p.Name != nil {
		rec["name"] = *p.Name
	}
	if p.Code != nil {
		rec["code"] = *p.Code
	}
	if p.ProductID != nil {
		rec["product_id"] = *p.ProductID
	}
	if p.Version != nil {
		rec["version"] = *p.Version
	}
	if p.YieldQuantity != nil {
		rec["yield_quantity"] = *p.YieldQuantity
	}
	if p.YieldUnit != nil {
		rec["yield_unit"] = *p.YieldUnit
	}
	if p.Status != nil {
		rec["status"] = *p.Status
	}
	return rec
}

const recipeColumns = `id, name, code, product_id, version, yield_quantity, yield_unit, status, created_at, updated_at`

// RecipeRepository handles recipe persistence
type RecipeRepository struct {
	db *database.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *database.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// List returns all recipes, newest first.
func (r *RecipeRepository) List(ctx context.Context) ([]*Recipe, error) {
	if !r.db.Available() {
		return []*Recipe{}, nil
	}

	recipes := []*Recipe{}
	query := `SELECT ` + recipeColumns + ` FROM recipes ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &recipes, query); err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetByID returns the recipe or nil when absent.
func (r *RecipeRepository) GetByID(ctx context.Context, id int) (*Recipe, error) {
	if !r.db.Available() {
		return nil, nil
	}

	var recipe Recipe
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`
	err := r.db.GetContext(ctx, &recipe, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Create persists a new recipe and fills in server-assigned fields.
func (r *RecipeRepository) Create(ctx context.Context, rec *Recipe) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	if rec.Version == "" {
		rec.Version = "1.0"
	}
	if rec.Status == "" {
		rec.Status = RecipeDraft
	}

	query := `
		INSERT INTO recipes (name, code, product_id, version, yield_quantity, yield_unit, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		rec.Name,
		rec.Code,
		rec.ProductID,
		rec.Version,
		rec.YieldQuantity,
		rec.YieldUnit,
		rec.Status,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}

// Update applies a partial patch. Updating a missing id is not an error.
func (r *RecipeRepository) Update(ctx context.Context, id int, patch *RecipePatch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	rec := patch.record()
	rec["updated_at"] = goqu.L("NOW()")

	query, args, err := dialect.Update("recipes").
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

// Delete removes the recipe. Deleting a missing id is not an error.
func (r *RecipeRepository) Delete(ctx context.Context, id int) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	return err
}
