package repository

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/craftline/craftline-backend/pkg/database"
)

// RecipeIngredient is a line of a recipe's bill of materials. RecipeID
// and MaterialID are weak references.
type RecipeIngredient struct {
	ID         int       `db:"id" json:"id"`
	RecipeID   int       `db:"recipe_id" json:"recipe_id"`
	MaterialID int       `db:"material_id" json:"material_id"`
	Quantity   float64   `db:"quantity" json:"quantity"`
	Unit       string    `db:"unit" json:"unit"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// IngredientPatch is a partial update; only non-nil fields are applied.
type IngredientPatch struct {
	MaterialID *int     `json:"material_id,omitempty"`
	Quantity   *float64 `json:"quantity,omitempty"`
	Unit       *string  `json:"unit,omitempty"`
}

func (p *IngredientPatch) record() goqu.Record {
	rec := goqu.Record{}
	if p.MaterialID != nil {
		rec["material_id"] = *p.MaterialID
	}
	if p.Quantity != nil {
		rec["quantity"] = *p.Quantity
	}
	if p.Unit != nil {
		rec["unit"] = *p.Unit
	}
	return rec
}

const ingredientColumns = `id, recipe_id, material_id, quantity, unit, created_at, updated_at`

// IngredientRepository handles recipe ingredient persistence
type IngredientRepository struct {
	db *database.DB
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *database.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// ListByRecipe returns a recipe's ingredient lines, newest first.
func (r *IngredientRepository) ListByRecipe(ctx context.Context, recipeID int) ([]*RecipeIngredient, error) {
	if !r.db.Available() {
		return []*RecipeIngredient{}, nil
	}

	ingredients := []*RecipeIngredient{}
	query := `SELECT ` + ingredientColumns + ` FROM recipe_ingredients WHERE recipe_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &ingredients, query, recipeID); err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Create persists a new ingredient line.
func (r *IngredientRepository) Create(ctx context.Context, ing *RecipeIngredient) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	query := `
		INSERT INTO recipe_ingredients (recipe_id, material_id, quantity, unit)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		ing.RecipeID,
		ing.MaterialID,
		ing.Quantity,
		ing.Unit,
	).Scan(&ing.ID, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}

// Update applies a partial patch. Updating a missing id is not an error.
func (r *IngredientRepository) Update(ctx context.Context, id int, patch *IngredientPatch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	rec := patch.record()
	rec["updated_at"] = goqu.L("NOW()")

	query, args, err := dialect.Update("recipe_ingredients").
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

// Delete removes the ingredient line. Deleting a missing id is not an error.
func (r *IngredientRepository) Delete(ctx context.Context, id int) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE id = $1`, id)
	return err
}
