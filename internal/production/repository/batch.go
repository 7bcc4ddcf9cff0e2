package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/craftline/craftline-backend/pkg/database"
)

// Batch statuses
const (
	BatchPlanned    = "planned"
	BatchInProgress = "in_progress"
	BatchCompleted  = "completed"
	BatchFailed     = "failed"
	BatchOnHold     = "on_hold"
)

// Batch is a production run of a recipe.
type Batch struct {
	ID          int        `db:"id" json:"id"`
	BatchNumber string     `db:"batch_number" json:"batch_number"`
	RecipeID    *int       `db:"recipe_id" json:"recipe_id,omitempty"`
	ProductID   *int       `db:"product_id" json:"product_id,omitempty"`
	Quantity    float64    `db:"quantity" json:"quantity"`
	Unit        string     `db:"unit" json:"unit"`
	Status      string     `db:"status" json:"status"`
	StartDate   *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	Location    *string    `db:"location" json:"location,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// BatchPatch is a partial update; only non-nil fields are applied.
type BatchPatch struct {
	BatchNumber *string    `json:"batch_number,omitempty"`
	RecipeID    *int       `json:"recipe_id,omitempty"`
	ProductID   *int       `json:"product_id,omitempty"`
	Quantity    *float64   `json:"quantity,omitempty"`
	Unit        *string    `json:"unit,omitempty"`
	Status      *string    `json:"status,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Location    *string    `json:"location,omitempty"`
}

func (p *BatchPatch) record() goqu.Record {
	rec := goqu.Record{}
	if p.BatchNumber != nil {
		rec["batch_number"] = *p.BatchNumber
	}
	if p.RecipeID != nil {
		rec["recipe_id"] = *p.RecipeID
	}
	if p.ProductID != nil {
		rec["product_id"] = *p.ProductID
	}
	if p.Quantity != nil {
		rec["quantity"] = *p.Quantity
	}
	if p.Unit != nil {
		rec["unit"] = *p.Unit
	}
	if p.Status != nil {
		rec["status"] = *p.Status
	}
	if p.StartDate != nil {
		rec["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		rec["end_date"] = *p.EndDate
	}
	if p.Location != nil {
		rec["location"] = *p.Location
	}
	return rec
}

const batchColumns = `id, batch_number, recipe_id, product_id, quantity, unit, status, start_date, end_date, location, created_at, updated_at`

// BatchRepository handles production batch persistence
type BatchRepository struct {
	db *database.DB
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *database.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// List returns all batches, newest first.
func (r *BatchRepository) List(ctx context.Context) ([]*Batch, error) {
	if !r.db.Available() {
		return []*Batch{}, nil
	}

	batches := []*Batch{}
	query := `SELECT ` + batchColumns + ` FROM batches ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, err
	}
	return batches, nil
}

// GetByID returns the batch or nil when absent.
func (r *BatchRepository) GetByID(ctx context.Context, id int) (*Batch, error) {
	if !r.db.Available() {
		return nil, nil
	}

	var batch Batch
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	err := r.db.GetContext(ctx, &batch, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// Create persists a new batch and fills in server-assigned fields.
func (r *BatchRepository) Create(ctx context.Context, b *Batch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	if b.Status == "" {
		b.Status = BatchPlanned
	}

	query := `
		INSERT INTO batches (batch_number, recipe_id, product_id, quantity, unit, status, start_date, end_date, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		b.BatchNumber,
		b.RecipeID,
		b.ProductID,
		b.Quantity,
		b.Unit,
		b.Status,
		b.StartDate,
		b.EndDate,
		b.Location,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}

// Update applies a partial patch. Updating a missing id is not an error.
func (r *BatchRepository) Update(ctx context.Context, id int, patch *BatchPatch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	rec := patch.record()
	rec["updated_at"] = goqu.L("NOW()")

	query, args, err := dialect.Update("batches").
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

// Delete removes the batch. Deleting a missing id is not an error.
func (r *BatchRepository) Delete(ctx context.Context, id int) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id)
	return err
}
