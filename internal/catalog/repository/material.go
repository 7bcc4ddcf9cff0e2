package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/craftline/craftline-backend/pkg/database"
)

// Material types
const (
	MaterialRaw       = "raw_material"
	MaterialFinished  = "finished_product"
	MaterialComponent = "component"
)

// Material statuses
const (
	MaterialActive       = "active"
	MaterialDiscontinued = "discontinued"
	MaterialOutOfStock   = "out_of_stock"
)

// Material represents a raw material, component or finished product.
// SupplierID is a weak reference; the application does not enforce it.
type Material struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	SKU          string    `db:"sku" json:"sku"`
	Type         string    `db:"type" json:"type"`
	Unit         string    `db:"unit" json:"unit"`
	UnitPrice    float64   `db:"unit_price" json:"unit_price"`
	ReorderLevel float64   `db:"reorder_level" json:"reorder_level"`
	CurrentStock float64   `db:"current_stock" json:"current_stock"`
	SupplierID   *int      `db:"supplier_id" json:"supplier_id,omitempty"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// MaterialPatch is a partial update; only non-nil fields are applied.
type MaterialPatch struct {
	Name         *string  `json:"name,omitempty"`
	SKU          *string  `json:"sku,omitempty"`
	Type         *string  `json:"type,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	UnitPrice    *float64 `json:"unit_price,omitempty"`
	ReorderLevel *float64 `json:"reorder_level,omitempty"`
	CurrentStock *float64 `json:"current_stock,omitempty"`
	SupplierID   *int     `json:"supplier_id,omitempty"`
	Status       *string  `json:"status,omitempty"`
}

func (p *MaterialPatch) record() goqu.Record {
	rec := goqu.Record{}
	if p.Name != nil {
		rec["name"] = *p.Name
	}
	if p.SKU != nil {
		rec["sku"] = *p.SKU
	}
	if p.Type != nil {
		rec["type"] = *p.Type
	}
	if p.Unit != nil {
		rec["unit"] = *p.Unit
	}
	if p.UnitPrice != nil {
		rec["unit_price"] = *p.UnitPrice
	}
	if p.ReorderLevel != nil {
		rec["reorder_level"] = *p.ReorderLevel
	}
	if p.CurrentStock != nil {
		rec["current_stock"] = *p.CurrentStock
	}
	if p.SupplierID != nil {
		rec["supplier_id"] = *p.SupplierID
	}
	if p.Status != nil {
		rec["status"] = *p.Status
	}
	return rec
}

const materialColumns = `id, name, sku, type, unit, unit_price, reorder_level, current_stock, supplier_id, status, created_at, updated_at`

// MaterialRepository handles material persistence
type MaterialRepository struct {
	db *database.DB
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db *database.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// List returns all materials, newest first.
func (r *MaterialRepository) List(ctx context.Context) ([]*Material, error) {
	if !r.db.Available() {
		return []*Material{}, nil
	}

	materials := []*Material{}
	query := `SELECT ` + materialColumns + ` FROM materials ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &materials, query); err != nil {
		return nil, err
	}
	return materials, nil
}

// GetByID returns the material or nil when absent.
func (r *MaterialRepository) GetByID(ctx context.Context, id int) (*Material, error) {
	if !r.db.Available() {
		return nil, nil
	}

	var material Material
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	err := r.db.GetContext(ctx, &material, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// Create persists a new material and fills in server-assigned fields.
func (r *MaterialRepository) Create(ctx context.Context, m *Material) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	if m.Status == "" {
		m.Status = MaterialActive
	}

	query := `
		INSERT INTO materials (name, sku, type, unit, unit_price, reorder_level, current_stock, supplier_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		m.Name,
		m.SKU,
		m.Type,
		m.Unit,
		m.UnitPrice,
		m.ReorderLevel,
		m.CurrentStock,
		m.SupplierID,
		m.Status,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}

// Update applies a partial patch. Updating a missing id is not an error.
func (r *MaterialRepository) Update(ctx context.Context, id int, patch *MaterialPatch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	rec := patch.record()
	rec["updated_at"] = goqu.L("NOW()")

	query, args, err := dialect.Update("materials").
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

// Delete removes the material. Deleting a missing id is not an error.
func (r *MaterialRepository) Delete(ctx context.Context, id int) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `DELETE FROM materials WHERE id = $1`, id)
	return err
}
