package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/craftline/craftline-backend/pkg/database"
)

// Warehouse location types, from whole buildings down to bins.
const (
	LocationWarehouse = "warehouse"
	LocationZone      = "zone"
	LocationAisle     = "aisle"
	LocationRack      = "rack"
	LocationBin       = "bin"
)

// Warehouse location statuses.
const (
	LocationActive      = "active"
	LocationInactive    = "inactive"
	LocationMaintenance = "maintenance"
)

// WarehouseLocation is a node in the storage hierarchy. ParentID links
// it to its enclosing location; warehouses have none.
type WarehouseLocation struct {
	ID           int       `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Name         string    `db:"name" json:"name"`
	LocationType string    `db:"location_type" json:"location_type"`
	ParentID     *int      `db:"parent_id" json:"parent_id,omitempty"`
	Capacity     *float64  `db:"capacity" json:"capacity,omitempty"`
	Utilization  float64   `db:"current_utilization" json:"current_utilization"`
	Status       string    `db:"status" json:"status"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// WarehouseLocationPatch is a partial update; only non-nil fields are applied.
type WarehouseLocationPatch struct {
	Code         *string  `json:"code,omitempty"`
	Name         *string  `json:"name,omitempty"`
	LocationType *string  `json:"location_type,omitempty"`
	ParentID     *int     `json:"parent_id,omitempty"`
	Capacity     *float64 `json:"capacity,omitempty"`
	Utilization  *float64 `json:"current_utilization,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

func (p *WarehouseLocationPatch) record() goqu.Record {
	rec := goqu.Record{}
	if p.Code != nil {
		rec["code"] = *p.Code
	}
	if p.Name != nil {
		rec["name"] = *p.Name
	}
	if p.LocationType != nil {
		rec["location_type"] = *p.LocationType
	}
	if p.ParentID != nil {
		rec["parent_id"] = *p.ParentID
	}
	if p.Capacity != nil {
		rec["capacity"] = *p.Capacity
	}
	if p.Utilization != nil {
		rec["current_utilization"] = *p.Utilization
	}
	if p.Status != nil {
		rec["status"] = *p.Status
	}
	if p.Notes != nil {
		rec["notes"] = *p.Notes
	}
	return rec
}

const locationColumns = `id, code, name, location_type, parent_id, capacity, current_utilization, status, notes, created_at, updated_at`

// LocationRepository handles warehouse location persistence
type LocationRepository struct {
	db *database.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *database.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// List returns all locations, newest first.
func (r *LocationRepository) List(ctx context.Context) ([]*WarehouseLocation, error) {
	if !r.db.Available() {
		return []*WarehouseLocation{}, nil
	}

	locations := []*WarehouseLocation{}
	query := `SELECT ` + locationColumns + ` FROM warehouse_locations ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, err
	}
	return locations, nil
}

// GetByID returns the location or nil when absent.
func (r *LocationRepository) GetByID(ctx context.Context, id int) (*WarehouseLocation, error) {
	if !r.db.Available() {
		return nil, nil
	}

	var loc WarehouseLocation
	query := `SELECT ` + locationColumns + ` FROM warehouse_locations WHERE id = $1`
	err := r.db.GetContext(ctx, &loc, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Create persists a new location.
func (r *LocationRepository) Create(ctx context.Context, loc *WarehouseLocation) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	if loc.Status == "" {
		loc.Status = LocationActive
	}

	query := `
		INSERT INTO warehouse_locations (code, name, location_type, parent_id, capacity, current_utilization, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		loc.Code,
		loc.Name,
		loc.LocationType,
		loc.ParentID,
		loc.Capacity,
		loc.Utilization,
		loc.Status,
		loc.Notes,
	).Scan(&loc.ID, &loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}

// Update applies a partial patch. Updating a missing id is not an error.
func (r *LocationRepository) Update(ctx context.Context, id int, patch *WarehouseLocationPatch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	rec := patch.record()
	rec["updated_at"] = goqu.L("NOW()")

	query, args, err := dialect.Update("warehouse_locations").
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
