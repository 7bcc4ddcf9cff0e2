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

// Supplier statuses
const (
	SupplierActive    = "active"
	SupplierInactive  = "inactive"
	SupplierSuspended = "suspended"
)

// Supplier represents a material supplier
type Supplier struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Code         string    `db:"code" json:"code"`
	ContactName  *string   `db:"contact_name" json:"contact_name,omitempty"`
	ContactEmail *string   `db:"contact_email" json:"contact_email,omitempty"`
	ContactPhone *string   `db:"contact_phone" json:"contact_phone,omitempty"`
	Address      *string   `db:"address" json:"address,omitempty"`
	Status       string    `db:"status" json:"status"`
	Rating       int       `db:"rating" json:"rating"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SupplierPatch is a partial update; only non-nil fields are applied.
type SupplierPatch struct {
	Name         *string `json:"name,omitempty"`
	Code         *string `json:"code,omitempty"`
	ContactName  *string `json:"contact_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	Status       *string `json:"status,omitempty"`
	Rating       *int    `json:"rating,omitempty"`
}

func (p *SupplierPatch) record() goqu.Record {
	rec := goqu.Record{}
	if p.Name != nil {
		rec["name"] = *p.Name
	}
	if p.Code != nil {
		rec["code"] = *p.Code
	}
	if p.ContactName != nil {
		rec["contact_name"] = *p.ContactName
	}
	if p.ContactEmail != nil {
		rec["contact_email"] = *p.ContactEmail
	}
	if p.ContactPhone != nil {
		rec["contact_phone"] = *p.ContactPhone
	}
	if p.Address != nil {
		rec["address"] = *p.Address
	}
	if p.Status != nil {
		rec["status"] = *p.Status
	}
	if p.Rating != nil {
		rec["rating"] = *p.Rating
	}
	return rec
}

const supplierColumns = `id, name, code, contact_name, contact_email, contact_phone, address, status, rating, created_at, updated_at`

// SupplierRepository handles supplier persistence
type SupplierRepository struct {
	db *database.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *database.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// List returns all suppliers, newest first.
func (r *SupplierRepository) List(ctx context.Context) ([]*Supplier, error) {
	if !r.db.Available() {
		return []*Supplier{}, nil
	}

	suppliers := []*Supplier{}
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// GetByID returns the supplier or nil when absent.
func (r *SupplierRepository) GetByID(ctx context.Context, id int) (*Supplier, error) {
	if !r.db.Available() {
		return nil, nil
	}

	var supplier Supplier
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	err := r.db.GetContext(ctx, &supplier, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// Create persists a new supplier and fills in server-assigned fields.
func (r *SupplierRepository) Create(ctx context.Context, s *Supplier) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	if s.Status == "" {
		s.Status = SupplierActive
	}

	query := `
		INSERT INTO suppliers (name, code, contact_name, contact_email, contact_phone, address, status, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		s.Name,
		s.Code,
		s.ContactName,
		s.ContactEmail,
		s.ContactPhone,
		s.Address,
		s.Status,
		s.Rating,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}

// Update applies a partial patch. Updating a missing id is not an error.
func (r *SupplierRepository) Update(ctx context.Context, id int, patch *SupplierPatch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	rec := patch.record()
	rec["updated_at"] = goqu.L("NOW()")

	query, args, err := dialect.Update("suppliers").
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

// Delete removes the supplier. Deleting a missing id is not an error.
func (r *SupplierRepository) Delete(ctx context.Context, id int) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	return err
}
