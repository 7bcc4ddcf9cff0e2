package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/craftline/craftline-backend/pkg/database"
)

// Shipment statuses. Delivered and cancelled are terminal.
const (
	ShipmentPending   = "pending"
	ShipmentInTransit = "in_transit"
	ShipmentDelivered = "delivered"
	ShipmentCancelled = "cancelled"
)

// Shipment directions.
const (
	ShipmentInbound  = "inbound"
	ShipmentOutbound = "outbound"
)

// Shipment is an inbound or outbound delivery. No delete is exposed;
// cancelled and delivered shipments stay on record.
type Shipment struct {
	ID             int        `db:"id" json:"id"`
	ShipmentNumber string     `db:"shipment_number" json:"shipment_number"`
	ShipmentType   string     `db:"shipment_type" json:"shipment_type"`
	OrderID        *int       `db:"order_id" json:"order_id,omitempty"`
	Carrier        *string    `db:"carrier" json:"carrier,omitempty"`
	TrackingNumber *string    `db:"tracking_number" json:"tracking_number,omitempty"`
	Status         string     `db:"status" json:"status"`
	ShippedDate    *time.Time `db:"shipped_date" json:"shipped_date,omitempty"`
	DeliveredDate  *time.Time `db:"delivered_date" json:"delivered_date,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// ShipmentPatch is a partial update; only non-nil fields are applied.
type ShipmentPatch struct {
	ShipmentNumber *string    `json:"shipment_number,omitempty"`
	ShipmentType   *string    `json:"shipment_type,omitempty"`
	OrderID        *int       `json:"order_id,omitempty"`
	Carrier        *string    `json:"carrier,omitempty"`
	TrackingNumber *string    `json:"tracking_number,omitempty"`
	Status         *string    `json:"status,omitempty"`
	ShippedDate    *time.Time `json:"shipped_date,omitempty"`
	DeliveredDate  *time.Time `json:"delivered_date,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

func (p *ShipmentPatch) record() goqu.Record {
	rec := goqu.Record{}
	if p.ShipmentNumber != nil {
		rec["shipment_number"] = *p.ShipmentNumber
	}
	if p.ShipmentType != nil {
		rec["shipment_type"] = *p.ShipmentType
	}
	if p.OrderID != nil {
		rec["order_id"] = *p.OrderID
	}
	if p.Carrier != nil {
		rec["carrier"] = *p.Carrier
	}
	if p.TrackingNumber != nil {
		rec["tracking_number"] = *p.TrackingNumber
	}
	if p.Status != nil {
		rec["status"] = *p.Status
	}
	if p.ShippedDate != nil {
		rec["shipped_date"] = *p.ShippedDate
	}
	if p.DeliveredDate != nil {
		rec["delivered_date"] = *p.DeliveredDate
	}
	if p.Notes != nil {
		rec["notes"] = *p.Notes
	}
	return rec
}

const shipmentColumns = `id, shipment_number, shipment_type, order_id, carrier, tracking_number, status, shipped_date, delivered_date, notes, created_at, updated_at`

// ShipmentRepository handles shipment persistence
type ShipmentRepository struct {
	db *database.DB
}

// NewShipmentRepository creates a new shipment repository
func NewShipmentRepository(db *database.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// List returns all shipments, newest first.
func (r *ShipmentRepository) List(ctx context.Context) ([]*Shipment, error) {
	if !r.db.Available() {
		return []*Shipment{}, nil
	}

	shipments := []*Shipment{}
	query := `SELECT ` + shipmentColumns + ` FROM shipments ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &shipments, query); err != nil {
		return nil, err
	}
	return shipments, nil
}

// GetByID returns the shipment or nil when absent.
func (r *ShipmentRepository) GetByID(ctx context.Context, id int) (*Shipment, error) {
	if !r.db.Available() {
		return nil, nil
	}

	var s Shipment
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1`
	err := r.db.GetContext(ctx, &s, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persists a new shipment.
func (r *ShipmentRepository) Create(ctx context.Context, s *Shipment) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	if s.Status == "" {
		s.Status = ShipmentPending
	}

	query := `
		INSERT INTO shipments (shipment_number, shipment_type, order_id, carrier, tracking_number, status, shipped_date, delivered_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		s.ShipmentNumber,
		s.ShipmentType,
		s.OrderID,
		s.Carrier,
		s.TrackingNumber,
		s.Status,
		s.ShippedDate,
		s.DeliveredDate,
		s.Notes,
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
func (r *ShipmentRepository) Update(ctx context.Context, id int, patch *ShipmentPatch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	rec := patch.record()
	rec["updated_at"] = goqu.L("NOW()")

	query, args, err := dialect.Update("shipments").
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
