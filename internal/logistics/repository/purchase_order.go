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

// Purchase order statuses. The draft→submitted→confirmed→shipped→
// delivered lifecycle is advisory; cancelled is terminal.
const (
	PurchaseOrderDraft     = "draft"
	PurchaseOrderSubmitted = "submitted"
	PurchaseOrderConfirmed = "confirmed"
	PurchaseOrderShipped   = "shipped"
	PurchaseOrderDelivered = "delivered"
	PurchaseOrderCancelled = "cancelled"
)

// PurchaseOrder is an order placed with a supplier. No delete is
// exposed; the lifecycle terminates by status, not removal.
type PurchaseOrder struct {
	ID           int        `db:"id" json:"id"`
	OrderNumber  string     `db:"order_number" json:"order_number"`
	SupplierID   *int       `db:"supplier_id" json:"supplier_id,omitempty"`
	Status       string     `db:"status" json:"status"`
	OrderDate    *time.Time `db:"order_date" json:"order_date,omitempty"`
	ExpectedDate *time.Time `db:"expected_date" json:"expected_date,omitempty"`
	TotalAmount  float64    `db:"total_amount" json:"total_amount"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// PurchaseOrderItem is a line of a purchase order.
type PurchaseOrderItem struct {
	ID               int       `db:"id" json:"id"`
	PurchaseOrderID  int       `db:"purchase_order_id" json:"purchase_order_id"`
	MaterialID       *int      `db:"material_id" json:"material_id,omitempty"`
	Quantity         float64   `db:"quantity" json:"quantity"`
	UnitPrice        float64   `db:"unit_price" json:"unit_price"`
	ReceivedQuantity float64   `db:"received_quantity" json:"received_quantity"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// PurchaseOrderPatch is a partial update; only non-nil fields are applied.
type PurchaseOrderPatch struct {
	OrderNumber  *string    `json:"order_number,omitempty"`
	SupplierID   *int       `json:"supplier_id,omitempty"`
	Status       *string    `json:"status,omitempty"`
	OrderDate    *time.Time `json:"order_date,omitempty"`
	ExpectedDate *time.Time `json:"expected_date,omitempty"`
	TotalAmount  *float64   `json:"total_amount,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

func (p *PurchaseOrderPatch) record() goqu.Record {
	rec := goqu.Record{}
	if p.OrderNumber != nil {
		rec["order_number"] = *p.OrderNumber
	}
	if p.SupplierID != nil {
		rec["supplier_id"] = *p.SupplierID
	}
	if p.Status != nil {
		rec["status"] = *p.Status
	}
	if p.OrderDate != nil {
		rec["order_date"] = *p.OrderDate
	}
	if p.ExpectedDate != nil {
		rec["expected_date"] = *p.ExpectedDate
	}
	if p.TotalAmount != nil {
		rec["total_amount"] = *p.TotalAmount
	}
	if p.Notes != nil {
		rec["notes"] = *p.Notes
	}
	return rec
}

// PurchaseOrderItemPatch is a partial update for an order line.
type PurchaseOrderItemPatch struct {
	MaterialID       *int     `json:"material_id,omitempty"`
	Quantity         *float64 `json:"quantity,omitempty"`
	UnitPrice        *float64 `json:"unit_price,omitempty"`
	ReceivedQuantity *float64 `json:"received_quantity,omitempty"`
}

func (p *PurchaseOrderItemPatch) record() goqu.Record {
	rec := goqu.Record{}
	if p.MaterialID != nil {
		rec["material_id"] = *p.MaterialID
	}
	if p.Quantity != nil {
		rec["quantity"] = *p.Quantity
	}
	if p.UnitPrice != nil {
		rec["unit_price"] = *p.UnitPrice
	}
	if p.ReceivedQuantity != nil {
		rec["received_quantity"] = *p.ReceivedQuantity
	}
	return rec
}

const purchaseOrderColumns = `id, order_number, supplier_id, status, order_date, expected_date, total_amount, notes, created_at, updated_at`
const purchaseOrderItemColumns = `id, purchase_order_id, material_id, quantity, unit_price, received_quantity, created_at, updated_at`

// PurchaseOrderRepository handles purchase order persistence
type PurchaseOrderRepository struct {
	db *database.DB
}

// NewPurchaseOrderRepository creates a new purchase order repository
func NewPurchaseOrderRepository(db *database.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

// List returns all purchase orders, newest first.
func (r *PurchaseOrderRepository) List(ctx context.Context) ([]*PurchaseOrder, error) {
	if !r.db.Available() {
		return []*PurchaseOrder{}, nil
	}

	orders := []*PurchaseOrder{}
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID returns the purchase order or nil when absent.
func (r *PurchaseOrderRepository) GetByID(ctx context.Context, id int) (*PurchaseOrder, error) {
	if !r.db.Available() {
		return nil, nil
	}

	var order PurchaseOrder
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id = $1`
	err := r.db.GetContext(ctx, &order, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListItems returns a purchase order's lines.
func (r *PurchaseOrderRepository) ListItems(ctx context.Context, orderID int) ([]*PurchaseOrderItem, error) {
	if !r.db.Available() {
		return []*PurchaseOrderItem{}, nil
	}

	items := []*PurchaseOrderItem{}
	query := `SELECT ` + purchaseOrderItemColumns + ` FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

// Create persists a new purchase order.
func (r *PurchaseOrderRepository) Create(ctx context.Context, o *PurchaseOrder) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	if o.Status == "" {
		o.Status = PurchaseOrderDraft
	}

	query := `
		INSERT INTO purchase_orders (order_number, supplier_id, status, order_date, expected_date, total_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		o.OrderNumber,
		o.SupplierID,
		o.Status,
		o.OrderDate,
		o.ExpectedDate,
		o.TotalAmount,
		o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}

// CreateItem persists a new purchase order line.
func (r *PurchaseOrderRepository) CreateItem(ctx context.Context, item *PurchaseOrderItem) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	query := `
		INSERT INTO purchase_order_items (purchase_order_id, material_id, quantity, unit_price, received_quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		item.PurchaseOrderID,
		item.MaterialID,
		item.Quantity,
		item.UnitPrice,
		item.ReceivedQuantity,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}

// Update applies a partial patch. Updating a missing id is not an error.
func (r *PurchaseOrderRepository) Update(ctx context.Context, id int, patch *PurchaseOrderPatch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	rec := patch.record()
	rec["updated_at"] = goqu.L("NOW()")

	query, args, err := dialect.Update("purchase_orders").
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

// UpdateItem applies a partial patch to an order line.
func (r *PurchaseOrderRepository) UpdateItem(ctx context.Context, id int, patch *PurchaseOrderItemPatch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	rec := patch.record()
	rec["updated_at"] = goqu.L("NOW()")

	query, args, err := dialect.Update("purchase_order_items").
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
