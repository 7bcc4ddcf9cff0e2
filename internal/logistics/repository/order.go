package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/craftline/craftline-backend/pkg/database"
)

// Customer order statuses. Cancelled is terminal.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Order is a customer order. No delete is exposed; cancellation is a
// status change.
type Order struct {
	ID              int        `db:"id" json:"id"`
	OrderNumber     string     `db:"order_number" json:"order_number"`
	CustomerName    string     `db:"customer_name" json:"customer_name"`
	CustomerEmail   *string    `db:"customer_email" json:"customer_email,omitempty"`
	CustomerPhone   *string    `db:"customer_phone" json:"customer_phone,omitempty"`
	ShippingAddress *string    `db:"shipping_address" json:"shipping_address,omitempty"`
	Status          string     `db:"status" json:"status"`
	OrderDate       *time.Time `db:"order_date" json:"order_date,omitempty"`
	TotalAmount     float64    `db:"total_amount" json:"total_amount"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// OrderItem is a line of a customer order.
type OrderItem struct {
	ID         int       `db:"id" json:"id"`
	OrderID    int       `db:"order_id" json:"order_id"`
	MaterialID *int      `db:"material_id" json:"material_id,omitempty"`
	Quantity   float64   `db:"quantity" json:"quantity"`
	UnitPrice  float64   `db:"unit_price" json:"unit_price"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// OrderPatch is a partial update; only non-nil fields are applied.
type OrderPatch struct {
	OrderNumber     *string    `json:"order_number,omitempty"`
	CustomerName    *string    `json:"customer_name,omitempty"`
	CustomerEmail   *string    `json:"customer_email,omitempty"`
	CustomerPhone   *string    `json:"customer_phone,omitempty"`
	ShippingAddress *string    `json:"shipping_address,omitempty"`
	Status          *string    `json:"status,omitempty"`
	OrderDate       *time.Time `json:"order_date,omitempty"`
	TotalAmount     *float64   `json:"total_amount,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

func (p *OrderPatch) record() goqu.Record {
	rec := goqu.Record{}
	if p.OrderNumber != nil {
		rec["order_number"] = *p.OrderNumber
	}
	if p.CustomerName != nil {
		rec["customer_name"] = *p.CustomerName
	}
	if p.CustomerEmail != nil {
		rec["customer_email"] = *p.CustomerEmail
	}
	if p.CustomerPhone != nil {
		rec["customer_phone"] = *p.CustomerPhone
	}
	if p.ShippingAddress != nil {
		rec["shipping_address"] = *p.ShippingAddress
	}
	if p.Status != nil {
		rec["status"] = *p.Status
	}
	if p.OrderDate != nil {
		rec["order_date"] = *p.OrderDate
	}
	if p.TotalAmount != nil {
		rec["total_amount"] = *p.TotalAmount
	}
	if p.Notes != nil {
		rec["notes"] = *p.Notes
	}
	return rec
}

// OrderItemPatch is a partial update for an order line.
type OrderItemPatch struct {
	MaterialID *int     `json:"material_id,omitempty"`
	Quantity   *float64 `json:"quantity,omitempty"`
	UnitPrice  *float64 `json:"unit_price,omitempty"`
}

func (p *OrderItemPatch) record() goqu.Record {
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
	return rec
}

const orderColumns = `id, order_number, customer_name, customer_email, customer_phone, shipping_address, status, order_date, total_amount, notes, created_at, updated_at`
const orderItemColumns = `id, order_id, material_id, quantity, unit_price, created_at, updated_at`

// OrderRepository handles customer order persistence
type OrderRepository struct {
	db *database.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]*Order, error) {
	if !r.db.Available() {
		return []*Order{}, nil
	}

	orders := []*Order{}
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID returns the order or nil when absent.
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*Order, error) {
	if !r.db.Available() {
		return nil, nil
	}

	var o Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	err := r.db.GetContext(ctx, &o, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListItems returns an order's lines.
func (r *OrderRepository) ListItems(ctx context.Context, orderID int) ([]*OrderItem, error) {
	if !r.db.Available() {
		return []*OrderItem{}, nil
	}

	items := []*OrderItem{}
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *Order) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	if o.Status == "" {
		o.Status = OrderPending
	}

	query := `
		INSERT INTO orders (order_number, customer_name, customer_email, customer_phone, shipping_address, status, order_date, total_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		o.OrderNumber,
		o.CustomerName,
		o.CustomerEmail,
		o.CustomerPhone,
		o.ShippingAddress,
		o.Status,
		o.OrderDate,
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

// CreateItem persists a new order line.
func (r *OrderRepository) CreateItem(ctx context.Context, item *OrderItem) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	query := `
		INSERT INTO order_items (order_id, material_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		item.OrderID,
		item.MaterialID,
		item.Quantity,
		item.UnitPrice,
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
func (r *OrderRepository) Update(ctx context.Context, id int, patch *OrderPatch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	rec := patch.record()
	rec["updated_at"] = goqu.L("NOW()")

	query, args, err := dialect.Update("orders").
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
func (r *OrderRepository) UpdateItem(ctx context.Context, id int, patch *OrderItemPatch) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	rec := patch.record()
	rec["updated_at"] = goqu.L("NOW()")

	query, args, err := dialect.Update("order_items").
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
