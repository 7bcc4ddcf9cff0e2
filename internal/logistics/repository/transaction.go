package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/craftline/craftline-backend/pkg/database"
)

// Inventory transaction types.
const (
	TransactionReceipt    = "receipt"
	TransactionShipment   = "shipment"
	TransactionAdjustment = "adjustment"
	TransactionProduction = "production"
	TransactionReturn     = "return"
)

// InventoryTransaction is an append-only stock movement record.
// Rows are never updated or deleted once written. ReferenceType and
// ReferenceID point at whatever document caused the movement (a
// purchase order, a shipment, a batch); the pair is stored as-is.
type InventoryTransaction struct {
	ID              int       `db:"id" json:"id"`
	MaterialID      *int      `db:"material_id" json:"material_id,omitempty"`
	TransactionType string    `db:"transaction_type" json:"transaction_type"`
	Quantity        float64   `db:"quantity" json:"quantity"`
	ReferenceType   *string   `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID     *int      `db:"reference_id" json:"reference_id,omitempty"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedBy       *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

const transactionColumns = `id, material_id, transaction_type, quantity, reference_type, reference_id, notes, created_by, created_at`

// TransactionRepository handles the inventory movement ledger
type TransactionRepository struct {
	db *database.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// List returns all transactions, newest first.
func (r *TransactionRepository) List(ctx context.Context) ([]*InventoryTransaction, error) {
	if !r.db.Available() {
		return []*InventoryTransaction{}, nil
	}

	txs := []*InventoryTransaction{}
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &txs, query); err != nil {
		return nil, err
	}
	return txs, nil
}

// GetByID returns the transaction or nil when absent.
func (r *TransactionRepository) GetByID(ctx context.Context, id int) (*InventoryTransaction, error) {
	if !r.db.Available() {
		return nil, nil
	}

	var tx InventoryTransaction
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions WHERE id = $1`
	err := r.db.GetContext(ctx, &tx, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// Create appends a movement to the ledger.
func (r *TransactionRepository) Create(ctx context.Context, tx *InventoryTransaction) error {
	if err := r.db.RequireStore(); err != nil {
		return err
	}

	query := `
		INSERT INTO inventory_transactions (material_id, transaction_type, quantity, reference_type, reference_id, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		tx.MaterialID,
		tx.TransactionType,
		tx.Quantity,
		tx.ReferenceType,
		tx.ReferenceID,
		tx.Notes,
		tx.CreatedBy,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}
