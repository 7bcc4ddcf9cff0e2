package handler_test

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/craftline/craftline-backend/internal/logistics/handler"
	"github.com/craftline/craftline-backend/internal/logistics/repository"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/testutil"
)

func newPurchaseOrderRouter(mockDB *testutil.MockDB) *chi.Mux {
	log := logger.New("test", "development")
	h := handler.NewPurchaseOrderHandler(repository.NewPurchaseOrderRepository(mockDB.DB), nil, log)

	r := chi.NewRouter()
	r.Put("/purchase-orders/{id}", h.Update)
	return r
}

func purchaseOrderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_number", "supplier_id", "status", "order_date", "expected_date", "total_amount", "notes", "created_at", "updated_at"})
}

func TestPurchaseOrderHandler_Update_StatusRereadsForEvent(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	// A status-only patch updates the row, then re-reads it to fill
	// the order number for the published event.
	mockDB.Mock.ExpectExec(`UPDATE "purchase_orders" SET`).
		WithArgs("submitted", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.Mock.ExpectQuery("SELECT (.+) FROM purchase_orders WHERE id").
		WithArgs(1).
		WillReturnRows(purchaseOrderRows().
			AddRow(1, "PO-001", nil, "submitted", nil, nil, 0.0, nil, now, now))

	router := newPurchaseOrderRouter(mockDB)
	rec := do(t, router, http.MethodPut, "/purchase-orders/1", `{"status":"submitted"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	mockDB.AssertExpectations(t)
}
