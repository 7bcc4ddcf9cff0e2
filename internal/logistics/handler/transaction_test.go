package handler_test

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/craftline-backend/internal/logistics/handler"
	"github.com/craftline/craftline-backend/internal/logistics/repository"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/testutil"
)

func newTransactionRouter(mockDB *testutil.MockDB) *chi.Mux {
	log := logger.New("test", "development")
	h := handler.NewTransactionHandler(repository.NewTransactionRepository(mockDB.DB), nil, log)

	r := chi.NewRouter()
	r.Post("/inventory-transactions", h.Create)
	return r
}

func TestTransactionHandler_Create_ReceiptWithReference(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery("INSERT INTO inventory_transactions").
		WithArgs(3, "receipt", 25.5, "purchase_order", 7, nil, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(10, now))

	router := newTransactionRouter(mockDB)
	rec := do(t, router, http.MethodPost, "/inventory-transactions",
		`{"material_id":3,"transaction_type":"receipt","quantity":25.5,"reference_type":"purchase_order","reference_id":7}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reference_type":"purchase_order"`)
	assert.Contains(t, rec.Body.String(), `"reference_id":7`)

	mockDB.AssertExpectations(t)
}

func TestTransactionHandler_Create_ReturnAccepted(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery("INSERT INTO inventory_transactions").
		WithArgs(nil, "return", 2.0, nil, nil, nil, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, now))

	router := newTransactionRouter(mockDB)
	rec := do(t, router, http.MethodPost, "/inventory-transactions",
		`{"transaction_type":"return","quantity":2}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	mockDB.AssertExpectations(t)
}

func TestTransactionHandler_Create_RejectsUnknownType(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	router := newTransactionRouter(mockDB)
	rec := do(t, router, http.MethodPost, "/inventory-transactions",
		`{"transaction_type":"transfer","quantity":1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	mockDB.AssertExpectations(t)
}
