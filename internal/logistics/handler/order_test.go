package handler_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/craftline/craftline-backend/internal/logistics/handler"
	"github.com/craftline/craftline-backend/internal/logistics/repository"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/testutil"
)

func newOrderRouter(mockDB *testutil.MockDB) *chi.Mux {
	log := logger.New("test", "development")
	h := handler.NewOrderHandler(repository.NewOrderRepository(mockDB.DB), nil, log)

	r := chi.NewRouter()
	r.Post("/orders", h.Create)
	r.Put("/orders/{id}", h.Update)
	return r
}

func TestOrderHandler_Create_RejectsUnknownStatus(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	router := newOrderRouter(mockDB)
	rec := do(t, router, http.MethodPost, "/orders",
		`{"order_number":"ORD-001","customer_name":"Jo Smith","status":"confirmed"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	mockDB.AssertExpectations(t)
}

func TestOrderHandler_Update_RejectsUnknownStatus(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	router := newOrderRouter(mockDB)
	rec := do(t, router, http.MethodPut, "/orders/1", `{"status":"confirmed"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	mockDB.AssertExpectations(t)
}
