package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/craftline-backend/internal/logistics/handler"
	"github.com/craftline/craftline-backend/internal/logistics/repository"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/testutil"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req = req.WithContext(httputil.WithUserContext(req.Context(), "user-1", "Test User", "user"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func newShipmentRouter(mockDB *testutil.MockDB) *chi.Mux {
	log := logger.New("test", "development")
	h := handler.NewShipmentHandler(repository.NewShipmentRepository(mockDB.DB), nil, log)

	r := chi.NewRouter()
	r.Post("/shipments", h.Create)
	r.Put("/shipments/{id}", h.Update)
	return r
}

func shipmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "shipment_number", "shipment_type", "order_id", "carrier", "tracking_number", "status", "shipped_date", "delivered_date", "notes", "created_at", "updated_at"})
}

func TestShipmentHandler_Create_InboundDefaultsPending(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery("INSERT INTO shipments").
		WithArgs("SHP-001", "inbound", nil, nil, nil, "pending", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

	router := newShipmentRouter(mockDB)
	rec := do(t, router, http.MethodPost, "/shipments",
		`{"shipment_number":"SHP-001","shipment_type":"inbound"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"shipment_type":"inbound"`)

	mockDB.AssertExpectations(t)
}

func TestShipmentHandler_Create_RequiresDirection(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	router := newShipmentRouter(mockDB)
	rec := do(t, router, http.MethodPost, "/shipments", `{"shipment_number":"SHP-002"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	mockDB.AssertExpectations(t)
}

func TestShipmentHandler_Update_CancelAccepted(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectExec(`UPDATE "shipments" SET`).
		WithArgs("cancelled", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.Mock.ExpectQuery("SELECT (.+) FROM shipments WHERE id").
		WithArgs(1).
		WillReturnRows(shipmentRows().
			AddRow(1, "SHP-001", "outbound", nil, nil, nil, "cancelled", nil, nil, nil, now, now))

	router := newShipmentRouter(mockDB)
	rec := do(t, router, http.MethodPut, "/shipments/1", `{"status":"cancelled"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	mockDB.AssertExpectations(t)
}

func TestShipmentHandler_Update_RejectsUnknownStatus(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	router := newShipmentRouter(mockDB)
	rec := do(t, router, http.MethodPut, "/shipments/1", `{"status":"failed"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	mockDB.AssertExpectations(t)
}
