package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/craftline-backend/internal/catalog/handler"
	"github.com/craftline/craftline-backend/internal/catalog/repository"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/testutil"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newMaterialRouter(mockDB *testutil.MockDB) *chi.Mux {
	log := logger.New("test", "development")
	h := handler.NewMaterialHandler(repository.NewMaterialRepository(mockDB.DB), nil, log)

	r := chi.NewRouter()
	r.Get("/materials", h.List)
	r.Post("/materials", h.Create)
	r.Get("/materials/{id}", h.Get)
	r.Put("/materials/{id}", h.Update)
	r.Delete("/materials/{id}", h.Delete)
	return r
}

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

func TestMaterialHandler_Create(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery("INSERT INTO materials").
		WithArgs("Cascade Hops", "MAT-001", "raw_material", "kg", 12.5, 10.0, 0.0, nil, "active").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, now, now))

	router := newMaterialRouter(mockDB)
	rec := do(t, router, http.MethodPost, "/materials",
		`{"name":"Cascade Hops","sku":"MAT-001","type":"raw_material","unit":"kg","unit_price":12.5,"reorder_level":10}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data repository.Material `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Data.ID)
	assert.Equal(t, "active", resp.Data.Status)

	mockDB.AssertExpectations(t)
}

func TestMaterialHandler_Create_RejectsUnknownType(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	router := newMaterialRouter(mockDB)
	rec := do(t, router, http.MethodPost, "/materials",
		`{"name":"Widget","sku":"MAT-002","type":"gadget","unit":"pcs"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	mockDB.AssertExpectations(t)
}

func TestMaterialHandler_Update_PatchesOnlySuppliedFields(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	// Patch carries only current_stock; prepared args are the value
	// then the id. A stock change triggers a re-read to check the
	// reorder level.
	mockDB.Mock.ExpectExec(`UPDATE "materials" SET`).
		WithArgs(42.0, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.Mock.ExpectQuery("SELECT (.+) FROM materials WHERE id").
		WithArgs(3).
		WillReturnRows(materialRows().
			AddRow(3, "Cascade Hops", "MAT-001", "raw_material", "kg", 12.5, 10.0, 42.0, nil, "active", now, now))

	router := newMaterialRouter(mockDB)
	rec := do(t, router, http.MethodPut, "/materials/3", `{"current_stock":42}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	mockDB.AssertExpectations(t)
}

func materialRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "sku", "type", "unit", "unit_price", "reorder_level", "current_stock", "supplier_id", "status", "created_at", "updated_at"})
}

func TestMaterialHandler_Update_StockAtReorderLevelRereads(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectExec(`UPDATE "materials" SET`).
		WithArgs(5.0, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.Mock.ExpectQuery("SELECT (.+) FROM materials WHERE id").
		WithArgs(3).
		WillReturnRows(materialRows().
			AddRow(3, "Cascade Hops", "MAT-001", "raw_material", "kg", 12.5, 10.0, 5.0, nil, "active", now, now))

	router := newMaterialRouter(mockDB)
	rec := do(t, router, http.MethodPut, "/materials/3", `{"current_stock":5}`)

	// With no broker connected the alert is a no-op, but the update
	// still acks.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	mockDB.AssertExpectations(t)
}

func TestMaterialHandler_Create_DegradedStoreAnswers503(t *testing.T) {
	log := logger.New("test", "development")
	h := handler.NewMaterialHandler(repository.NewMaterialRepository(testutil.NewUnavailableDB()), nil, log)

	r := chi.NewRouter()
	r.Post("/materials", h.Create)

	rec := do(t, r, http.MethodPost, "/materials",
		`{"name":"Cascade Hops","sku":"MAT-001","type":"raw_material","unit":"kg"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "STORE_UNAVAILABLE")
}

// A supplier created first can be attached to a new material, and the
// material list carries the assigned supplier id back out.
func TestMaterialHandler_CreateWithSupplier_ListCarriesSupplierID(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	log := logger.New("test", "development")
	supplierHandler := handler.NewSupplierHandler(repository.NewSupplierRepository(mockDB.DB), log)
	materialHandler := handler.NewMaterialHandler(repository.NewMaterialRepository(mockDB.DB), nil, log)

	r := chi.NewRouter()
	r.Post("/suppliers", supplierHandler.Create)
	r.Post("/materials", materialHandler.Create)
	r.Get("/materials", materialHandler.List)

	mockDB.Mock.ExpectQuery("INSERT INTO suppliers").
		WithArgs("Acme Hops", "SUP-001", nil, nil, nil, nil, "active", 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))
	mockDB.Mock.ExpectQuery("INSERT INTO materials").
		WithArgs("Cascade Hops", "MAT-001", "raw_material", "kg", 12.5, 0.0, 0.0, 7, "active").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, now, now))
	mockDB.Mock.ExpectQuery("SELECT (.+) FROM materials").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "sku", "type", "unit", "unit_price", "reorder_level", "current_stock", "supplier_id", "status", "created_at", "updated_at"}).
			AddRow(3, "Cascade Hops", "MAT-001", "raw_material", "kg", 12.5, 0.0, 0.0, 7, "active", now, now))

	rec := do(t, r, http.MethodPost, "/suppliers", `{"name":"Acme Hops","code":"SUP-001"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data repository.Supplier `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, 7, created.Data.ID)

	rec = do(t, r, http.MethodPost, "/materials",
		`{"name":"Cascade Hops","sku":"MAT-001","type":"raw_material","unit":"kg","unit_price":12.5,"supplier_id":7}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodGet, "/materials", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Data []repository.Material `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, 3, listed.Data[0].ID)
	require.NotNil(t, listed.Data[0].SupplierID)
	assert.Equal(t, 7, *listed.Data[0].SupplierID)

	mockDB.AssertExpectations(t)
}

func TestMaterialHandler_List_DegradedStoreAnswersEmpty(t *testing.T) {
	log := logger.New("test", "development")
	h := handler.NewMaterialHandler(repository.NewMaterialRepository(testutil.NewUnavailableDB()), nil, log)

	r := chi.NewRouter()
	r.Get("/materials", h.List)

	rec := do(t, r, http.MethodGet, "/materials", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}
