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

func newLocationRouter(mockDB *testutil.MockDB) *chi.Mux {
	log := logger.New("test", "development")
	h := handler.NewLocationHandler(repository.NewLocationRepository(mockDB.DB), log)

	r := chi.NewRouter()
	r.Post("/warehouse-locations", h.Create)
	r.Put("/warehouse-locations/{id}", h.Update)
	return r
}

func TestLocationHandler_Create_RackDefaultsActive(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	parentID := 2
	mockDB.Mock.ExpectQuery("INSERT INTO warehouse_locations").
		WithArgs("R-01", "Rack 1", "rack", parentID, nil, 0.0, "active", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))

	router := newLocationRouter(mockDB)
	rec := do(t, router, http.MethodPost, "/warehouse-locations",
		`{"code":"R-01","name":"Rack 1","location_type":"rack","parent_id":2}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"active"`)

	mockDB.AssertExpectations(t)
}

func TestLocationHandler_Create_RejectsUnknownType(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	router := newLocationRouter(mockDB)
	rec := do(t, router, http.MethodPost, "/warehouse-locations",
		`{"code":"S-01","name":"Shelf 1","location_type":"shelf"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	mockDB.AssertExpectations(t)
}

func TestLocationHandler_Update_PatchesUtilizationAndStatus(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	// SET columns are ordered alphabetically; the id comes last.
	mockDB.Mock.ExpectExec(`UPDATE "warehouse_locations" SET`).
		WithArgs(75.5, "maintenance", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	router := newLocationRouter(mockDB)
	rec := do(t, router, http.MethodPut, "/warehouse-locations/5",
		`{"current_utilization":75.5,"status":"maintenance"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	mockDB.AssertExpectations(t)
}
