package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/craftline-backend/internal/catalog/repository"
	"github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/testutil"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func supplierRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "code", "contact_name", "contact_email", "contact_phone", "address", "status", "rating", "created_at", "updated_at"})
}

func TestSupplierRepository_Create_DefaultsStatusToActive(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery("INSERT INTO suppliers").
		WithArgs("Acme Hops", "SUP-001", nil, nil, nil, nil, "active", 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

	repo := repository.NewSupplierRepository(mockDB.DB)

	s := &repository.Supplier{Name: "Acme Hops", Code: "SUP-001"}
	require.NoError(t, repo.Create(context.Background(), s))
	assert.Equal(t, 1, s.ID)
	assert.Equal(t, "active", s.Status)

	mockDB.AssertExpectations(t)
}

func TestSupplierRepository_Create_DuplicateCodeIsConflict(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery("INSERT INTO suppliers").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "suppliers_code_unique"})

	repo := repository.NewSupplierRepository(mockDB.DB)

	err := repo.Create(context.Background(), &repository.Supplier{Name: "Acme Hops", Code: "SUP-001"})
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Contains(t, appErr.Message, "code")
}

func TestSupplierRepository_Update_OnlySuppliedColumns(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	// Only status is patched; the single prepared arg before the id.
	mockDB.Mock.ExpectExec(`UPDATE "suppliers" SET`).
		WithArgs("suspended", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := repository.NewSupplierRepository(mockDB.DB)

	status := "suspended"
	err := repo.Update(context.Background(), 4, &repository.SupplierPatch{Status: &status})
	require.NoError(t, err)

	mockDB.AssertExpectations(t)
}

func TestSupplierRepository_List_OrdersNewestFirst(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectQuery(`FROM suppliers ORDER BY created_at DESC`).
		WillReturnRows(supplierRows().
			AddRow(2, "Newer", "SUP-002", nil, nil, nil, nil, "active", 0, now, now).
			AddRow(1, "Older", "SUP-001", nil, nil, nil, nil, "active", 0, now.Add(-time.Hour), now))

	repo := repository.NewSupplierRepository(mockDB.DB)

	suppliers, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "Newer", suppliers[0].Name)
}

func TestSupplierRepository_List_DegradesToEmpty(t *testing.T) {
	repo := repository.NewSupplierRepository(testutil.NewUnavailableDB())

	suppliers, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, suppliers)
	assert.NotNil(t, suppliers)
}

func TestSupplierRepository_GetByID_DegradesToNil(t *testing.T) {
	repo := repository.NewSupplierRepository(testutil.NewUnavailableDB())

	s, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSupplierRepository_Delete_StoreUnavailable(t *testing.T) {
	repo := repository.NewSupplierRepository(testutil.NewUnavailableDB())

	err := repo.Delete(context.Background(), 1)
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORE_UNAVAILABLE", appErr.Code)
}

func TestSupplierRepository_Delete_MissingIDIsNotAnError(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectExec(`DELETE FROM suppliers WHERE id = $1`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := repository.NewSupplierRepository(mockDB.DB)

	require.NoError(t, repo.Delete(context.Background(), 42))
}
