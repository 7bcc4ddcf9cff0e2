package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/craftline-backend/internal/production/repository"
	"github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/testutil"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestBatchRepository_Create_DefaultsStatusToPlanned(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery("INSERT INTO batches").
		WithArgs("BATCH-2025-001", nil, nil, 500.0, "l", "planned", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

	repo := repository.NewBatchRepository(mockDB.DB)

	b := &repository.Batch{BatchNumber: "BATCH-2025-001", Quantity: 500, Unit: "l"}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.Equal(t, "planned", b.Status)
	assert.Equal(t, 1, b.ID)

	mockDB.AssertExpectations(t)
}

func TestBatchRepository_Update_PatchesOnlyStatus(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectExec(`UPDATE "batches" SET`).
		WithArgs("completed", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := repository.NewBatchRepository(mockDB.DB)

	status := "completed"
	require.NoError(t, repo.Update(context.Background(), 1, &repository.BatchPatch{Status: &status}))

	mockDB.AssertExpectations(t)
}

func TestBatchRepository_List_DegradesToEmpty(t *testing.T) {
	repo := repository.NewBatchRepository(testutil.NewUnavailableDB())

	batches, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batches)
	assert.NotNil(t, batches)
}

func TestBatchRepository_Create_StoreUnavailable(t *testing.T) {
	repo := repository.NewBatchRepository(testutil.NewUnavailableDB())

	err := repo.Create(context.Background(), &repository.Batch{BatchNumber: "B-1", Unit: "l"})
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORE_UNAVAILABLE", appErr.Code)
}
