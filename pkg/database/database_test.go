package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/craftline-backend/pkg/config"
	"github.com/craftline/craftline-backend/pkg/database"
	"github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/logger"
)

func TestOpen_UnconfiguredRunsDegraded(t *testing.T) {
	log := logger.New("test", "development")

	db := database.Open(&config.DatabaseConfig{}, log)
	require.NotNil(t, db)
	assert.False(t, db.Available())
}

func TestRequireStore_DegradedAnswersStoreUnavailable(t *testing.T) {
	db := database.NewFromHandle(nil, logger.New("test", "development"))

	err := db.RequireStore()
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORE_UNAVAILABLE", appErr.Code)
	assert.Equal(t, 503, appErr.StatusCode)
}

func TestHealth_DegradedReportsStatus(t *testing.T) {
	db := database.NewFromHandle(nil, logger.New("test", "development"))

	health := db.Health(context.Background())
	assert.Equal(t, "degraded", health["status"])
}

func TestClose_DegradedIsSafe(t *testing.T) {
	db := database.NewFromHandle(nil, logger.New("test", "development"))
	assert.NoError(t, db.Close())
}
