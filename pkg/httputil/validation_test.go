package httputil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/httputil"
)

type sampleInput struct {
	Name   string `validate:"required"`
	Email  string `validate:"omitempty,email"`
	Rating int    `validate:"gte=0,max=5"`
	Status string `validate:"omitempty,oneof=active inactive"`
}

func TestValidate_PassesValidInput(t *testing.T) {
	err := httputil.Validate(&sampleInput{Name: "Acme", Email: "a@b.co", Rating: 3, Status: "active"})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldDetails(t *testing.T) {
	err := httputil.Validate(&sampleInput{Email: "nope", Rating: 9, Status: "zombie"})
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, "this field is required", appErr.Details["Name"])
	assert.Equal(t, "must be a valid email address", appErr.Details["Email"])
	assert.Equal(t, "must be at most 5", appErr.Details["Rating"])
	assert.Equal(t, "must be one of: active inactive", appErr.Details["Status"])
}
