package session_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/craftline-backend/internal/auth/session"
	"github.com/craftline/craftline-backend/pkg/config"
	"github.com/craftline/craftline-backend/pkg/errors"
)

func testManager(expiry time.Duration) *session.Manager {
	return session.NewManager(&config.SessionConfig{
		Secret:     "test-secret",
		Expiry:     expiry,
		Issuer:     "craftline",
		CookieName: "craftline_session",
	})
}

func TestManager_GenerateValidateRoundTrip(t *testing.T) {
	mgr := testManager(time.Hour)

	token, err := mgr.Generate(&session.Identity{
		OpenID: "user-123",
		Name:   "Test User",
		Role:   "admin",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.OpenID)
	assert.Equal(t, "Test User", claims.Name)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "craftline", claims.Issuer)
}

func TestManager_Validate_ExpiredToken(t *testing.T) {
	mgr := testManager(-time.Minute)

	token, err := mgr.Generate(&session.Identity{OpenID: "user-123", Role: "user"})
	require.NoError(t, err)

	_, err = mgr.Validate(token)
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "TOKEN_EXPIRED", appErr.Code)
}

func TestManager_Validate_WrongSecret(t *testing.T) {
	mgr := testManager(time.Hour)
	other := session.NewManager(&config.SessionConfig{
		Secret:     "different-secret",
		Expiry:     time.Hour,
		Issuer:     "craftline",
		CookieName: "craftline_session",
	})

	token, err := other.Generate(&session.Identity{OpenID: "user-123", Role: "user"})
	require.NoError(t, err)

	_, err = mgr.Validate(token)
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "TOKEN_INVALID", appErr.Code)
}

func TestManager_Validate_Garbage(t *testing.T) {
	mgr := testManager(time.Hour)

	_, err := mgr.Validate("not-a-token")
	require.Error(t, err)
}

func TestManager_SetCookieAttributes(t *testing.T) {
	mgr := testManager(time.Hour)

	rec := httptest.NewRecorder()
	mgr.SetCookie(rec, "token-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "craftline_session", c.Name)
	assert.Equal(t, "token-value", c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 3600, c.MaxAge)
	assert.Equal(t, "/", c.Path)
}

func TestManager_ClearCookieExpiresSession(t *testing.T) {
	mgr := testManager(time.Hour)

	rec := httptest.NewRecorder()
	mgr.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "craftline_session", c.Name)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}
