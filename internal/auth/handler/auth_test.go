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

	"github.com/craftline/craftline-backend/internal/auth"
	"github.com/craftline/craftline-backend/internal/auth/handler"
	"github.com/craftline/craftline-backend/internal/auth/session"
	"github.com/craftline/craftline-backend/internal/users/repository"
	"github.com/craftline/craftline-backend/pkg/config"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/testutil"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newAuthRouter(mockDB *testutil.MockDB, ownerOpenID string) (*chi.Mux, *session.Manager) {
	log := logger.New("test", "development")
	sessions := session.NewManager(&config.SessionConfig{
		Secret:     "test-secret",
		Expiry:     time.Hour,
		Issuer:     "craftline",
		CookieName: "craftline_session",
	})
	users := repository.NewUserRepository(mockDB.DB, ownerOpenID)
	h := handler.NewAuthHandler(users, sessions, log)

	r := chi.NewRouter()
	r.Use(auth.Middleware(sessions))
	r.Post("/auth/session", h.Login)
	r.Get("/auth/me", h.Me)
	r.Post("/auth/logout", h.Logout)
	return r, sessions
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "open_id", "name", "email", "login_method", "role", "last_signed_in", "created_at", "updated_at"}).
			AddRow(1, "user-123", "Ada", nil, "oauth", "user", now, now, now))

	router, _ := newAuthRouter(mockDB, "")

	req := httptest.NewRequest(http.MethodPost, "/auth/session", strings.NewReader(`{"open_id":"user-123","name":"Ada","login_method":"oauth"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "craftline_session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	var resp struct {
		Success bool            `json:"success"`
		Data    repository.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "user-123", resp.Data.OpenID)
	assert.Equal(t, "user", resp.Data.Role)
}

func TestAuthHandler_Login_RejectsMissingOpenID(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	router, _ := newAuthRouter(mockDB, "")

	req := httptest.NewRequest(http.MethodPost, "/auth/session", strings.NewReader(`{"name":"Ada"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestAuthHandler_Me_UnauthenticatedAnswersNull(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	router, _ := newAuthRouter(mockDB, "")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestAuthHandler_Me_ReadsSessionCookie(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	router, sessions := newAuthRouter(mockDB, "")

	token, err := sessions.Generate(&session.Identity{OpenID: "user-123", Name: "Ada", Role: "admin"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "craftline_session", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data session.Identity `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user-123", resp.Data.OpenID)
	assert.Equal(t, "admin", resp.Data.Role)
}

func TestAuthHandler_Me_IgnoresGarbageCookie(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	router, _ := newAuthRouter(mockDB, "")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "craftline_session", Value: "garbage"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestAuthHandler_Logout_ClearsCookieAndAcks(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	router, _ := newAuthRouter(mockDB, "")

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
