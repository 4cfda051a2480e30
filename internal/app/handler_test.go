package app

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groovix/groovix/internal/config"
	"github.com/groovix/groovix/internal/sec"
	"github.com/groovix/groovix/internal/storage"
)

func newTestApp(t *testing.T, secret string) *echo.Echo {
	t.Helper()
	cfg := config.Default()
	cfg.DBFilepath = filepath.Join(t.TempDir(), "db.sqlite")
	cfg.TokenSecret = secret
	store, err := storage.NewDB(t.Context(), cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(cfg, slog.Default(), store)
}

func doJSON(srv *echo.Echo, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sec.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestApp(t, "secret")

	rec := doJSON(srv, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw123","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string `json:"message"`
		User    struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.NotContains(t, rec.Body.String(), "pw123")
	assert.NotContains(t, rec.Body.String(), "password")

	t.Run("duplicate email", func(t *testing.T) {
		rec := doJSON(srv, http.MethodPost, "/register", `{"email":"a@x.com","password":"other"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := doJSON(srv, http.MethodPost, "/register", `{"email":"b@x.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestApp(t, "secret")
	rec := doJSON(srv, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw123","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("success sets the session cookie", func(t *testing.T) {
		rec := doJSON(srv, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw123"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		cookie := sessionCookieFrom(t, rec)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := doJSON(srv, http.MethodPost, "/login", `{"email":"nobody@x.com","password":"pw123"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(srv, http.MethodPost, "/login", `{"email":"a@x.com","password":"wrong"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestLoginLockedAccountEndpoint(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.DBFilepath = filepath.Join(t.TempDir(), "db.sqlite")
	cfg.TokenSecret = "secret"
	store, err := storage.NewDB(t.Context(), cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	srv := New(cfg, slog.Default(), store)

	rec := doJSON(srv, http.MethodPost, "/register", `{"email":"locked@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	user, err := store.GetUserByEmail(t.Context(), "locked@x.com")
	require.NoError(t, err)
	inactive := false
	require.NoError(t, store.UpdateUser(t.Context(), storage.UpdateUserParams{
		ID:     user.ID,
		Active: &inactive,
	}))

	rec = doJSON(srv, http.MethodPost, "/login", `{"email":"locked@x.com","password":"pw123"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginNoSigningSecretEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestApp(t, "")
	rec := doJSON(srv, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(srv, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw123"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret", "misconfiguration detail must not leak")
}

func TestSessionFlow(t *testing.T) {
	t.Parallel()

	srv := newTestApp(t, "secret")

	rec := doJSON(srv, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw123","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(srv, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	session := sessionCookieFrom(t, rec)

	t.Run("current-user", func(t *testing.T) {
		rec := doJSON(srv, http.MethodGet, "/current-user", "", session)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data struct {
				Email string `json:"email"`
			} `json:"data"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "a@x.com", resp.Data.Email)
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "hash")
	})

	t.Run("current-user without cookie", func(t *testing.T) {
		rec := doJSON(srv, http.MethodGet, "/current-user", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("get-all-users", func(t *testing.T) {
		rec := doJSON(srv, http.MethodGet, "/get-all-users", "", session)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data []struct {
				Email string `json:"email"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("get-all-users without cookie", func(t *testing.T) {
		rec := doJSON(srv, http.MethodGet, "/get-all-users", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUpdateUserEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestApp(t, "secret")

	rec := doJSON(srv, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw123","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var registered struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	rec = doJSON(srv, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	session := sessionCookieFrom(t, rec)

	t.Run("updates the target user", func(t *testing.T) {
		body := `{"userId":"` + registered.User.ID + `","name":"Renamed"}`
		rec := doJSON(srv, http.MethodPut, "/update-user", body, session)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(srv, http.MethodGet, "/current-user", "", session)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Renamed")
	})

	t.Run("rejects a non-numeric id", func(t *testing.T) {
		rec := doJSON(srv, http.MethodPut, "/update-user", `{"userId":"abc"}`, session)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		rec := doJSON(srv, http.MethodPut, "/update-user", `{"userId":"1"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestApp(t, "secret")

	rec := doJSON(srv, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(srv, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	session := sessionCookieFrom(t, rec)

	rec = doJSON(srv, http.MethodPost, "/logout", "", session)
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := sessionCookieFrom(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
	assert.True(t, cleared.HttpOnly)
	assert.True(t, cleared.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cleared.SameSite)

	// the pre-logout token itself stays cryptographically valid until expiry;
	// only the client's copy is gone
	_, err := sec.VerifySession(session.Value, []byte("secret"))
	assert.NoError(t, err)

	t.Run("requires authentication", func(t *testing.T) {
		rec := doJSON(srv, http.MethodPost, "/logout", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
