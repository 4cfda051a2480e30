package sec

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachSession(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	AttachSession(rec, "the-token")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]

	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "the-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, int(SessionTTL.Seconds()), cookie.MaxAge)
}

func TestReadSession(t *testing.T) {
	t.Parallel()

	t.Run("present", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "the-token"})

		token, ok := ReadSession(req)
		assert.True(t, ok)
		assert.Equal(t, "the-token", token)
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		_, ok := ReadSession(req)
		assert.False(t, ok)
	})

	t.Run("empty value", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Cookie", SessionCookieName+"=")

		_, ok := ReadSession(req)
		assert.False(t, ok)
	})
}

func TestClearSession(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ClearSession(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]

	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)

	// clear must carry the same attributes as attach or browsers keep the
	// cookie around
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
}
