package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/city-weather/internal/model"
	"github.com/iliyamo/city-weather/internal/session"
)

type fakeUsers map[uint64]model.User

func (f fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f[id]
	if !ok {
		return model.User{}, errors.New("not found")
	}
	return u, nil
}

// loginCookie issues a session cookie for uid.
func loginCookie(t *testing.T, e *echo.Echo, sm *session.Manager, uid uint64) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, sm.Login(c, uid))
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func newServer(sm *session.Manager, users UserLoader) *echo.Echo {
	e := echo.New()
	e.Use(LoadUser(sm, users))
	e.GET("/private", func(c echo.Context) error {
		u, _ := session.UserFrom(c)
		return c.String(http.StatusOK, "hello "+u.Username)
	}, RequireLogin("/login"))
	e.GET("/login", func(c echo.Context) error {
		return c.String(http.StatusOK, "login form")
	}, RedirectIfAuthenticated("/"))
	return e
}

func do(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireLogin(t *testing.T) {
	sm := session.NewManager("secret", time.Hour, false, nil)
	users := fakeUsers{1: {ID: 1, Username: "alice", IsActive: true}, 2: {ID: 2, Username: "ghost", IsActive: false}}
	e := newServer(sm, users)

	rec := do(e, "/private")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	rec = do(e, "/private", loginCookie(t, e, sm, 1))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello alice", rec.Body.String())

	// inactive and unknown users are treated as anonymous
	rec = do(e, "/private", loginCookie(t, e, sm, 2))
	assert.Equal(t, http.StatusFound, rec.Code)
	rec = do(e, "/private", loginCookie(t, e, sm, 3))
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	sm := session.NewManager("secret", time.Hour, false, nil)
	e := newServer(sm, fakeUsers{1: {ID: 1, Username: "alice", IsActive: true}})

	rec := do(e, "/login")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, "/login", loginCookie(t, e, sm, 1))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/boom", func(c echo.Context) error { return errors.New("kaput") })

	do(e, "/ok")
	do(e, "/boom")

	out := buf.String()
	assert.Contains(t, out, "path=/ok")
	assert.Contains(t, out, "status=204")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "error=kaput")
	assert.Contains(t, out, "status=500")
}
