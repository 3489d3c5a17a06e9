// Package session tracks the authenticated user across requests.  The
// session lives in a signed JWT cookie; when a Store is configured the
// token's id must also be registered there, which lets logout revoke it
// server-side.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/city-weather/internal/model"
	"github.com/iliyamo/city-weather/internal/utils"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

const userKey = "user"

// Store is a server-side registry of live session ids.
type Store interface {
	Save(ctx context.Context, id string, userID uint64, ttl time.Duration) error
	// Lookup returns the user id of a live session, or ok=false.
	Lookup(ctx context.Context, id string) (userID uint64, ok bool, err error)
	Delete(ctx context.Context, id string) error
}

// Manager issues, reads and clears session cookies.
type Manager struct {
	secret string
	ttl    time.Duration
	secure bool
	store  Store // nil means cookie-only sessions
}

// NewManager returns a Manager.  store may be nil.
func NewManager(secret string, ttl time.Duration, secure bool, store Store) *Manager {
	return &Manager{secret: secret, ttl: ttl, secure: secure, store: store}
}

// Login establishes a session for userID on the response.
func (m *Manager) Login(c echo.Context, userID uint64) error {
	tok, err := utils.NewSessionToken(m.secret, userID, m.ttl)
	if err != nil {
		return err
	}
	if m.store != nil {
		if err := m.store.Save(c.Request().Context(), tok.ID, userID, m.ttl); err != nil {
			return err
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout revokes the current session (if any) and expires the cookie.
func (m *Manager) Logout(c echo.Context) error {
	var err error
	if ck, cerr := c.Cookie(CookieName); cerr == nil && m.store != nil {
		if claims, perr := utils.ParseSessionToken(m.secret, ck.Value); perr == nil {
			err = m.store.Delete(c.Request().Context(), claims.ID)
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}

// Current returns the user id of the request's session.
func (m *Manager) Current(c echo.Context) (uint64, bool) {
	ck, err := c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return 0, false
	}
	claims, err := utils.ParseSessionToken(m.secret, ck.Value)
	if err != nil {
		return 0, false
	}
	if m.store != nil {
		uid, ok, err := m.store.Lookup(c.Request().Context(), claims.ID)
		if err != nil || !ok || uid != claims.UserID {
			return 0, false
		}
	}
	return claims.UserID, true
}

// SetUser records the authenticated user on the request context.
func SetUser(c echo.Context, u model.User) { c.Set(userKey, u) }

// UserFrom returns the authenticated user, if any.
func UserFrom(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok
}
