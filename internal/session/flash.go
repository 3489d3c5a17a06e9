package session

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const flashCookie = "flash"

// Flash categories, rendered as alert styles.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashDanger  = "danger"
)

var flashOrder = []string{FlashSuccess, FlashInfo, FlashDanger}

// FlashMessage is a one-shot message shown on the next rendered page.
type FlashMessage struct {
	Category string
	Text     string
}

// Flashes stores one-shot messages in a signed cookie.
type Flashes struct {
	store *sessions.CookieStore
}

// NewFlashes returns a flash store signing cookies with secret.
func NewFlashes(secret string, secure bool) *Flashes {
	st := sessions.NewCookieStore([]byte(secret))
	st.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flashes{store: st}
}

// Add queues a message for the next page render.
func (f *Flashes) Add(c echo.Context, category, text string) error {
	s, _ := f.store.Get(c.Request(), flashCookie) // a tampered cookie yields a fresh session
	s.AddFlash(text, category)
	return s.Save(c.Request(), c.Response())
}

// Pop returns and clears the queued messages.
func (f *Flashes) Pop(c echo.Context) []FlashMessage {
	s, err := f.store.Get(c.Request(), flashCookie)
	if err != nil || s.IsNew {
		return nil
	}
	var out []FlashMessage
	for _, cat := range flashOrder {
		for _, v := range s.Flashes(cat) {
			if text, ok := v.(string); ok {
				out = append(out, FlashMessage{Category: cat, Text: text})
			}
		}
	}
	if len(out) > 0 {
		_ = s.Save(c.Request(), c.Response())
	}
	return out
}
