package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/city-weather/internal/forms"
	q "github.com/iliyamo/city-weather/internal/queue"
	"github.com/iliyamo/city-weather/internal/repository" // DB repositories
	"github.com/iliyamo/city-weather/internal/service"
	"github.com/iliyamo/city-weather/internal/session"
	"github.com/iliyamo/city-weather/internal/utils" // password verification
	"github.com/iliyamo/city-weather/internal/view"
)

// User-facing auth messages.
const (
	msgSignupOK           = "Signup successful! You are now logged in."
	msgLoginOK            = "Credentials valid and login successful!"
	msgInvalidCredentials = "Credentials invalid. Please review email and password."
	msgBadSubmission      = "Invalid form submission."
)

var (
	errEmailTaken = forms.FieldError{Field: "email", Label: "Email",
		Message: "Email already taken! Please use another email."}
	errUsernameTaken = forms.FieldError{Field: "username", Label: "Username",
		Message: "Username already taken! Please choose a different username."}
)

// AuthHandler bundles dependencies for the signup, login and logout pages.
type AuthHandler struct {
	Users      *repository.UserRepo
	Sessions   *session.Manager
	Flashes    *session.Flashes
	Events     service.Publisher
	Logger     *slog.Logger
	BcryptCost int

	dummyOnce sync.Once
	dummy     string // hash compared for unknown emails so every login pays bcrypt
}

func NewAuthHandler(u *repository.UserRepo, sm *session.Manager, fl *session.Flashes,
	events service.Publisher, logger *slog.Logger, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: u, Sessions: sm, Flashes: fl, Events: events, Logger: logger, BcryptCost: bcryptCost}
}

// SignupPage renders the empty signup form.
func (h *AuthHandler) SignupPage(c echo.Context) error {
	return render(c, h.Flashes, "signup", view.Page{Title: "Sign up"})
}

// Signup validates the form, checks that email and username are free,
// creates the user and signs them in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var f forms.SignupForm
	if err := c.Bind(&f); err != nil {
		return h.signupPage(c, f, []string{msgBadSubmission})
	}
	f.Normalize()
	if err := c.Validate(&f); err != nil {
		var fe forms.Errors
		if !errors.As(err, &fe) {
			return err
		}
		return h.signupPage(c, f, fe.Messages())
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	var taken forms.Errors
	emailTaken, err := h.Users.EmailExists(ctx, f.Email)
	if err != nil {
		h.Logger.ErrorContext(ctx, "signup: email lookup failed", "error", err)
		return echo.ErrInternalServerError
	}
	if emailTaken {
		taken = append(taken, errEmailTaken)
	}
	nameTaken, err := h.Users.UsernameExists(ctx, f.Username)
	if err != nil {
		h.Logger.ErrorContext(ctx, "signup: username lookup failed", "error", err)
		return echo.ErrInternalServerError
	}
	if nameTaken {
		taken = append(taken, errUsernameTaken)
	}
	if len(taken) > 0 {
		return h.signupPage(c, f, taken.Messages())
	}

	uid, err := h.Users.Create(ctx, f.Username, f.Email, f.Password, h.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrEmailExists): // lost a race with a concurrent signup
		return h.signupPage(c, f, forms.Errors{errEmailTaken}.Messages())
	case errors.Is(err, repository.ErrUsernameExists):
		return h.signupPage(c, f, forms.Errors{errUsernameTaken}.Messages())
	case err != nil:
		h.Logger.ErrorContext(ctx, "signup: create user failed", "error", err)
		return echo.ErrInternalServerError
	}

	if err := h.Sessions.Login(c, uid); err != nil {
		h.Logger.ErrorContext(ctx, "signup: session failed", "user_id", uid, "error", err)
		return echo.ErrInternalServerError
	}
	ev := q.NewActivityEvent(q.EventUserRegistered, uid)
	ev.Username = f.Username
	_ = h.Events.Publish(ctx, ev)

	h.Logger.InfoContext(ctx, "user registered", "user_id", uid)
	_ = h.Flashes.Add(c, session.FlashSuccess, msgSignupOK)
	return c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) signupPage(c echo.Context, f forms.SignupForm, errs []string) error {
	f.Password, f.ConfirmPassword = "", ""
	return render(c, h.Flashes, "signup", view.Page{Title: "Sign up", Form: f, Errors: errs})
}

// LoginPage renders the empty login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return render(c, h.Flashes, "login", view.Page{Title: "Login"})
}

// Login verifies the credentials and starts a session.  Unknown email, wrong
// password and inactive account all produce the same message.
func (h *AuthHandler) Login(c echo.Context) error {
	var f forms.LoginForm
	if err := c.Bind(&f); err != nil {
		return h.loginPage(c, f, []string{msgBadSubmission}, nil)
	}
	f.Normalize()
	if err := c.Validate(&f); err != nil {
		var fe forms.Errors
		if !errors.As(err, &fe) {
			return err
		}
		return h.loginPage(c, f, fe.Messages(), nil)
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, f.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		h.Logger.ErrorContext(ctx, "login: lookup failed", "error", err)
		return echo.ErrInternalServerError
	}
	hash := u.PasswordHash
	if err != nil {
		hash = h.dummyHash()
	}
	valid := utils.VerifyPassword(hash, f.Password)
	if err != nil || !u.IsActive || !valid {
		return h.loginPage(c, f, nil, []session.FlashMessage{{Category: session.FlashDanger, Text: msgInvalidCredentials}})
	}

	if err := h.Sessions.Login(c, u.ID); err != nil {
		h.Logger.ErrorContext(ctx, "login: session failed", "user_id", u.ID, "error", err)
		return echo.ErrInternalServerError
	}
	_ = h.Flashes.Add(c, session.FlashSuccess, msgLoginOK)
	return c.Redirect(http.StatusFound, "/")
}

// dummyHash returns a bcrypt hash at the configured cost that no submitted
// password matches.
func (h *AuthHandler) dummyHash() string {
	h.dummyOnce.Do(func() {
		h.dummy, _ = utils.HashPassword(uuid.NewString(), h.BcryptCost)
	})
	return h.dummy
}

func (h *AuthHandler) loginPage(c echo.Context, f forms.LoginForm, errs []string, now []session.FlashMessage) error {
	f.Password = ""
	return render(c, h.Flashes, "login", view.Page{Title: "Login", Form: f, Errors: errs, Flashes: now})
}

// Logout clears the session and returns to the landing page.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Sessions.Logout(c); err != nil {
		h.Logger.WarnContext(c.Request().Context(), "logout: revoke session failed", "error", err)
	}
	return c.Redirect(http.StatusFound, "/")
}
