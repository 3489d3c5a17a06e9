package router // package router defines how HTTP routes are registered for the app

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/city-weather/internal/handler"    // handlers that implement the pages and JSON routes
	"github.com/iliyamo/city-weather/internal/middleware" // session loading and login gates
	"github.com/iliyamo/city-weather/internal/session"
	"github.com/iliyamo/city-weather/internal/view"
)

// LoginPath is where anonymous visitors of protected routes are sent.
const LoginPath = "/login"

// Handlers groups everything RegisterAll wires onto the Echo instance.
type Handlers struct {
	Sessions  *session.Manager
	Users     middleware.UserLoader
	Health    *handler.HealthHandler
	Pages     *handler.PageHandler
	Auth      *handler.AuthHandler
	Weather   *handler.WeatherHandler
	Favorites *handler.FavoriteHandler

	SecureCookies bool // mark the CSRF cookie Secure (production)
}

// RegisterAll installs the session loader and every route.
func RegisterAll(e *echo.Echo, h Handlers) {
	// Resolve the session cookie once per request; gates below read the result.
	e.Use(middleware.LoadUser(h.Sessions, h.Users))

	csrf := middleware.CSRF(h.SecureCookies)
	RegisterRoutes(e, h.Health)
	RegisterAuth(e, h.Auth, csrf)
	RegisterApp(e, h.Pages, h.Weather, h.Favorites, csrf)
}

// RegisterRoutes registers routes that need no session: the health check,
// static assets and the landing page.
func RegisterRoutes(e *echo.Echo, health *handler.HealthHandler) {
	e.GET("/healthz", health.Health)
	e.StaticFS("/static", view.Static())
}

// RegisterAuth registers signup, login and logout.  Signed-in users are sent
// back to the landing page from the signup and login forms; csrf runs first
// so the token cookie is issued on every visit.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, csrf echo.MiddlewareFunc) {
	guest := middleware.RedirectIfAuthenticated("/")
	e.GET("/signup", a.SignupPage, csrf, guest)
	e.POST("/signup", a.Signup, csrf, guest)
	e.GET(LoginPath, a.LoginPage, csrf, guest)
	e.POST(LoginPath, a.Login, csrf, guest)

	e.GET("/logout", a.Logout)
}

// RegisterApp registers the pages and JSON endpoints.  Everything except the
// landing page requires a signed-in user.  The pages that run scripts.js
// carry the CSRF token the favorite endpoints check.
func RegisterApp(e *echo.Echo, p *handler.PageHandler, w *handler.WeatherHandler, f *handler.FavoriteHandler, csrf echo.MiddlewareFunc) {
	e.GET("/", p.Home)

	auth := middleware.RequireLogin(LoginPath)
	e.GET("/dashboard", p.Dashboard, auth, csrf)
	e.GET("/search", p.Search, auth, csrf)
	e.GET("/get_suggestions", w.Suggestions, auth)
	e.GET("/get_weather", w.Weather, auth)
	e.POST("/favorite", f.Add, auth, csrf)
	e.POST("/delete_favorite", f.Delete, auth, csrf)
}
