package main // Entry point package

import (
	"context"
	"errors"
	"log" // startup failures
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/city-weather/internal/config" // Internal config loader
	"github.com/iliyamo/city-weather/internal/database"
	"github.com/iliyamo/city-weather/internal/forms"
	"github.com/iliyamo/city-weather/internal/handler"
	"github.com/iliyamo/city-weather/internal/logging"
	"github.com/iliyamo/city-weather/internal/middleware"
	"github.com/iliyamo/city-weather/internal/repository"
	"github.com/iliyamo/city-weather/internal/router" // Internal router setup
	"github.com/iliyamo/city-weather/internal/service"
	"github.com/iliyamo/city-weather/internal/session"
	"github.com/iliyamo/city-weather/internal/view"
	"github.com/iliyamo/city-weather/internal/weather"
)

func main() {
	cfg := config.Load() // Load environment config
	logger := logging.New(os.Stdout, cfg.Env, cfg.LogLevel)

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(migrateCtx, db, cfg.DBDriver)
	cancelMigrate()
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Optional server-side session registry.
	var (
		store session.Store
		rdb   *redis.Client
	)
	if cfg.SessionStore == "redis" {
		if rdb = config.NewRedisClient(cfg.Redis); rdb != nil {
			store = session.NewRedisStore(rdb)
			defer rdb.Close()
		} else {
			logger.Warn("redis unreachable; using cookie-only sessions")
		}
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	sm := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction(), store)
	flashes := session.NewFlashes(cfg.SessionSecret, cfg.IsProduction())
	events := service.NewPublisher(cfg.RabbitMQURL, logger)
	users := repository.NewUserRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	client := weather.NewClient(cfg.WeatherGeoURL, cfg.WeatherDataURL, cfg.WeatherAPIKey, cfg.WeatherTimeout)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Validator = forms.New()
	e.Renderer = renderer
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	router.RegisterAll(e, router.Handlers{
		Sessions:  sm,
		Users:     users,
		Health:    handler.NewHealthHandler(db, rdb),
		Pages:     handler.NewPageHandler(favorites, flashes, logger),
		Auth:      handler.NewAuthHandler(users, sm, flashes, events, logger, cfg.BcryptCost),
		Weather:   handler.NewWeatherHandler(client, logger),
		Favorites: handler.NewFavoriteHandler(favorites, events, logger),

		SecureCookies: cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port // Address string with port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env, "db", cfg.DBDriver, "sessions", cfg.SessionStore)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
