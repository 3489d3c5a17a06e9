package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // durations for session lifetime and outbound timeouts

	"github.com/caarlos0/env/v11" // struct-tag driven environment parsing
	"github.com/joho/godotenv"    // optional .env file for local development
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; defaults live in the envDefault tags.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development"` // application environment (development, test, production)
	Port string `env:"APP_PORT" envDefault:"8080"`       // HTTP port to listen on

	DBDriver string `env:"DB_DRIVER" envDefault:"mysql"` // mysql or sqlite
	DBUser   string `env:"DB_USER"`                      // database username
	DBPass   string `env:"DB_PASS"`                      // database password (optional)
	DBHost   string `env:"DB_HOST" envDefault:"localhost"`
	DBPort   string `env:"DB_PORT" envDefault:"3306"`
	DBName   string `env:"DB_NAME" envDefault:"city_weather"`
	DBPath   string `env:"DB_PATH" envDefault:"city_weather.db"` // sqlite file, only used with DB_DRIVER=sqlite

	SessionSecret string        `env:"SESSION_SECRET,required,notEmpty"`  // signs session tokens and flash cookies
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`      // lifetime of a login session
	SessionStore  string        `env:"SESSION_STORE" envDefault:"cookie"` // cookie or redis
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"12"`       // bcrypt cost for password hashing

	WeatherAPIKey  string        `env:"WEATHER_API_KEY"` // OpenWeather key; API_KEY is accepted as a fallback
	WeatherGeoURL  string        `env:"WEATHER_GEO_URL" envDefault:"https://api.openweathermap.org"`
	WeatherDataURL string        `env:"WEATHER_DATA_URL" envDefault:"https://api.openweathermap.org"`
	WeatherTimeout time.Duration `env:"WEATHER_TIMEOUT" envDefault:"10s"`

	Redis RedisConfig // only dialed when SESSION_STORE=redis

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	RabbitMQURL string `env:"RABBITMQ_URL"` // empty disables activity events
}

// Load reads .env (when present) and the environment and returns a Config.
// Missing required values cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // a missing .env file is fine; real env vars win
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Parse builds a Config from the current environment without touching .env.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.WeatherAPIKey == "" {
		cfg.WeatherAPIKey = os.Getenv("API_KEY")
	}
	if cfg.WeatherAPIKey == "" {
		return Config{}, errors.New("missing required env var: WEATHER_API_KEY")
	}
	switch cfg.DBDriver {
	case "mysql":
		if cfg.DBUser == "" {
			return Config{}, errors.New("missing required env var: DB_USER")
		}
	case "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	switch cfg.SessionStore {
	case "cookie", "redis":
	default:
		return Config{}, fmt.Errorf("unsupported SESSION_STORE %q", cfg.SessionStore)
	}
	return cfg, nil
}

// IsProduction reports whether cookies should be marked Secure and logs emitted as JSON.
func (c Config) IsProduction() bool { return c.Env == "production" }

// DatabaseDSN returns the data source name for the configured driver.
func (c Config) DatabaseDSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBPath
	}
	auth := c.DBUser
	if c.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", c.DBUser, c.DBPass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, c.DBHost, c.DBPort, c.DBName)
}

// ConsumerConfig configures the activity consumer binary.
type ConsumerConfig struct {
	Env             string `env:"APP_ENV" envDefault:"development"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	RabbitMQURL     string `env:"RABBITMQ_URL,required,notEmpty"`
	ActivityLogPath string `env:"ACTIVITY_LOG_PATH" envDefault:"logs/activity.log"`
}

// LoadConsumer is Load for the activity consumer.
func LoadConsumer() ConsumerConfig {
	_ = godotenv.Load()
	var cfg ConsumerConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
