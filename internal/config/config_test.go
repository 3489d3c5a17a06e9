package config

import (
	"os"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"REDIS_ADDR", "REDIS_HOST", "REDIS_PORT", "REDIS_DB", "REDIS_TLS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("WEATHER_API_KEY", "key")
	t.Setenv("DB_USER", "app")
}

func TestParse_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "cookie", cfg.SessionStore)
	assert.Equal(t, 10*time.Second, cfg.WeatherTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestParse_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("WEATHER_API_KEY", "key")
	t.Setenv("DB_USER", "app")

	_, err := Parse()
	require.Error(t, err)
}

func TestParse_APIKeyFallback(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("WEATHER_API_KEY", "")
	t.Setenv("API_KEY", "legacy")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.WeatherAPIKey)
}

func TestParse_MissingAPIKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("WEATHER_API_KEY", "")
	t.Setenv("API_KEY", "")

	_, err := Parse()
	require.ErrorContains(t, err, "WEATHER_API_KEY")
}

func TestParse_SqliteDoesNotNeedDBUser(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_USER", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/x.db")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DatabaseDSN())
}

func TestParse_RejectsUnknownDriver(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Parse()
	require.Error(t, err)
}

func TestDatabaseDSN_MySQL(t *testing.T) {
	cfg := Config{DBDriver: "mysql", DBUser: "app", DBPass: "pw", DBHost: "db", DBPort: "3306", DBName: "weather"}
	assert.Equal(t, "app:pw@tcp(db:3306)/weather?charset=utf8mb4&parseTime=true&loc=UTC", cfg.DatabaseDSN())

	cfg.DBPass = ""
	assert.Equal(t, "app@tcp(db:3306)/weather?charset=utf8mb4&parseTime=true&loc=UTC", cfg.DatabaseDSN())
}

func TestRedisConfig(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_TLS", "1")

	cfg, err := Parse()
	require.NoError(t, err)
	opts := redisOptions(cfg.Redis)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.NotNil(t, opts.TLSConfig)

	t.Setenv("REDIS_HOST", "h")
	t.Setenv("REDIS_PORT", "1")
	cfg, err = Parse()
	require.NoError(t, err)
	assert.Equal(t, "h:1", cfg.Redis.Address())
}

func TestRedisConfig_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)
	opts := redisOptions(cfg.Redis)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Zero(t, opts.DB)
	assert.Nil(t, opts.TLSConfig)
}

func TestRedisConfig_RejectsInvalidValues(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REDIS_DB", "two")
	_, err := Parse()
	require.ErrorContains(t, err, `"two"`)

	t.Setenv("REDIS_DB", "1")
	t.Setenv("REDIS_TLS", "maybe")
	_, err = Parse()
	require.ErrorContains(t, err, `"maybe"`)
}

func TestConsumerConfig(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "amqp://guest:guest@mq:5672/")
	t.Setenv("ACTIVITY_LOG_PATH", "")
	require.NoError(t, os.Unsetenv("ACTIVITY_LOG_PATH"))

	var cfg ConsumerConfig
	require.NoError(t, env.Parse(&cfg))
	assert.Equal(t, "logs/activity.log", cfg.ActivityLogPath)

	t.Setenv("RABBITMQ_URL", "")
	assert.Error(t, env.Parse(&ConsumerConfig{}))
}
