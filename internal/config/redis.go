package config

// This file defines the Redis settings and client constructor.  Redis backs
// the server-side session registry when SESSION_STORE=redis.  If the
// connection fails during startup the constructor returns nil and callers
// fall back to cookie-only sessions.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig is parsed with the rest of Config.  REDIS_HOST and REDIS_PORT
// win over REDIS_ADDR when both are set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"` // host:port shorthand
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD"`         // optional password
	DB       int    `env:"REDIS_DB" envDefault:"0"` // database number
	TLS      bool   `env:"REDIS_TLS"`               // "true" or "1" enables TLS
}

// Address returns host:port for the configured server.
func (r RedisConfig) Address() string {
	if r.Host != "" && r.Port != "" {
		return r.Host + ":" + r.Port
	}
	return r.Addr
}

// NewRedisClient instantiates a Redis client from rc.  The returned client
// may be nil if a connection cannot be established.
func NewRedisClient(rc RedisConfig) *redis.Client {
	client := redis.NewClient(redisOptions(rc))
	// Ping the server with a short timeout.  Return nil on failure.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

func redisOptions(rc RedisConfig) *redis.Options {
	var tlsConf *tls.Config
	if rc.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return &redis.Options{
		Addr:      rc.Address(),
		Password:  rc.Password,
		DB:        rc.DB,
		TLSConfig: tlsConf,
	}
}
