package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config agrupa todo lo que el servicio lee del entorno.
// Los defaults sirven para levantar en local sin nada configurado:
// remote store + cache + blobs en memoria y auth en modo dev.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"pet-tracker"`

	Port         string        `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`

	// DB_DSN vacío => remote store in-memory.
	DBDSN string `env:"DB_DSN"`

	// CACHE_DRIVER=memory|sqlite
	CacheDriver string `env:"CACHE_DRIVER" envDefault:"memory"`
	CachePath   string `env:"CACHE_PATH" envDefault:"pet-tracker-cache.db"`

	// BLOB_DRIVER=memory|filesystem|http
	BlobDriver  string        `env:"BLOB_DRIVER" envDefault:"memory"`
	BlobDir     string        `env:"BLOB_DIR" envDefault:"blobs"`
	BlobBaseURL string        `env:"BLOB_BASE_URL" envDefault:"http://localhost:8080/blobs"`
	BlobAPIKey  string        `env:"BLOB_API_KEY"`
	BlobTimeout time.Duration `env:"BLOB_TIMEOUT" envDefault:"10s"`

	// AUTH_MODE=dev|jwt|remote
	AuthMode    string        `env:"AUTH_MODE" envDefault:"dev"`
	JWTSecret   string        `env:"JWT_SECRET"`
	JWTIssuer   string        `env:"JWT_ISSUER"`
	AuthBaseURL string        `env:"AUTH_BASE_URL"`
	AuthAPIKey  string        `env:"AUTH_API_KEY"`
	AuthTimeout time.Duration `env:"AUTH_TIMEOUT" envDefault:"5s"`

	// Cada cuántas interacciones se sugiere un intersticial (0 = nunca).
	InterstitialEvery   int           `env:"INTERSTITIAL_EVERY" envDefault:"5"`
	InterstitialIdleTTL time.Duration `env:"INTERSTITIAL_IDLE_TTL" envDefault:"30m"`

	// plans-features (opcional): usuarios con "ads:free" no ven intersticiales.
	PlansBaseURL  string        `env:"PLANS_BASE_URL"`
	PlansAPIKey   string        `env:"PLANS_API_KEY"`
	PlansCacheTTL time.Duration `env:"PLANS_CACHE_TTL" envDefault:"5m"`

	// OTEL_ENDPOINT vacío => tracing deshabilitado.
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load parsea el entorno y valida combinaciones que no tienen sentido.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.CacheDriver = strings.ToLower(strings.TrimSpace(cfg.CacheDriver))
	cfg.BlobDriver = strings.ToLower(strings.TrimSpace(cfg.BlobDriver))
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(cfg.AuthMode))

	switch cfg.CacheDriver {
	case "memory", "sqlite":
	default:
		return Config{}, fmt.Errorf("unknown CACHE_DRIVER %q", cfg.CacheDriver)
	}

	switch cfg.BlobDriver {
	case "memory", "filesystem":
	case "http":
		if strings.TrimSpace(cfg.BlobBaseURL) == "" {
			return Config{}, fmt.Errorf("BLOB_BASE_URL is required for BLOB_DRIVER=http")
		}
	default:
		return Config{}, fmt.Errorf("unknown BLOB_DRIVER %q", cfg.BlobDriver)
	}

	switch cfg.AuthMode {
	case "dev":
	case "jwt":
		if strings.TrimSpace(cfg.JWTSecret) == "" {
			return Config{}, fmt.Errorf("JWT_SECRET is required for AUTH_MODE=jwt")
		}
	case "remote":
		if strings.TrimSpace(cfg.AuthBaseURL) == "" || strings.TrimSpace(cfg.AuthAPIKey) == "" {
			return Config{}, fmt.Errorf("AUTH_BASE_URL and AUTH_API_KEY are required for AUTH_MODE=remote")
		}
	default:
		return Config{}, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
	}

	if cfg.InterstitialEvery < 0 {
		cfg.InterstitialEvery = 0
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}
