package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App   AppConfig
	Menu  MenuConfig
	Redis RedisConfig
	Quote QuoteConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARBONMENU_APP_ENV" required:"true"`
	Port         string `envconfig:"CARBONMENU_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CARBONMENU_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARBONMENU_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// MenuConfig locates the serialized catalog snapshot the engine serves.
type MenuConfig struct {
	Path    string `envconfig:"CARBONMENU_MENU_PATH" required:"true"`
	Version string `envconfig:"CARBONMENU_MENU_VERSION" default:"unversioned"`
}

type RedisConfig struct {
	Enabled      bool          `envconfig:"CARBONMENU_REDIS_ENABLED" default:"false"`
	URL          string        `envconfig:"CARBONMENU_REDIS_URL"`
	Address      string        `envconfig:"CARBONMENU_REDIS_ADDR"`
	Password     string        `envconfig:"CARBONMENU_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARBONMENU_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARBONMENU_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARBONMENU_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARBONMENU_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARBONMENU_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARBONMENU_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// QuoteConfig tunes quote caching. Quotes are safe to cache because
// resolution is deterministic for a given snapshot, request and clock minute.
type QuoteConfig struct {
	CacheTTL time.Duration `envconfig:"CARBONMENU_QUOTE_CACHE_TTL" default:"60s"`
}
