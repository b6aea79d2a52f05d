package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching will be disabled.
// Methods lists the HTTP methods to cache (e.g. GET, HEAD).  TTL defines the
// lifetime of cache entries and therefore how long an admin edit may take to
// show up on the public site.
type CacheConfig struct {
	Enabled      bool            `env:"CACHE_ENABLED" envDefault:"true"`
	Methods      map[string]bool
	RawMethods   []string        `env:"CACHE_METHODS" envDefault:"GET" envSeparator:","`
	TTL          time.Duration   `env:"CACHE_TTL" envDefault:"30s"`
	KeyStrategy  string          `env:"CACHE_KEY_STRATEGY" envDefault:"route_query"`
	Prefix       string          `env:"CACHE_PREFIX" envDefault:"cache"`
	MaxBodyBytes int             `env:"CACHE_MAX_BODY_BYTES" envDefault:"1048576"`
}

// LoadCacheConfig reads environment variables to build a CacheConfig.  Defaults
// are used when variables are not set.  All methods are upper-cased.
func LoadCacheConfig() CacheConfig {
	var cfg CacheConfig
	_ = env.Parse(&cfg)
	cfg.Methods = parseMethods(cfg.RawMethods)
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return cfg
}

func parseMethods(raw []string) map[string]bool {
	m := map[string]bool{}
	for _, p := range raw {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
