package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	CacheMemory    = "memory"
	CacheRistretto = "ristretto"
	CacheRedis     = "redis"
	CacheNone      = "none"
)

type Config struct {
	ListenAddr string

	GeneratorURL          string
	GeneratorModel        string
	GeneratorTimeout      time.Duration
	GeneratorProbeTimeout time.Duration
	GeneratorMaxTokens    int
	GeneratorTemperature  float64

	EnhanceEnabled  bool
	EnhanceCount    int
	EnhanceMaxChars int

	CacheBackend  string
	CacheCapacity int
	RedisAddr     string

	RateLimitPerMinute int
}

// Default returns the configuration used when no environment overrides are set.
func Default() *Config {
	return &Config{
		ListenAddr:            ":8000",
		GeneratorURL:          "http://localhost:11434",
		GeneratorModel:        "llama3.2",
		GeneratorTimeout:      8 * time.Second,
		GeneratorProbeTimeout: 2 * time.Second,
		GeneratorMaxTokens:    120,
		GeneratorTemperature:  0.7,
		EnhanceEnabled:        true,
		EnhanceCount:          2,
		EnhanceMaxChars:       280,
		CacheBackend:          CacheMemory,
		CacheCapacity:         500,
		RedisAddr:             "localhost:6379",
		RateLimitPerMinute:    30,
	}
}

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env file: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from lookup, falling back to Default for unset keys.
func FromEnv(lookup func(string) string) (*Config, error) {
	cfg := Default()
	p := &parser{lookup: lookup}

	cfg.ListenAddr = p.str("LISTEN_ADDR", cfg.ListenAddr)
	cfg.GeneratorURL = strings.TrimRight(p.str("GENERATOR_URL", cfg.GeneratorURL), "/")
	cfg.GeneratorModel = p.str("GENERATOR_MODEL", cfg.GeneratorModel)
	cfg.GeneratorTimeout = p.duration("GENERATOR_TIMEOUT", cfg.GeneratorTimeout)
	cfg.GeneratorProbeTimeout = p.duration("GENERATOR_PROBE_TIMEOUT", cfg.GeneratorProbeTimeout)
	cfg.GeneratorMaxTokens = p.integer("GENERATOR_MAX_TOKENS", cfg.GeneratorMaxTokens)
	cfg.GeneratorTemperature = p.float("GENERATOR_TEMPERATURE", cfg.GeneratorTemperature)
	cfg.EnhanceEnabled = p.boolean("ENHANCE_ENABLED", cfg.EnhanceEnabled)
	cfg.EnhanceCount = p.integer("ENHANCE_COUNT", cfg.EnhanceCount)
	cfg.EnhanceMaxChars = p.integer("ENHANCE_MAX_CHARS", cfg.EnhanceMaxChars)
	cfg.CacheBackend = strings.ToLower(p.str("CACHE_BACKEND", cfg.CacheBackend))
	cfg.CacheCapacity = p.integer("CACHE_CAPACITY", cfg.CacheCapacity)
	cfg.RedisAddr = p.str("REDIS_ADDR", cfg.RedisAddr)
	cfg.RateLimitPerMinute = p.integer("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)

	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is within its allowed range.
func (c *Config) Validate() error {
	if c.GeneratorURL == "" {
		return errors.New("GENERATOR_URL must not be empty")
	}
	if c.GeneratorModel == "" {
		return errors.New("GENERATOR_MODEL must not be empty")
	}
	if c.GeneratorTimeout <= 0 || c.GeneratorProbeTimeout <= 0 {
		return errors.New("generator timeouts must be positive")
	}
	if c.GeneratorMaxTokens <= 0 {
		return errors.New("GENERATOR_MAX_TOKENS must be positive")
	}
	if c.EnhanceCount < 0 {
		return errors.New("ENHANCE_COUNT must not be negative")
	}
	if c.EnhanceMaxChars <= 0 {
		return errors.New("ENHANCE_MAX_CHARS must be positive")
	}
	if c.CacheCapacity <= 0 {
		return errors.New("CACHE_CAPACITY must be positive")
	}
	if c.RateLimitPerMinute < 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	switch c.CacheBackend {
	case CacheMemory, CacheRistretto, CacheRedis, CacheNone:
	default:
		return errors.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	return nil
}

// parser keeps the first conversion error so FromEnv can report it once.
type parser struct {
	lookup func(string) string
	err    error
}

func (p *parser) raw(key string) (string, bool) {
	v := strings.TrimSpace(p.lookup(key))
	return v, v != ""
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = errors.Wrapf(err, "invalid %s %q", key, value)
	}
}

func (p *parser) str(key, def string) string {
	if v, ok := p.raw(key); ok {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *parser) boolean(key string, def bool) bool {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return b
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}
