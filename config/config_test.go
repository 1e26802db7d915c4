package config

import (
	"testing"
	"time"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.EnhanceCount != 2 {
		t.Errorf("expected default enhance count 2, got %d", cfg.EnhanceCount)
	}
	if cfg.CacheBackend != CacheMemory {
		t.Errorf("expected memory cache, got %s", cfg.CacheBackend)
	}
	if cfg.GeneratorTimeout != 8*time.Second {
		t.Errorf("expected 8s timeout, got %s", cfg.GeneratorTimeout)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"GENERATOR_URL":     "http://llm:11434/",
		"GENERATOR_MODEL":   "mistral",
		"GENERATOR_TIMEOUT": "3s",
		"ENHANCE_COUNT":     "4",
		"ENHANCE_ENABLED":   "false",
		"CACHE_BACKEND":     "Redis",
		"CACHE_CAPACITY":    "10",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GeneratorURL != "http://llm:11434" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.GeneratorURL)
	}
	if cfg.GeneratorModel != "mistral" {
		t.Errorf("expected mistral, got %s", cfg.GeneratorModel)
	}
	if cfg.GeneratorTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %s", cfg.GeneratorTimeout)
	}
	if cfg.EnhanceCount != 4 || cfg.EnhanceEnabled {
		t.Errorf("unexpected enhancement settings: %+v", cfg)
	}
	if cfg.CacheBackend != CacheRedis || cfg.CacheCapacity != 10 {
		t.Errorf("unexpected cache settings: %s/%d", cfg.CacheBackend, cfg.CacheCapacity)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"bad duration", map[string]string{"GENERATOR_TIMEOUT": "soon"}},
		{"bad integer", map[string]string{"ENHANCE_COUNT": "two"}},
		{"negative count", map[string]string{"ENHANCE_COUNT": "-1"}},
		{"zero capacity", map[string]string{"CACHE_CAPACITY": "0"}},
		{"unknown backend", map[string]string{"CACHE_BACKEND": "memcached"}},
		{"bad bool", map[string]string{"ENHANCE_ENABLED": "maybe"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := FromEnv(envFrom(c.env)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}
