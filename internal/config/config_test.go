package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "iotlogic" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.MaxRequestsPerMinute != 60 {
		t.Errorf("MaxRequestsPerMinute = %d", cfg.MaxRequestsPerMinute)
	}
	if cfg.TankMaxDepth != 200 {
		t.Errorf("TankMaxDepth = %d", cfg.TankMaxDepth)
	}
	if cfg.Location == nil || cfg.Location.String() != "Asia/Kolkata" {
		t.Errorf("Location = %v", cfg.Location)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			APIKey:               "k",
			MaxRequestsPerMinute: 60,
			TankMaxDepth:         200,
			RateLimitBackend:     "memory",
			Location:             time.UTC,
		}
	}

	if err := base().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty api key", func(c *Config) { c.APIKey = "" }},
		{"zero rate limit", func(c *Config) { c.MaxRequestsPerMinute = 0 }},
		{"zero max depth", func(c *Config) { c.TankMaxDepth = 0 }},
		{"unknown backend", func(c *Config) { c.RateLimitBackend = "carrier-pigeon" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
