package config_test

import (
	"testing"
	"time"

	"github.com/writeflow/authsvc/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    14 * 24 * time.Hour,
	}
}

func TestValidateAcceptsSaneConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing access secret", func(c *config.Config) { c.AccessSecret = "" }},
		{"missing refresh secret", func(c *config.Config) { c.RefreshSecret = "" }},
		{"shared secret", func(c *config.Config) { c.RefreshSecret = c.AccessSecret }},
		{"zero access ttl", func(c *config.Config) { c.AccessTTL = 0 }},
		{"access outlives refresh", func(c *config.Config) { c.AccessTTL = 30 * 24 * time.Hour }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	if cfg.Env == "" {
		t.Fatal("env should default")
	}
	if cfg.AccessTTL >= cfg.RefreshTTL {
		t.Fatal("default access ttl should be far shorter than refresh ttl")
	}
	if cfg.BcryptCost <= 0 {
		t.Fatal("bcrypt cost should default to a positive value")
	}
}
