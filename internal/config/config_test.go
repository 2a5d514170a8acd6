package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 60*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.Gateway.FailureRate != 0.1 {
		t.Errorf("FailureRate = %v, want 0.1", cfg.Gateway.FailureRate)
	}
	if !cfg.IsDevelopment() {
		t.Error("empty FRONTEND_URL should be development mode")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GATEWAY_FAILURE_RATE", "0.5")
	t.Setenv("GATEWAY_MIN_LATENCY_MS", "0")
	t.Setenv("GATEWAY_MAX_LATENCY_MS", "0")
	t.Setenv("TRANSCRIPT_LOG_ENABLED", "false")
	t.Setenv("FRONTEND_URL", "https://bank.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Gateway.FailureRate != 0.5 {
		t.Errorf("FailureRate = %v", cfg.Gateway.FailureRate)
	}
	if cfg.Gateway.MaxLatency != 0 {
		t.Errorf("MaxLatency = %v", cfg.Gateway.MaxLatency)
	}
	if cfg.TranscriptLog.Enabled {
		t.Error("TRANSCRIPT_LOG_ENABLED=false ignored")
	}
	if cfg.IsDevelopment() {
		t.Error("production FRONTEND_URL reported as development")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty port", mutate: func(c *Config) { c.Port = "" }},
		{name: "empty db path", mutate: func(c *Config) { c.DBPath = "" }},
		{name: "negative failure rate", mutate: func(c *Config) { c.Gateway.FailureRate = -0.1 }},
		{name: "failure rate above one", mutate: func(c *Config) { c.Gateway.FailureRate = 1.5 }},
		{name: "max latency below min", mutate: func(c *Config) {
			c.Gateway.MinLatency = time.Second
			c.Gateway.MaxLatency = time.Millisecond
		}},
		{name: "zero queue size", mutate: func(c *Config) { c.TranscriptLog.QueueSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}
