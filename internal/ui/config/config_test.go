package config

import (
	"os"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, name := range []string{
		"ENVIRONMENT", "HOST", "PORT", "LOG_LEVEL", "READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT",
		"API_BASE_URL", "CONTACT_MAX_UPLOAD_BYTES", "CONTACT_RATE_LIMIT", "CONTACT_RATE_BURST",
	} {
		// register the restore with Setenv, then remove the variable so the defaults apply
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Errorf("APIBaseURL = %q, want http://localhost:8080", cfg.APIBaseURL)
	}
	if cfg.Environment != "dev" {
		t.Errorf("Environment = %q, want dev", cfg.Environment)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %v, want 15s", cfg.ReadTimeout)
	}
	if cfg.ContactMaxUploadBytes != 10<<20 {
		t.Errorf("ContactMaxUploadBytes = %d, want %d", cfg.ContactMaxUploadBytes, 10<<20)
	}
}

func TestNewConfigFromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.emasmetal.example")
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("PORT", "8081")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if cfg.APIBaseURL != "https://api.emasmetal.example" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.Environment != "prod" || cfg.Port != 8081 {
		t.Errorf("Environment/Port = %q/%d", cfg.Environment, cfg.Port)
	}
}

func TestValidateConfig(t *testing.T) {
	valid := func() Config {
		return Config{
			Environment:           "dev",
			Port:                  3000,
			ReadTimeout:           time.Second,
			WriteTimeout:          time.Second,
			IdleTimeout:           time.Second,
			APIBaseURL:            "http://localhost:8080",
			ContactMaxUploadBytes: 1024,
		}
	}

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "valid", modify: func(c *Config) {}, wantErr: false},
		{name: "bad environment", modify: func(c *Config) { c.Environment = "qa" }, wantErr: true},
		{name: "port zero", modify: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "port too large", modify: func(c *Config) { c.Port = 70000 }, wantErr: true},
		{name: "negative read timeout", modify: func(c *Config) { c.ReadTimeout = -time.Second }, wantErr: true},
		{name: "empty base url", modify: func(c *Config) { c.APIBaseURL = "" }, wantErr: true},
		{name: "relative base url", modify: func(c *Config) { c.APIBaseURL = "/api" }, wantErr: true},
		{name: "non http base url", modify: func(c *Config) { c.APIBaseURL = "ftp://files.example" }, wantErr: true},
		{name: "zero upload limit", modify: func(c *Config) { c.ContactMaxUploadBytes = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := validateConfig(&cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
