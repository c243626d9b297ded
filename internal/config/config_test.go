package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:             8080,
		ShutdownTimeout:  15 * time.Second,
		LogLevel:         "info",
		LogFormat:        "text",
		DefaultTolerance: 1000,
		MaxMembers:       100,
		MaxTransactions:  10000,
		MetricsPath:      "/metrics",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero tolerance disables rounding",
			modify:  func(c *Config) { c.DefaultTolerance = 0 },
			wantErr: false,
		},
		{
			name:        "invalid port - out of range low",
			modify:      func(c *Config) { c.Port = 0 },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			modify:      func(c *Config) { c.Port = 70000 },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid log level",
			modify:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "invalid log format",
			modify:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "negative tolerance",
			modify:      func(c *Config) { c.DefaultTolerance = -5 },
			wantErr:     true,
			errorString: "invalid default tolerance -5: must not be negative",
		},
		{
			name:        "no members allowed",
			modify:      func(c *Config) { c.MaxMembers = 0 },
			wantErr:     true,
			errorString: "invalid max members 0: must be at least 1",
		},
		{
			name:        "no transactions allowed",
			modify:      func(c *Config) { c.MaxTransactions = 0 },
			wantErr:     true,
			errorString: "invalid max transactions 0: must be at least 1",
		},
		{
			name:        "relative metrics path",
			modify:      func(c *Config) { c.MetricsPath = "metrics" },
			wantErr:     true,
			errorString: "invalid metrics path 'metrics': must start with /",
		},
		{
			name:        "shutdown timeout too short",
			modify:      func(c *Config) { c.ShutdownTimeout = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid shutdown timeout 10ms: must be at least 1 second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCombinesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = 0
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 2 {
		t.Errorf("expected 2 problems, got %d in %q", got, err.Error())
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DEFAULT_TOLERANCE", "500")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("MAX_MEMBERS", "not-a-number")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.DefaultTolerance != 500 {
		t.Errorf("DefaultTolerance = %d, want 500", cfg.DefaultTolerance)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 3s", cfg.ShutdownTimeout)
	}
	if cfg.MaxMembers != 100 {
		t.Errorf("MaxMembers = %d, want default 100", cfg.MaxMembers)
	}
	if cfg.MetricsPath != "/metrics" {
		t.Errorf("MetricsPath = %q, want /metrics", cfg.MetricsPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
