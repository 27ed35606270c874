package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WORLDREPORTS_DATABASE_DRIVER", "memory")

	cfg, err := Load("worldreports-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.Server.Port)
	}
	if cfg.Database.ConnectRetries != 15 {
		t.Errorf("expected 15 connect retries, got %d", cfg.Database.ConnectRetries)
	}
	if cfg.Database.ConnectRetryDelay != 5*time.Second {
		t.Errorf("expected 5s retry delay, got %s", cfg.Database.ConnectRetryDelay)
	}
	if cfg.Console.PageSize != 20 {
		t.Errorf("expected page size 20, got %d", cfg.Console.PageSize)
	}
	if cfg.Telemetry.ServiceName != "worldreports-test" {
		t.Errorf("expected service name from argument, got %s", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WORLDREPORTS_DATABASE_DRIVER", "sqlite")
	t.Setenv("WORLDREPORTS_DATABASE_PATH", "/tmp/world.db")
	t.Setenv("WORLDREPORTS_SERVER_PORT", "9000")

	cfg, err := Load("worldreports-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if got := cfg.Database.DSN(); !strings.HasPrefix(got, "file:/tmp/world.db") {
		t.Errorf("unexpected sqlite dsn %q", got)
	}
	if got := cfg.Database.DSN(); !strings.Contains(got, "mode=ro") {
		t.Errorf("reader dsn should be read-only: %q", got)
	}
	if got := cfg.Database.WritableDSN(); strings.Contains(got, "mode=ro") {
		t.Errorf("writable dsn is read-only: %q", got)
	}
}

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 8081, ReadTimeout: 10, WriteTimeout: 10, RequestTimeout: 30},
		Database: DatabaseConfig{Driver: DriverPostgres, Host: "localhost", Port: 5432, User: "world", DBName: "world", MaxConns: 5, ConnectRetries: 1},
		Console:  ConsoleConfig{PageSize: 20, MaxAttempts: 3},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, "database.driver"},
		{"mysql needs host", func(c *Config) { c.Database.Driver = DriverMySQL; c.Database.Host = "" }, "database.host"},
		{"memory needs no host", func(c *Config) { c.Database.Driver = DriverMemory; c.Database.Host = "" }, ""},
		{"nats enabled without url", func(c *Config) { c.NATS.Enabled = true }, "nats.url"},
		{"zero retries", func(c *Config) { c.Database.ConnectRetries = 0 }, "connect_retries"},
		{"page size", func(c *Config) { c.Console.PageSize = 0 }, "console.page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = -1
	cfg.Database.User = ""
	cfg.Console.MaxAttempts = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"server.port", "database.user", "console.max_attempts"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}
