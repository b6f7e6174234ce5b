package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_PageSizeOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultPageSize = 500
	cfg.Search.MaxPageSize = 200

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when default page size exceeds max")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Database.KeyPrefix != "ls:" {
		t.Errorf("expected key prefix ls:, got %q", cfg.Database.KeyPrefix)
	}
	if cfg.Search.DefaultPageSize != 50 {
		t.Errorf("expected default page size 50, got %d", cfg.Search.DefaultPageSize)
	}
	if cfg.Search.MaxPageSize != 200 {
		t.Errorf("expected max page size 200, got %d", cfg.Search.MaxPageSize)
	}
	if cfg.Search.ResultTTLSec != 600 {
		t.Errorf("expected result ttl 600s, got %d", cfg.Search.ResultTTLSec)
	}
	if cfg.Cache.MaxEntries != 1000 {
		t.Errorf("expected cache max entries 1000, got %d", cfg.Cache.MaxEntries)
	}
	if cfg.Cache.MaxBytes != 64<<20 {
		t.Errorf("expected cache max bytes 64MB, got %d", cfg.Cache.MaxBytes)
	}
	if cfg.Quality.SampleCap != 1000 {
		t.Errorf("expected sample cap 1000, got %d", cfg.Quality.SampleCap)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultPageSize = 25
	cfg.Cache.MaxEntries = 10

	cfg.ApplyDefaults()

	if cfg.Search.DefaultPageSize != 25 {
		t.Errorf("explicit page size overwritten: %d", cfg.Search.DefaultPageSize)
	}
	if cfg.Cache.MaxEntries != 10 {
		t.Errorf("explicit cache cap overwritten: %d", cfg.Cache.MaxEntries)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LS_TEST_ADDR", "redis-1:6379")

	in := []byte("addrs:\n  - ${LS_TEST_ADDR}\npassword: ${LS_TEST_MISSING:-secret}\n")
	out := string(expandEnvVars(in))

	if out != "addrs:\n  - redis-1:6379\npassword: secret\n" {
		t.Errorf("unexpected expansion:\n%s", out)
	}
}

func TestExpandEnvVars_EmptyWithoutDefault(t *testing.T) {
	out := string(expandEnvVars([]byte("password: ${LS_TEST_UNSET}\n")))
	if out != "password: \n" {
		t.Errorf("unexpected expansion: %q", out)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	raw := []byte(`
http:
  port: 9090
database:
  addrs:
    - localhost:6379
search:
  default_page_size: 20
logging:
  level: warn
`)
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), raw, 0o600); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Search.DefaultPageSize != 20 {
		t.Errorf("expected page size 20, got %d", cfg.Search.DefaultPageSize)
	}
	// Defaults fill unset sections.
	if cfg.Search.MaxPageSize != 200 {
		t.Errorf("expected default max page size 200, got %d", cfg.Search.MaxPageSize)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %q", cfg.Logging.Level)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if env := GetEnv(); env != "local" {
		t.Errorf("expected local, got %q", env)
	}

	t.Setenv("ENV", "prod")
	if env := GetEnv(); env != "prod" {
		t.Errorf("expected prod, got %q", env)
	}
}
