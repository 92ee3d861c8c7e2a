package config

import (
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_ENV", "APP_HOST", "APP_PORT", "LOG_FILTER"} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Env != EnvDevelopment || cfg.Host != "127.0.0.1" || cfg.Port != 3000 || cfg.LogFilter != "info" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Addr() != "127.0.0.1:3000" {
		t.Fatalf("addr = %s", cfg.Addr())
	}
}

func TestExplicitValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "uat")
	t.Setenv("APP_HOST", "0.0.0.0")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("LOG_FILTER", "debug")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Env != EnvUAT || cfg.Host != "0.0.0.0" || cfg.Port != 8080 || cfg.LogFilter != "debug" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestProductionRequiresPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "APP_PORT") {
		t.Fatalf("err = %v, want missing-port error", err)
	}
	t.Setenv("APP_PORT", "443")
	cfg, err := Load()
	if err != nil || cfg.Port != 443 {
		t.Fatalf("cfg = %+v, err = %v", cfg, err)
	}
}

func TestInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "staging")
	if _, err := Load(); err == nil {
		t.Fatal("expected invalid APP_ENV error")
	}

	clearEnv(t)
	t.Setenv("APP_PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatal("expected invalid APP_PORT error")
	}
}
