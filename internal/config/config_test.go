package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTenantsFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tenants.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write tenants file: %v", err)
	}
	return path
}

func TestMustLoadDefaults(t *testing.T) {
	path := writeTenantsFile(t, "secrets:\n  b08daaf0a631344a5a63dbb536bce0a71077b08a: fishd.club\n")
	t.Setenv("TENANTS_FILE", path)

	cfg, err := MustLoad()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != "8080" {
		t.Errorf("default addr = %q, want 8080", cfg.Server.Addr)
	}
	if cfg.Cache.DefaultTTL.Seconds() != 604800 {
		t.Errorf("default TTL = %v, want 168h", cfg.Cache.DefaultTTL)
	}
	if got := cfg.Tenants.Secrets["b08daaf0a631344a5a63dbb536bce0a71077b08a"]; got != "fishd.club" {
		t.Errorf("tenant secret resolved to %q", got)
	}
	if cfg.Transform.AlignX != 0.5 || cfg.Transform.AlignY != 0.5 {
		t.Errorf("default crop alignment = (%v, %v), want centered", cfg.Transform.AlignX, cfg.Transform.AlignY)
	}
	if cfg.EventsEnabled() {
		t.Error("events should be disabled without brokers")
	}
}

func TestMustLoadRejectsEmptyTenants(t *testing.T) {
	path := writeTenantsFile(t, "secrets: {}\n")
	t.Setenv("TENANTS_FILE", path)

	if _, err := MustLoad(); err == nil {
		t.Fatal("expected error for empty secrets table")
	}
}

func TestDBDSN(t *testing.T) {
	path := writeTenantsFile(t, "secrets:\n  b08daaf0a631344a5a63dbb536bce0a71077b08a: fishd.club\n")
	t.Setenv("TENANTS_FILE", path)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "dev")

	cfg, err := MustLoad()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "postgres://pictiato:dev@db:5432/pictiato?sslmode=disable"
	if cfg.DBDSN() != want {
		t.Errorf("DBDSN() = %q, want %q", cfg.DBDSN(), want)
	}
}
