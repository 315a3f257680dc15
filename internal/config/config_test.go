package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigs(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

const validPublic = `http_port: 8080
access_token_ttl: 300
refresh_token_ttl: 86400
verification_token_ttl: 86400
password_reset_token_ttl: 7200
frontend_url: http://localhost:3000
`

const validPrivate = `jwt_key: 'secret'
pg:
  host: localhost
  port: 5432
  user: user
  password: password
  dbname: newsroom
`

func TestMustLoad(t *testing.T) {
	dir := writeConfigs(t, validPublic, validPrivate)

	cfg := MustLoad(dir)

	if cfg.AccessTokenTTL() != 5*time.Minute {
		t.Errorf("access ttl = %v, want 5m", cfg.AccessTokenTTL())
	}
	if cfg.RefreshTokenTTL() != 24*time.Hour {
		t.Errorf("refresh ttl = %v, want 24h", cfg.RefreshTokenTTL())
	}
	if cfg.JwtKey() != "secret" {
		t.Errorf("jwt key = %q", cfg.JwtKey())
	}
	if cfg.Private.Pg.Dbname != "newsroom" {
		t.Errorf("dbname = %q", cfg.Private.Pg.Dbname)
	}
}

func TestMustLoad_MissingRequiredField(t *testing.T) {
	// jwt_key intentionally missing
	dir := writeConfigs(t, validPublic, "pg:\n  host: localhost\n")

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing required field, got none")
		}
	}()

	_ = MustLoad(dir)
}

func TestMustLoad_MissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing config file, got none")
		}
	}()

	_ = MustLoad(t.TempDir())
}
