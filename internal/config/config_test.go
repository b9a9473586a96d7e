package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("API_BASE_URL")

	cfg := config.Load()

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:8000" {
		t.Errorf("unexpected default API base URL: %s", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("unexpected default HTTP timeout: %v", cfg.HTTPTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SCAN_DELAY", "50ms")

	cfg := config.Load()

	if cfg.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Port)
	}
	if cfg.ScanDelay != 50*time.Millisecond {
		t.Errorf("expected scan delay 50ms, got %v", cfg.ScanDelay)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nDOTENV_TEST_KEY=hello\nexport DOTENV_TEST_EXPORTED=\"quoted\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOTENV_TEST_KEY", "")
	t.Setenv("DOTENV_TEST_EXPORTED", "")

	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := os.Getenv("DOTENV_TEST_KEY"); got != "hello" {
		t.Errorf("expected 'hello', got '%s'", got)
	}
	if got := os.Getenv("DOTENV_TEST_EXPORTED"); got != "quoted" {
		t.Errorf("expected quotes stripped, got '%s'", got)
	}
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("DOTENV_TEST_KEEP=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOTENV_TEST_KEEP", "env")

	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := os.Getenv("DOTENV_TEST_KEEP"); got != "env" {
		t.Errorf("expected env value to win, got '%s'", got)
	}
}
