package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CHESS_WEB_CONFIG", "LISTEN_ADDR", "REDIRECT_URL", "LABELS_DIR", "MOVE_LIST_LIMIT", "SQUARE_PNG_SIZE", "READ_TIMEOUT_SEC", "WRITE_TIMEOUT_SEC"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8000" || cfg.RedirectURL != "/" || cfg.MoveListLimit != 65 || cfg.SquarePNGSize != 80 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ReadTimeoutDuration() != 10*time.Second {
		t.Fatalf("read timeout = %v", cfg.ReadTimeoutDuration())
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "web.yaml")
	body := "listen_addr: \":9000\"\nmove_list_limit: 10\nredirect_url: \"http://localhost:9000\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHESS_WEB_CONFIG", path)
	t.Setenv("MOVE_LIST_LIMIT", "20")
	t.Setenv("SQUARE_PNG_SIZE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9000" || cfg.RedirectURL != "http://localhost:9000" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.MoveListLimit != 20 {
		t.Fatalf("env should override file, got %d", cfg.MoveListLimit)
	}
	if cfg.SquarePNGSize != 80 {
		t.Fatalf("invalid env value should be ignored, got %d", cfg.SquarePNGSize)
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("square_png_size: 5000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHESS_WEB_CONFIG", path)
	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error")
	}

	t.Setenv("CHESS_WEB_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected missing file error")
	}
}
