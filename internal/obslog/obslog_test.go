package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuildWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "web.log")
	logger, err := Build(Options{Level: zapcore.InfoLevel, File: path, Format: "json"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("chess board reset", zap.String("from", "e2"))
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, `"msg":"chess board reset"`) || !strings.Contains(out, `"from":"e2"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered at info level")
	}
}

func TestBuildWithoutSinksIsNop(t *testing.T) {
	logger, err := Build(Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected nop logger")
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("LOG_TO_CONSOLE", "false")
	t.Setenv("LOG_TO_FILE", "true")
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_FORMAT", "JSON")
	opts := OptionsFromEnv()
	if opts.Level != zapcore.WarnLevel || opts.Console || opts.Format != "json" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.File != filepath.Join("logs", "web.log") {
		t.Fatalf("default log file = %q", opts.File)
	}
}
