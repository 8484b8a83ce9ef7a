package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogPathPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QCORE_LOG_FILE", "")
	t.Setenv("QCORE_CONFIG_HOME", dir)
	got, err := LogPath()
	if err != nil {
		t.Fatalf("LogPath error: %v", err)
	}
	if want := filepath.Join(dir, "qcore.log"); got != want {
		t.Fatalf("LogPath = %q, want %q", got, want)
	}

	t.Setenv("QCORE_LOG_FILE", filepath.Join(dir, "explicit.log"))
	got, _ = LogPath()
	if got != filepath.Join(dir, "explicit.log") {
		t.Fatalf("LogPath = %q, want explicit file", got)
	}
}

func TestNamedWritesThroughGlobal(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, true)
	defer func() { L, S = nil, nil }()

	Named("syntax").Debugw("parsed", "rev", 3)
	Info("hello")
	out := buf.String()
	if !strings.Contains(out, "syntax") || !strings.Contains(out, "parsed") {
		t.Fatalf("named output missing: %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("info output missing: %q", out)
	}
}

func TestHelpersNoopWithoutInit(t *testing.T) {
	L, S = nil, nil
	Debug("x")
	Warn("y")
	Named("z").Infow("ignored")
}
