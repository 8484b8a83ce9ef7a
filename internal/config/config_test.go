package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("QCORE_CONFIG_HOME", "/tmp/qcore-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/qcore-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/qcore-config")
	}

	t.Setenv("QCORE_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/qcore" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/qcore")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("QCORE_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Editor.AutoClosing() || !cfg.Editor.Surround() {
		t.Fatalf("pairing should default on: %+v", cfg.Editor)
	}
	if cfg.Editor.UseClipboard() {
		t.Fatalf("clipboard should default off")
	}
	if cfg.Editor.LineHeight != 25 || cfg.Editor.LensHeight != 2 || cfg.Editor.DiffContextLines != 3 {
		t.Fatalf("unexpected defaults: %+v", cfg.Editor)
	}
}

func TestLoadWithThemeAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QCORE_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "test.toml"), `
foreground = "#111111"
background = "#222222"
syntax-keyword = "#333333"
`)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
tab-width = 8
auto-closing-matching-pairs = false
lens-height = 4
diff-context-lines = 5

[theme]
theme = "test"
syntax-string = "#123456"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Fatalf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if cfg.Editor.AutoClosing() {
		t.Fatalf("AutoClosing = true, want explicit false to win")
	}
	if !cfg.Editor.Surround() {
		t.Fatalf("Surround = false, want default true")
	}
	if cfg.Editor.LensHeight != 4 || cfg.Editor.DiffContextLines != 5 {
		t.Fatalf("LensHeight/DiffContextLines = %d/%d", cfg.Editor.LensHeight, cfg.Editor.DiffContextLines)
	}
	if cfg.Theme.Foreground != "#111111" {
		t.Fatalf("Foreground = %q, want %q", cfg.Theme.Foreground, "#111111")
	}
	if cfg.Theme.SyntaxKeyword != "#333333" {
		t.Fatalf("SyntaxKeyword = %q, want %q", cfg.Theme.SyntaxKeyword, "#333333")
	}
	if cfg.Theme.SyntaxString != "#123456" {
		t.Fatalf("SyntaxString = %q, want %q", cfg.Theme.SyntaxString, "#123456")
	}
	if cfg.Theme.SyntaxComment != Default().Theme.SyntaxComment {
		t.Fatalf("SyntaxComment = %q, want default", cfg.Theme.SyntaxComment)
	}
}

func TestLoadThemeWrapped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QCORE_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "wrapped.toml"), `
[theme]
foreground = "#aaaaaa"
background = "#bbbbbb"
`)

	theme, err := LoadTheme("wrapped")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Foreground != "#aaaaaa" {
		t.Fatalf("Foreground = %q, want %q", theme.Foreground, "#aaaaaa")
	}
	if theme.Background != "#bbbbbb" {
		t.Fatalf("Background = %q, want %q", theme.Background, "#bbbbbb")
	}
}
