package config

import (
	"path/filepath"
	"testing"
)

func TestLanguagesMatch(t *testing.T) {
	cfg := Languages{
		Languages: []Language{
			{Name: "go", FileTypes: []string{"go", "go.mod", ".go"}},
			{Name: "bash", FileTypes: []string{".envrc", "Makefile"}},
		},
	}

	if got := cfg.Match("main.go"); got == nil || got.Name != "go" {
		t.Fatalf("Match main.go = %#v, want go", got)
	}
	if got := cfg.Match("go.mod"); got == nil || got.Name != "go" {
		t.Fatalf("Match go.mod = %#v, want go", got)
	}
	if got := cfg.Match(".envrc"); got == nil || got.Name != "bash" {
		t.Fatalf("Match .envrc = %#v, want bash", got)
	}
	if got := cfg.Match("Makefile"); got == nil || got.Name != "bash" {
		t.Fatalf("Match Makefile = %#v, want bash", got)
	}
	if got := cfg.Match("unknown.txt"); got != nil {
		t.Fatalf("Match unknown.txt = %#v, want nil", got)
	}
}

func TestLoadLanguages(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QCORE_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "languages.toml"), `
[[language]]
name = "python"
file-types = ["py", "SConstruct"]
comment-token = "#"
`)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if len(cfg.Languages) != 1 {
		t.Fatalf("Languages len = %d, want 1", len(cfg.Languages))
	}
	lang := cfg.Languages[0]
	// Keys the editor does not use are ignored.
	if lang.Name != "python" || len(lang.FileTypes) != 2 {
		t.Fatalf("language = %#v", lang)
	}
	if got := cfg.Match("SConstruct"); got == nil || got.Name != "python" {
		t.Fatalf("Match SConstruct = %#v, want python", got)
	}
}

func TestLoadLanguagesMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QCORE_CONFIG_HOME", dir)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if len(cfg.Languages) != 0 {
		t.Fatalf("Languages len = %d, want 0", len(cfg.Languages))
	}
}
