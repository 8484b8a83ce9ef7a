package gitinfo

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func gitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, string(out))
	}
	return string(out)
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test")
	runGit(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func TestBranchAndRoot(t *testing.T) {
	if !gitAvailable() {
		t.Skip("git not available")
	}
	dir := initRepo(t)

	if Branch(dir) == "" {
		t.Fatalf("Branch empty")
	}
	if root := Root(dir); root != dir {
		t.Fatalf("Root = %q, want %q", root, dir)
	}
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if root := Root(sub); root != dir {
		t.Fatalf("Root(sub) = %q, want %q", root, dir)
	}
}

func TestHeadContent(t *testing.T) {
	if !gitAvailable() {
		t.Skip("git not available")
	}
	dir := initRepo(t)
	path := filepath.Join(dir, "src", "main.go")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")
	if err := os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := HeadContent(context.Background(), path)
	if err != nil {
		t.Fatalf("HeadContent: %v", err)
	}
	if string(got) != "package main\n" {
		t.Fatalf("HeadContent = %q", got)
	}

	untracked := filepath.Join(dir, "new.txt")
	if err := os.WriteFile(untracked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := HeadContent(context.Background(), untracked); !errors.Is(err, ErrNotCommitted) {
		t.Fatalf("untracked file error = %v", err)
	}
}

func TestNotRepository(t *testing.T) {
	dir := t.TempDir()
	if Root(dir) != "" {
		t.Skip("temp dir is inside a repository")
	}
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := HeadContent(context.Background(), path); !errors.Is(err, ErrNotRepository) {
		t.Fatalf("HeadContent outside a repo = %v", err)
	}
	if Branch(dir) != "" {
		t.Fatalf("Branch outside a repo should be empty")
	}
}

func TestReadHead(t *testing.T) {
	tests := []struct {
		head string
		want string
	}{
		{"ref: refs/heads/main\n", "main"},
		{"ref: refs/heads/feature/x\n", "feature/x"},
		{"0123456789abcdef\n", "detached:0123456"},
	}
	for _, tt := range tests {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "HEAD"), []byte(tt.head), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := readHead(dir)
		if err != nil || got != tt.want {
			t.Fatalf("readHead(%q) = %q, %v; want %q", tt.head, got, err, tt.want)
		}
	}
}
