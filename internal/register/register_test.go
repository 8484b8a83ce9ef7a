package register

import (
	"errors"
	"fmt"
	"testing"

	"github.com/atotto/clipboard"

	"github.com/kobzarvs/qcore/internal/cursor"
)

func TestEmpty(t *testing.T) {
	r := New(false)
	if _, err := r.Unnamed(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Unnamed err = %v, want ErrEmpty", err)
	}
	if _, err := r.LastYank(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("LastYank err = %v, want ErrEmpty", err)
	}
	if _, err := r.Numbered(1); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Numbered err = %v, want ErrEmpty", err)
	}
}

func TestYankAndDeleteRing(t *testing.T) {
	r := New(false)
	r.AddYank(cursor.RegisterData{Content: "y", Mode: cursor.VisualNormal})
	for i := 0; i < 12; i++ {
		r.Add(cursor.RegisterData{Content: fmt.Sprint(i), Mode: cursor.VisualLinewise})
	}

	got, err := r.Unnamed()
	if err != nil || got.Content != "11" {
		t.Fatalf("Unnamed = %+v, %v", got, err)
	}
	y, _ := r.LastYank()
	if y.Content != "y" {
		t.Fatalf("LastYank = %q", y.Content)
	}
	if d, _ := r.Numbered(1); d.Content != "11" {
		t.Fatalf("Numbered(1) = %q", d.Content)
	}
	if d, _ := r.Numbered(9); d.Content != "3" {
		t.Fatalf("Numbered(9) = %q", d.Content)
	}
	if _, err := r.Numbered(10); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Numbered(10) err = %v", err)
	}
}

func TestClipboardRoundTrip(t *testing.T) {
	if clipboard.Unsupported {
		t.Skip("clipboard unsupported")
	}
	if err := clipboard.WriteAll("probe"); err != nil {
		t.Skipf("clipboard unavailable: %v", err)
	}
	r := New(true)
	r.AddYank(cursor.RegisterData{Content: "line\n", Mode: cursor.VisualLinewise})
	got, err := r.Unnamed()
	if err != nil {
		t.Fatalf("Unnamed: %v", err)
	}
	if got.Content != "line\n" || got.Mode != cursor.VisualLinewise {
		t.Fatalf("Unnamed = %+v", got)
	}
}
