package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "messenger", "token.json")
	c, err := New(path)
	if err != nil {
		t.Fatal(err)
	}

	tok, err := c.Token(ctx)
	if err != nil || tok != "" {
		t.Fatalf("missing file: token=%q err=%v", tok, err)
	}
	if err := c.SetToken(ctx, "abc.def"); err != nil {
		t.Fatal(err)
	}
	if tok, _ = c.Token(ctx); tok != "abc.def" {
		t.Fatalf("token = %q", tok)
	}
	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if fi.Mode().Perm() != 0o600 {
			t.Fatalf("mode = %v", fi.Mode().Perm())
		}
	}

	if err := c.DeleteToken(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteToken(ctx); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if tok, _ = c.Token(ctx); tok != "" {
		t.Fatalf("token after delete = %q", tok)
	}
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, _ := New(path)
	if _, err := c.Token(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error")
	}
}
