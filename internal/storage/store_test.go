package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/messenger/frontend/internal/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	for _, kind := range []string{"", "file", "memory"} {
		ts, err := Open(ctx, config.TokenStoreConfig{Kind: kind, Path: filepath.Join(t.TempDir(), "token.json")})
		if err != nil {
			t.Fatalf("%q: %v", kind, err)
		}
		if err := ts.SetToken(ctx, "x"); err != nil {
			t.Fatal(err)
		}
		if tok, _ := ts.Token(ctx); tok != "x" {
			t.Fatalf("%q: token = %q", kind, tok)
		}
		ts.Close()
	}
	if _, err := Open(ctx, config.TokenStoreConfig{Kind: "cookie"}); err == nil {
		t.Fatal("unknown kind must fail")
	}
}
