package memory

import (
	"context"
	"testing"
)

func TestToken(t *testing.T) {
	ctx := context.Background()
	c := New()
	if tok, _ := c.Token(ctx); tok != "" {
		t.Fatalf("token = %q", tok)
	}
	_ = c.SetToken(ctx, "t1")
	if tok, _ := c.Token(ctx); tok != "t1" {
		t.Fatalf("token = %q", tok)
	}
	_ = c.DeleteToken(ctx)
	if tok, _ := c.Token(ctx); tok != "" {
		t.Fatalf("token = %q", tok)
	}
}
