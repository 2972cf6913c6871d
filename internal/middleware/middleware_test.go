package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeTokens map[string]string

func (f fakeTokens) Parse(token string) (string, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(GetUserID(r.Context())))
}

func TestBearerAuth(t *testing.T) {
	h := BearerAuth(fakeTokens{"good": "u1"})(http.HandlerFunc(echoUser))
	tests := []struct {
		header string
		status int
		body   string
	}{
		{"Bearer good", http.StatusOK, "u1"},
		{"bearer good", http.StatusOK, "u1"},
		{"Bearer bad", http.StatusUnauthorized, ""},
		{"good", http.StatusUnauthorized, ""},
		{"", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.status {
			t.Errorf("%q: status = %d, want %d", tt.header, rec.Code, tt.status)
		}
		if tt.body != "" && rec.Body.String() != tt.body {
			t.Errorf("%q: body = %q", tt.header, rec.Body.String())
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	check := func(_ context.Context, id string) (bool, error) { return id == "admin", nil }
	h := RequireAdmin(check)(http.HandlerFunc(echoUser))
	for id, want := range map[string]int{"admin": http.StatusOK, "user": http.StatusForbidden, "": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUserID(req.Context(), id))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("%q: status = %d, want %d", id, rec.Code, want)
		}
	}
}

func TestRecoverJSON(t *testing.T) {
	h := RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type = %q", ct)
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	l := NewRateLimiter(8)
	base := time.Now()
	l.now = func() time.Time { return base }
	h := l.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	// burst = 8/4 = 2
	if do("10.0.0.1") != http.StatusNoContent || do("10.0.0.1") != http.StatusNoContent {
		t.Fatal("burst must pass")
	}
	if got := do("10.0.0.1"); got != http.StatusTooManyRequests {
		t.Fatalf("third request: %d", got)
	}
	if got := do("10.0.0.2"); got != http.StatusNoContent {
		t.Fatalf("other IP limited: %d", got)
	}
	l.now = func() time.Time { return base.Add(8 * time.Second) }
	if got := do("10.0.0.1"); got != http.StatusNoContent {
		t.Fatalf("after refill: %d", got)
	}
}

func TestMaskToken(t *testing.T) {
	if got := MaskToken("abcdefghijkl"); got != "abcdefgh***" {
		t.Fatalf("got %q", got)
	}
	if got := MaskToken("short"); got != "****" {
		t.Fatalf("got %q", got)
	}
}
