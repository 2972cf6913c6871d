package fileserver

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestSaveAndServeAvatar(t *testing.T) {
	s := New(t.TempDir(), 1<<20)
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 100)...)
	url, err := s.SaveAvatar(context.Background(), "me.png", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, URLPrefix) || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url = %q", url)
	}

	rec := httptest.NewRecorder()
	s.Serve(rec, httptest.NewRequest(http.MethodGet, url, nil), path.Base(url))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("status = %d, content-type = %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.Equal(rec.Body.Bytes(), body) {
		t.Fatal("served content differs")
	}
}

func TestSaveAvatarRejects(t *testing.T) {
	s := New(t.TempDir(), 64)
	ctx := context.Background()
	if _, err := s.SaveAvatar(ctx, "x.exe", bytes.NewReader(pngHeader)); !errors.Is(err, ErrTypeNotAllowed) {
		t.Fatalf("exe: %v", err)
	}
	if _, err := s.SaveAvatar(ctx, "x.png", strings.NewReader("not a png")); !errors.Is(err, ErrContentMismatch) {
		t.Fatalf("fake png: %v", err)
	}
	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)
	if _, err := s.SaveAvatar(ctx, "x.png", bytes.NewReader(big)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("too large: %v", err)
	}
}

func TestServeMissing(t *testing.T) {
	s := New(t.TempDir(), 1<<20)
	rec := httptest.NewRecorder()
	s.Serve(rec, httptest.NewRequest(http.MethodGet, "/", nil), "../../etc/passwd")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
