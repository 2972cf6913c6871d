// Package fileserver сохраняет и раздаёт аватары пользователей.
package fileserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/messenger/frontend/internal/logger"
)

// URLPrefix — путь, по которому раздаются сохранённые файлы.
const URLPrefix = "/api/files/"

var (
	ErrTypeNotAllowed  = errors.New("file type not allowed")
	ErrContentMismatch = errors.New("file content does not match type")
	ErrTooLarge        = errors.New("file too large")
)

// AllowedExt — допустимые расширения аватара.
var AllowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// Service сохраняет файлы в UploadDir под сгенерированными именами.
type Service struct {
	UploadDir     string
	MaxUploadSize int64
}

// New создаёт сервис с заданным каталогом и лимитом размера (в байтах).
func New(uploadDir string, maxUploadSize int64) *Service {
	return &Service{UploadDir: uploadDir, MaxUploadSize: maxUploadSize}
}

// SaveAvatar проверяет расширение и сигнатуру изображения, сохраняет файл и возвращает его URL.
func (s *Service) SaveAvatar(ctx context.Context, filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(strings.ReplaceAll(filename, "+", " ")))
	if !AllowedExt[ext] {
		return "", ErrTypeNotAllowed
	}

	head := make([]byte, 512)
	n, _ := io.ReadAtLeast(src, head, len(head))
	head = head[:n]
	if !matchMagic(ext, head) {
		return "", ErrContentMismatch
	}

	if err := os.MkdirAll(s.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	newName := uuid.New().String() + ext
	dstPath := filepath.Join(s.UploadDir, newName)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	limit := s.MaxUploadSize
	if limit <= 0 {
		limit = 5 << 20
	}
	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(src, limit-int64(len(head))+1))
	written, err := copyWithContext(ctx, dst, body)
	if err == nil && written > limit {
		err = ErrTooLarge
	}
	if closeErr := dst.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close file: %w", closeErr)
	}
	if err != nil {
		os.Remove(dstPath)
		return "", err
	}
	logger.Infof("avatar saved: %s (%d bytes)", newName, written)
	return URLPrefix + newName, nil
}

func matchMagic(ext string, head []byte) bool {
	switch ext {
	case ".jpg", ".jpeg":
		return len(head) >= 3 && head[0] == 0xFF && head[1] == 0xD8 && head[2] == 0xFF
	case ".png":
		return len(head) >= 8 && bytes.Equal(head[:8], []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	case ".gif":
		return len(head) >= 6 && (bytes.Equal(head[:6], []byte("GIF87a")) || bytes.Equal(head[:6], []byte("GIF89a")))
	case ".webp":
		return len(head) >= 12 && bytes.Equal(head[8:12], []byte("WEBP"))
	}
	return false
}

// Serve отдаёт сохранённый файл по имени.
func (s *Service) Serve(w http.ResponseWriter, r *http.Request, filename string) {
	filename = filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if !AllowedExt[ext] {
		http.NotFound(w, r)
		return
	}
	f, err := os.Open(filepath.Join(s.UploadDir, filename))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	if ct := contentTypeByExt(ext); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, f)
}

func contentTypeByExt(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return ""
}

func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		select {
		case <-ctx.Done():
			return total, fmt.Errorf("upload cancelled: %w", ctx.Err())
		default:
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return total, fmt.Errorf("write: %w", err)
			}
			total += int64(n)
		}
		if readErr == io.EOF {
			return total, nil
		}
		if readErr != nil {
			return total, fmt.Errorf("read: %w", readErr)
		}
	}
}
