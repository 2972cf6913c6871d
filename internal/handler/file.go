package handler

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/messenger/frontend/internal/fileserver"
	"github.com/messenger/frontend/internal/logger"
)

type FileHandler struct {
	files *fileserver.Service
}

func NewFileHandler(files *fileserver.Service) *FileHandler {
	return &FileHandler{files: files}
}

type FileUploadResponse struct {
	URL string `json:"url"`
}

// Upload — POST /files/avatar: multipart-поле file, ответ {url}.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.files.MaxUploadSize+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Файл не передан")
		return
	}
	defer file.Close()
	url, err := h.files.SaveAvatar(r.Context(), header.Filename, file)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, FileUploadResponse{URL: url})
	case errors.Is(err, fileserver.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Файл слишком большой")
	case errors.Is(err, fileserver.ErrTypeNotAllowed), errors.Is(err, fileserver.ErrContentMismatch):
		writeError(w, http.StatusBadRequest, "Аватар должен быть изображением (jpg, png, gif, webp)")
	default:
		logger.Errorf("upload avatar: %v", err)
		writeError(w, http.StatusInternalServerError, "Не удалось сохранить файл")
	}
}

// Serve — GET /files/{filename}.
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	h.files.Serve(w, r, filepath.Base(chi.URLParam(r, "filename")))
}
