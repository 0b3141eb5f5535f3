package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prn-tf/atlant-cms/internal/app"
	"github.com/prn-tf/atlant-cms/internal/mediator"
)

// maxUploadMemory bounds how much of a multipart form is buffered in
// memory before spilling to disk.
const maxUploadMemory = 16 << 20

// FileHandler serves media uploads.
type FileHandler struct {
	mediator *mediator.Mediator
}

// NewFileHandler creates a FileHandler.
func NewFileHandler(m *mediator.Mediator) *FileHandler {
	return &FileHandler{mediator: m}
}

// AdminRoutes mounts the file routes.
func (h *FileHandler) AdminRoutes(r chi.Router) {
	r.Route("/files", func(r chi.Router) {
		r.Post("/", h.upload)
		r.Delete("/*", h.delete)
	})
}

// upload handles POST /files with a multipart form carrying one "file"
// part.
func (h *FileHandler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file part"})
		return
	}
	defer file.Close()

	results, err := h.mediator.Send(r.Context(), app.UploadFileCommand{
		Filename:    header.Filename,
		Content:     file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, results[0])
}

// delete handles DELETE /files/{key...}. The key is the remainder of
// the path, so date-sharded keys with slashes work unescaped.
func (h *FileHandler) delete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file key"})
		return
	}

	if _, err := h.mediator.Send(r.Context(), app.DeleteFileCommand{Key: key}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
