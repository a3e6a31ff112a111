package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/dponte/coletamap/internal/service"
)

// maxUploadMemory bounds how much of a multipart body is buffered in memory
// before spilling to disk.
const maxUploadMemory = 32 << 20

// maxUploadBytes caps the whole multipart request body, in memory and on
// disk combined.
const maxUploadBytes = 64 << 20

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := s.service.Photos(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, photos)
}

// handleUploadPhotos accepts one or more files under the "photos" multipart
// field. Each file succeeds or fails independently; the response reports a
// per-file outcome rather than failing the whole batch.
func (s *Server) handleUploadPhotos(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "too_large", "Envio muito grande")
			return
		}
		respondError(w, http.StatusBadRequest, "bad_request", "Requisição inválida")
		return
	}
	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "bad_request", "Nenhuma foto enviada")
		return
	}

	uploads := make([]service.PhotoUpload, 0, len(files))
	var readers []io.Closer
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			s.logger.Error("open multipart file", "name", fh.Filename, "error", err)
			respondError(w, http.StatusBadRequest, "bad_request", "Requisição inválida")
			for _, c := range readers {
				c.Close()
			}
			return
		}
		readers = append(readers, f)
		uploads = append(uploads, service.PhotoUpload{
			Name:   fh.Filename,
			Size:   fh.Size,
			Reader: f,
		})
	}
	defer func() {
		for _, c := range readers {
			c.Close()
		}
	}()

	outcomes, err := s.service.AttachPhotos(r.Context(), UserID(r.Context()), r.PathValue("id"), uploads)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"outcomes": outcomes})
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RemovePhoto(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetPhoto streams a stored photo. Keys are opaque and unguessable, so
// the route is served without authentication, matching public object URLs.
func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	rc, contentType, err := s.blobs.Open(r.Context(), key)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "Foto não encontrada")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("stream photo", "key", key, "error", err)
	}
}
