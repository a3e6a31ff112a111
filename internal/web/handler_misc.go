package web

import (
	"io"
	"net/http"

	"github.com/dponte/coletamap/internal/service"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMapConfig hands the map tile token to authenticated clients so it
// never ships in static assets.
func (s *Server) handleMapConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"token": s.mapboxToken})
}

// handleSuggestObservations runs a staged photo through the vision model and
// returns draft field observations. Registered only when a suggester is
// configured.
func (s *Server) handleSuggestObservations(w http.ResponseWriter, r *http.Request) {
	// A single photo plus multipart framing; anything bigger is rejected
	// before it buffers.
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxPhotoSize+(1<<20))
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "Requisição inválida")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "Nenhuma foto enviada")
		return
	}
	defer file.Close()

	if header.Size > service.MaxPhotoSize {
		respondError(w, http.StatusBadRequest, "photo_too_large", "A foto deve ter no máximo 5MB")
		return
	}

	image, err := io.ReadAll(io.LimitReader(file, service.MaxPhotoSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "Requisição inválida")
		return
	}

	observations, err := s.suggester.SuggestObservations(r.Context(), image, header.Header.Get("Content-Type"))
	if err != nil {
		s.logger.Error("suggest observations", "error", err)
		respondError(w, http.StatusBadGateway, "suggest_failed", "Não foi possível gerar sugestões")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"observations": observations})
}
