package web

import (
	"net/http"

	"github.com/dponte/coletamap/internal/forms"
)

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := s.service.List(r.Context())
	if err != nil {
		s.logger.Error("list properties", "error", err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, properties)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	property, err := s.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, property)
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var payload forms.PropertyPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "Requisição inválida")
		return
	}
	property, err := s.service.Create(r.Context(), UserID(r.Context()), &payload)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, property)
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	var payload forms.PropertyPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "Requisição inválida")
		return
	}
	property, err := s.service.Update(r.Context(), UserID(r.Context()), r.PathValue("id"), &payload)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, property)
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Delete(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
