package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dponte/coletamap/internal/forms"
	"github.com/dponte/coletamap/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		// Headers are already out; an encode failure here is unrecoverable.
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

// respondServiceError translates service and validation errors into HTTP
// responses with stable machine-readable codes.
func respondServiceError(w http.ResponseWriter, err error) {
	var verr *forms.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, "validation", verr.Message)
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "Registro não encontrado")
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden", "Você não tem permissão para alterar este registro")
	default:
		respondError(w, http.StatusInternalServerError, "internal", "Ocorreu um erro. Tente novamente.")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
