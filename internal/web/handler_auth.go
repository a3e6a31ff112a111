package web

import (
	"errors"
	"net/http"

	"github.com/dponte/coletamap/internal/auth"
	"github.com/dponte/coletamap/internal/forms"
)

type sessionResponse struct {
	Token string   `json:"token"`
	User  userBody `json:"user"`
}

type userBody struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req forms.RegisterPayload
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "Requisição inválida")
		return
	}
	if err := forms.ValidateRegister(&req); err != nil {
		respondServiceError(w, err)
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Email, req.FullName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			respondError(w, http.StatusConflict, "email_exists", "Este email já está cadastrado")
		case errors.Is(err, auth.ErrWeakPassword):
			respondError(w, http.StatusBadRequest, "weak_password", "A senha deve ter pelo menos 6 caracteres")
		default:
			s.logger.Error("register failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal", "Ocorreu um erro. Tente novamente.")
		}
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "Ocorreu um erro. Tente novamente.")
		return
	}
	respondJSON(w, http.StatusCreated, sessionResponse{
		Token: token,
		User:  userBody{ID: user.ID, Email: user.Email, FullName: user.FullName},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req forms.LoginPayload
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "Requisição inválida")
		return
	}
	if err := forms.ValidateLogin(&req); err != nil {
		respondServiceError(w, err)
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "Email ou senha incorretos")
			return
		}
		s.logger.Error("login failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "Ocorreu um erro. Tente novamente.")
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "Ocorreu um erro. Tente novamente.")
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{
		Token: token,
		User:  userBody{ID: user.ID, Email: user.Email, FullName: user.FullName},
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.authenticator.UserByID(r.Context(), UserID(r.Context()))
	if err != nil {
		s.logger.Error("lookup current user", "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "Ocorreu um erro. Tente novamente.")
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "Sessão inválida. Faça login novamente.")
		return
	}
	respondJSON(w, http.StatusOK, userBody{ID: user.ID, Email: user.Email, FullName: user.FullName})
}
