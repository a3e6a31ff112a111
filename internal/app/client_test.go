package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]any{})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testLogger())
	client.SetToken("tok-123")
	_, err := client.ListProperties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientDecodesErrorEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Este email já está cadastrado",
			"code":  "email_exists",
		})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testLogger())
	_, err := client.Register(context.Background(), "ana@example.com", "senha123", "Ana")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "email_exists", apiErr.Code)
	assert.Equal(t, "Este email já está cadastrado", apiErr.FriendlyMessage())
}

func TestFriendlyMessageTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{"duplicate email", &APIError{Code: "email_exists"}, "Este email já está cadastrado"},
		{"bad credentials", &APIError{Code: "invalid_credentials"}, "Email ou senha incorretos"},
		{"validation passes through", &APIError{Code: "validation", Message: "Matrícula é obrigatória"}, "Matrícula é obrigatória"},
		{"anything else is generic", &APIError{Code: "internal", Message: "sql: database is locked"}, "Ocorreu um erro. Tente novamente."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.FriendlyMessage())
		})
	}
}

func TestLoginStoresToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Session{
			Token: "tok-456",
			User:  SessionUser{ID: "user-1", Email: "ana@example.com"},
		})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testLogger())
	session, err := client.Login(context.Background(), "ana@example.com", "senha123")
	require.NoError(t, err)
	assert.Equal(t, "tok-456", session.Token)
	assert.Equal(t, "tok-456", client.Token())
}
