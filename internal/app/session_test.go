package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeWithoutTokenRedirects(t *testing.T) {
	redirected := 0
	s := NewSessionController(NewClient("http://unused", testLogger()),
		func() { redirected++ }, testLogger())

	assert.False(t, s.Resume(context.Background()))
	assert.Equal(t, 1, redirected)
	assert.Nil(t, s.User())
}

func TestResumeWithExpiredTokenRedirectsWithoutRetry(t *testing.T) {
	probes := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes++
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Sessão inválida. Faça login novamente.", "code": "unauthorized"})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testLogger())
	client.SetToken("expired-token")
	redirected := 0
	s := NewSessionController(client, func() { redirected++ }, testLogger())

	assert.False(t, s.Resume(context.Background()))
	assert.Equal(t, 1, redirected)
	assert.Equal(t, 1, probes)
}

func TestResumeWithValidTokenLoadsUser(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SessionUser{ID: "user-1", Email: "ana@example.com", FullName: "Ana Souza"})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testLogger())
	client.SetToken("valid-token")
	s := NewSessionController(client, func() { t.Fatal("redirect must not fire") }, testLogger())

	var observed *SessionUser
	s.OnChange(func(u *SessionUser) { observed = u })

	require.True(t, s.Resume(context.Background()))
	require.NotNil(t, s.User())
	assert.Equal(t, "ana@example.com", s.User().Email)
	require.NotNil(t, observed)
	assert.Equal(t, "user-1", observed.ID)
}

func TestLogoutClearsTokenAndRedirects(t *testing.T) {
	client := NewClient("http://unused", testLogger())
	client.SetToken("tok")
	redirected := 0
	s := NewSessionController(client, func() { redirected++ }, testLogger())

	s.Logout()
	assert.Empty(t, client.Token())
	assert.Nil(t, s.User())
	assert.Equal(t, 1, redirected)
}
