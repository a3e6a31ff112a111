package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dponte/coletamap/internal/domain"
)

// memUserStorage is an in-memory UserStorage for tests.
type memUserStorage struct {
	byEmail map[string]*domain.User
}

func newMemUserStorage() *memUserStorage {
	return &memUserStorage{byEmail: make(map[string]*domain.User)}
}

func (m *memUserStorage) CreateUser(_ context.Context, user *domain.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUserStorage) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.byEmail[email], nil
}

func (m *memUserStorage) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	a := NewPasswordAuthenticator(newMemUserStorage())
	ctx := context.Background()

	user, err := a.Register(ctx, "ana@example.com", "Ana Souza", "segredo1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "segredo1", user.PasswordHash)

	got, err := a.Authenticate(ctx, "ana@example.com", "segredo1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := NewPasswordAuthenticator(newMemUserStorage())
	ctx := context.Background()

	_, err := a.Register(ctx, "ana@example.com", "Ana", "segredo1")
	require.NoError(t, err)

	_, err = a.Register(ctx, "ana@example.com", "Outra Ana", "segredo2")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegisterWeakPassword(t *testing.T) {
	a := NewPasswordAuthenticator(newMemUserStorage())

	_, err := a.Register(context.Background(), "ana@example.com", "Ana", "12345")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	a := NewPasswordAuthenticator(newMemUserStorage())
	ctx := context.Background()

	_, err := a.Register(ctx, "ana@example.com", "Ana", "segredo1")
	require.NoError(t, err)

	_, err = a.Authenticate(ctx, "ana@example.com", "errada1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate(ctx, "ninguem@example.com", "segredo1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)
	user := &domain.User{ID: "u-1", Email: "ana@example.com"}

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", -time.Minute)

	token, err := m.Generate(&domain.User{ID: "u-1", Email: "ana@example.com"})
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTWrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", time.Hour)
	token, err := m.Generate(&domain.User{ID: "u-1", Email: "ana@example.com"})
	require.NoError(t, err)

	other := NewJWTManager("secret-b", time.Hour)
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
