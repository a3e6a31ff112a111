package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dponte/coletamap/internal/domain"
)

func TestPhotoStoreCreateAndGet(t *testing.T) {
	d := openTestDB(t)
	user := createTestUser(t, d)
	properties := NewPropertyStore(d)
	photos := NewPhotoStore(d)
	ctx := context.Background()

	p, err := properties.Create(ctx, testProperty(user.ID))
	require.NoError(t, err)

	created, err := photos.Create(ctx, p.ID, "frente.jpg", "/photos/u/frente.jpg")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := photos.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "frente.jpg", got.PhotoName)
	assert.Equal(t, p.ID, got.PropertyID)
}

func TestPhotoStoreListOrderedByCreation(t *testing.T) {
	d := openTestDB(t)
	user := createTestUser(t, d)
	properties := NewPropertyStore(d)
	photos := NewPhotoStore(d)
	ctx := context.Background()

	p, err := properties.Create(ctx, testProperty(user.ID))
	require.NoError(t, err)

	first, err := photos.Create(ctx, p.ID, "a.jpg", "/photos/u/a.jpg")
	require.NoError(t, err)
	// Force distinct timestamps; sqlite datetime resolution is coarse.
	_, err = d.ExecContext(ctx, "UPDATE property_photos SET created_at = ? WHERE id = ?",
		time.Now().UTC().Add(-time.Minute), first.ID)
	require.NoError(t, err)

	_, err = photos.Create(ctx, p.ID, "b.jpg", "/photos/u/b.jpg")
	require.NoError(t, err)

	list, err := photos.ListByPropertyID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a.jpg", list[0].PhotoName)
	assert.Equal(t, "b.jpg", list[1].PhotoName)
}

func TestPhotoStoreDelete(t *testing.T) {
	d := openTestDB(t)
	user := createTestUser(t, d)
	properties := NewPropertyStore(d)
	photos := NewPhotoStore(d)
	ctx := context.Background()

	p, err := properties.Create(ctx, testProperty(user.ID))
	require.NoError(t, err)
	created, err := photos.Create(ctx, p.ID, "a.jpg", "/photos/u/a.jpg")
	require.NoError(t, err)

	require.NoError(t, photos.Delete(ctx, created.ID))

	got, err := photos.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Error(t, photos.Delete(ctx, created.ID))
}

func TestUserStoreUniqueEmail(t *testing.T) {
	d := openTestDB(t)
	createTestUser(t, d)

	users := NewUserStore(d)
	err := users.CreateUser(context.Background(), &domain.User{
		ID:           "user-2",
		Email:        "ana@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	})
	assert.Error(t, err)
}
