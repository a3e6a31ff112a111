package local

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOpenDelete(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "user-1/1000_abcd1234.jpg"
	require.NoError(t, s.Save(ctx, key, "image/jpeg", strings.NewReader("fake-jpeg-bytes")))

	rc, contentType, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	assert.Equal(t, "fake-jpeg-bytes", string(data))
	assert.Equal(t, "image/jpeg", contentType)

	require.NoError(t, s.Delete(ctx, key))
	_, _, err = s.Open(ctx, key)
	assert.Error(t, err)
}

func TestOpenMissing(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = s.Open(context.Background(), "user-1/nope.jpg")
	assert.Error(t, err)
}

func TestRejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	err = s.Save(ctx, "../outside.jpg", "image/jpeg", strings.NewReader("x"))
	assert.Error(t, err)

	_, _, err = s.Open(ctx, "../../etc/passwd")
	assert.Error(t, err)
}

func TestContentTypeFromExtension(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "user-1/1000_abcd1234.png"
	require.NoError(t, s.Save(ctx, key, "image/png", strings.NewReader("png")))

	rc, contentType, err := s.Open(ctx, key)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "image/png", contentType)
}
