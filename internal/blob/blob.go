// Package blob abstracts binary photo storage behind a small interface with
// local-disk and S3 backends.
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	// Save stores the blob under key. Keys use forward slashes regardless of
	// backend.
	Save(ctx context.Context, key, contentType string, r io.Reader) error
	// Open returns the blob contents and content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

// NewKey builds a collision-resistant storage key namespaced by the owning
// user: "{ownerID}/{unix-ms}_{8-hex}{ext}". The extension is taken from the
// original file name, lowercased.
func NewKey(ownerID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s/%d_%s%s", ownerID, time.Now().UnixMilli(), suffix, ext)
}

// ContentTypeForKey maps a storage key's extension to a MIME type.
func ContentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
