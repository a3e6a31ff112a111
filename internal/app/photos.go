package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// maxStagedPhotoSize is the per-file ceiling enforced before any upload.
const maxStagedPhotoSize = 5 * 1024 * 1024

// PhotoManager stages photo files selected while a form is open and commits
// them only after the owning record is durably saved. Upload failures never
// roll back the record.
type PhotoManager struct {
	client   *Client
	notifier Notifier
	logger   *slog.Logger

	mu     sync.Mutex
	staged []stagedPhoto
}

type stagedPhoto struct {
	name string
	data []byte
}

func NewPhotoManager(client *Client, notifier Notifier, logger *slog.Logger) *PhotoManager {
	return &PhotoManager{
		client:   client,
		notifier: notifier,
		logger:   logger,
	}
}

// Stage buffers one selected file. Files over the size ceiling are rejected
// with one notification each and never reach the staging list.
func (m *PhotoManager) Stage(name string, size int64, r io.Reader) error {
	if size > maxStagedPhotoSize {
		m.notifier.Notify("A foto deve ter no máximo 5MB")
		return fmt.Errorf("photo %s exceeds the size limit", name)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(r, maxStagedPhotoSize+1)); err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if buf.Len() > maxStagedPhotoSize {
		m.notifier.Notify("A foto deve ter no máximo 5MB")
		return fmt.Errorf("photo %s exceeds the size limit", name)
	}

	m.mu.Lock()
	m.staged = append(m.staged, stagedPhoto{name: name, data: buf.Bytes()})
	m.mu.Unlock()
	return nil
}

// StagedCount reports how many files are waiting for commit.
func (m *PhotoManager) StagedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.staged)
}

// Discard drops the staging list, as when a form is canceled.
func (m *PhotoManager) Discard() {
	m.mu.Lock()
	m.staged = nil
	m.mu.Unlock()
}

// Commit uploads every staged file against a saved record and clears the
// staging list. Individual failures are logged and summarized in a single
// notification; they never fail the commit.
func (m *PhotoManager) Commit(ctx context.Context, propertyID string) []PhotoOutcome {
	m.mu.Lock()
	staged := m.staged
	m.staged = nil
	m.mu.Unlock()

	if len(staged) == 0 {
		return nil
	}

	uploads := make([]Upload, 0, len(staged))
	for _, p := range staged {
		uploads = append(uploads, Upload{Name: p.name, Reader: bytes.NewReader(p.data)})
	}

	outcomes, err := m.client.UploadPhotos(ctx, propertyID, uploads)
	if err != nil {
		m.logger.Error("photo upload failed", "property_id", propertyID, "error", err)
		m.notifier.Notify(fmt.Sprintf("Não foi possível enviar %d foto(s)", len(staged)))
		return nil
	}

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != "" {
			failed++
			m.logger.Warn("photo rejected", "name", outcome.Name, "reason", outcome.Err)
		}
	}
	if failed > 0 {
		m.notifier.Notify(fmt.Sprintf("%d foto(s) não puderam ser enviadas", failed))
	}
	return outcomes
}

// RemoveExisting deletes an already-uploaded photo. On failure the photo is
// left in place and the user is notified.
func (m *PhotoManager) RemoveExisting(ctx context.Context, photoID string) error {
	if err := m.client.DeletePhoto(ctx, photoID); err != nil {
		m.logger.Error("photo delete failed", "photo_id", photoID, "error", err)
		m.notifier.Notify("Não foi possível remover a foto")
		return err
	}
	return nil
}
