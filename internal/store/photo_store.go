package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dponte/coletamap/internal/domain"
)

type PhotoStore struct {
	db *sql.DB
}

func NewPhotoStore(db *sql.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

func (s *PhotoStore) Create(ctx context.Context, propertyID, photoName, photoURL string) (*domain.PropertyPhoto, error) {
	photo := &domain.PropertyPhoto{
		ID:         uuid.New().String(),
		PropertyID: propertyID,
		PhotoName:  photoName,
		PhotoURL:   photoURL,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO property_photos (id, property_id, photo_name, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, photo.ID, photo.PropertyID, photo.PhotoName, photo.PhotoURL, photo.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	return photo, nil
}

func (s *PhotoStore) GetByID(ctx context.Context, id string) (*domain.PropertyPhoto, error) {
	photo := &domain.PropertyPhoto{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, property_id, photo_name, photo_url, created_at
		FROM property_photos WHERE id = ?
	`, id).Scan(&photo.ID, &photo.PropertyID, &photo.PhotoName, &photo.PhotoURL, &photo.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}

	return photo, nil
}

// ListByPropertyID returns the property's photos ordered by creation time
// ascending, the display order.
func (s *PhotoStore) ListByPropertyID(ctx context.Context, propertyID string) ([]*domain.PropertyPhoto, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, property_id, photo_name, photo_url, created_at
		FROM property_photos WHERE property_id = ? ORDER BY created_at ASC, id ASC
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []*domain.PropertyPhoto
	for rows.Next() {
		photo := &domain.PropertyPhoto{}
		if err := rows.Scan(&photo.ID, &photo.PropertyID, &photo.PhotoName, &photo.PhotoURL, &photo.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return photos, nil
}

func (s *PhotoStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM property_photos WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("photo not found")
	}
	return nil
}
