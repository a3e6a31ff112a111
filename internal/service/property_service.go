package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dponte/coletamap/internal/blob"
	"github.com/dponte/coletamap/internal/domain"
	"github.com/dponte/coletamap/internal/events"
	"github.com/dponte/coletamap/internal/forms"
)

var (
	ErrNotFound  = errors.New("property not found")
	ErrForbidden = errors.New("record belongs to another user")
)

// MaxPhotoSize is the per-file upload ceiling.
const MaxPhotoSize = 5 * 1024 * 1024 // 5 MiB

// propertyRepository is the subset of store.PropertyStore that
// PropertyService requires.
type propertyRepository interface {
	Create(ctx context.Context, p *domain.Property) (*domain.Property, error)
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context) ([]*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	Delete(ctx context.Context, id string) error
}

// photoRepository is the subset of store.PhotoStore that PropertyService
// requires.
type photoRepository interface {
	Create(ctx context.Context, propertyID, photoName, photoURL string) (*domain.PropertyPhoto, error)
	GetByID(ctx context.Context, id string) (*domain.PropertyPhoto, error)
	ListByPropertyID(ctx context.Context, propertyID string) ([]*domain.PropertyPhoto, error)
	Delete(ctx context.Context, id string) error
}

type PropertyService struct {
	properties propertyRepository
	photos     photoRepository
	blobs      blob.Store
	hub        *events.Hub
	baseURL    string
	logger     *slog.Logger
}

func NewPropertyService(
	properties propertyRepository,
	photos photoRepository,
	blobs blob.Store,
	hub *events.Hub,
	baseURL string,
	logger *slog.Logger,
) *PropertyService {
	return &PropertyService{
		properties: properties,
		photos:     photos,
		blobs:      blobs,
		hub:        hub,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// List returns every property visible to an authenticated user, newest
// first.
func (s *PropertyService) List(ctx context.Context) ([]*domain.Property, error) {
	return s.properties.List(ctx)
}

func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Create validates the payload and persists a new property owned by userID.
func (s *PropertyService) Create(ctx context.Context, userID string, payload *forms.PropertyPayload) (*domain.Property, error) {
	if verr := forms.ValidateProperty(payload); verr != nil {
		return nil, verr
	}

	created, err := s.properties.Create(ctx, payloadToProperty(userID, payload))
	if err != nil {
		return nil, err
	}

	s.logger.Info("property created", "property_id", created.ID, "user_id", userID)
	s.hub.Publish(events.Change{Table: "properties", Action: events.ActionInsert, ID: created.ID})
	return created, nil
}

// Update validates the payload and overwrites every mutable field of the
// property. Only the owner may update.
func (s *PropertyService) Update(ctx context.Context, userID, id string, payload *forms.PropertyPayload) (*domain.Property, error) {
	if verr := forms.ValidateProperty(payload); verr != nil {
		return nil, verr
	}

	existing, err := s.ownedProperty(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated := payloadToProperty(existing.UserID, payload)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.PhotoURL = existing.PhotoURL
	if err := s.properties.Update(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Info("property updated", "property_id", id, "user_id", userID)
	s.hub.Publish(events.Change{Table: "properties", Action: events.ActionUpdate, ID: id})
	return s.properties.GetByID(ctx, id)
}

// Delete removes the property and its photos. Photo rows go with the record
// (FK cascade); blob deletion is best-effort and never fails the delete.
func (s *PropertyService) Delete(ctx context.Context, userID, id string) error {
	existing, err := s.ownedProperty(ctx, userID, id)
	if err != nil {
		return err
	}

	photos, err := s.photos.ListByPropertyID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list photos for delete: %w", err)
	}

	if err := s.properties.Delete(ctx, id); err != nil {
		return err
	}

	for _, photo := range photos {
		s.deleteBlobByURL(ctx, photo.PhotoURL)
		s.hub.Publish(events.Change{Table: "property_photos", Action: events.ActionDelete, ID: photo.ID})
	}
	if existing.PhotoURL != "" {
		s.deleteBlobByURL(ctx, existing.PhotoURL)
	}

	s.logger.Info("property deleted", "property_id", id, "user_id", userID, "photos", len(photos))
	s.hub.Publish(events.Change{Table: "properties", Action: events.ActionDelete, ID: id})
	return nil
}

// Photos returns the property's photos ordered by creation time ascending.
func (s *PropertyService) Photos(ctx context.Context, propertyID string) ([]*domain.PropertyPhoto, error) {
	if _, err := s.Get(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.photos.ListByPropertyID(ctx, propertyID)
}

// PhotoUpload is one staged file to attach.
type PhotoUpload struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// PhotoOutcome reports what happened to one uploaded file. Err is empty on
// success.
type PhotoOutcome struct {
	Name  string               `json:"name"`
	Photo *domain.PropertyPhoto `json:"photo,omitempty"`
	Err   string               `json:"error,omitempty"`
}

// AttachPhotos uploads each file and records a photo row per success. It is
// called only after the owning property is durably saved, so a property save
// is never blocked by upload failures. Files are attempted independently:
// one failure neither aborts the rest nor the operation. The caller gets a
// per-file outcome list to summarize.
func (s *PropertyService) AttachPhotos(ctx context.Context, userID, propertyID string, uploads []PhotoUpload) ([]PhotoOutcome, error) {
	property, err := s.ownedProperty(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}

	outcomes := make([]PhotoOutcome, 0, len(uploads))
	for _, up := range uploads {
		outcomes = append(outcomes, s.attachOne(ctx, property, up))
	}
	return outcomes, nil
}

func (s *PropertyService) attachOne(ctx context.Context, property *domain.Property, up PhotoUpload) PhotoOutcome {
	if up.Size > MaxPhotoSize {
		return PhotoOutcome{Name: up.Name, Err: "A foto deve ter no máximo 5MB"}
	}

	key := blob.NewKey(property.UserID, up.Name)
	if err := s.blobs.Save(ctx, key, blob.ContentTypeForKey(key), up.Reader); err != nil {
		s.logger.Error("photo upload failed", "property_id", property.ID, "name", up.Name, "error", err)
		return PhotoOutcome{Name: up.Name, Err: "Falha ao enviar foto"}
	}

	photo, err := s.photos.Create(ctx, property.ID, up.Name, s.publicURL(key))
	if err != nil {
		s.logger.Error("photo record failed", "property_id", property.ID, "name", up.Name, "error", err)
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			s.logger.Error("failed to remove blob after record error", "key", key, "error", derr)
		}
		return PhotoOutcome{Name: up.Name, Err: "Falha ao registrar foto"}
	}

	s.logger.Info("photo attached", "property_id", property.ID, "photo_id", photo.ID, "name", up.Name)
	s.hub.Publish(events.Change{Table: "property_photos", Action: events.ActionInsert, ID: photo.ID})
	return PhotoOutcome{Name: up.Name, Photo: photo}
}

// RemovePhoto deletes one persisted photo, independent of the parent
// property's lifecycle.
func (s *PropertyService) RemovePhoto(ctx context.Context, userID, photoID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo == nil {
		return ErrNotFound
	}
	if _, err := s.ownedProperty(ctx, userID, photo.PropertyID); err != nil {
		return err
	}

	if err := s.photos.Delete(ctx, photoID); err != nil {
		return err
	}
	s.deleteBlobByURL(ctx, photo.PhotoURL)

	s.logger.Info("photo removed", "photo_id", photoID, "property_id", photo.PropertyID)
	s.hub.Publish(events.Change{Table: "property_photos", Action: events.ActionDelete, ID: photoID})
	return nil
}

func (s *PropertyService) ownedProperty(ctx context.Context, userID, id string) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if p.UserID != userID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *PropertyService) publicURL(key string) string {
	return s.baseURL + "/photos/" + key
}

// deleteBlobByURL maps a public photo URL back to its storage key and
// removes the blob best-effort. URLs not served by this instance are left
// alone.
func (s *PropertyService) deleteBlobByURL(ctx context.Context, photoURL string) {
	key, ok := strings.CutPrefix(photoURL, s.baseURL+"/photos/")
	if !ok {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Error("failed to delete photo blob", "key", key, "error", err)
	}
}

func payloadToProperty(userID string, payload *forms.PropertyPayload) *domain.Property {
	p := &domain.Property{
		UserID:             userID,
		RegistrationNumber: payload.RegistrationNumber,
		WaterMeterNumber:   payload.WaterMeterNumber,
		Street:             payload.Street,
		DoorNumber:         payload.DoorNumber,
		Complement:         payload.Complement,
		FieldObservations:  payload.FieldObservations,
		Latitude:           *payload.Latitude,
		Longitude:          *payload.Longitude,
	}
	p.Normalize()
	return p
}
