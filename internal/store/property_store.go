package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dponte/coletamap/internal/domain"
)

type PropertyStore struct {
	db *sql.DB
}

func NewPropertyStore(db *sql.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

const propertyColumns = `
	id, user_id, property_number, registration_number, water_meter_number,
	address, street, door_number, complement, field_observations,
	photo_url, latitude, longitude, created_at`

// Create inserts a new property. The decomposed address fields are the
// source of truth; the legacy property_number and address columns are
// rewritten from them so pre-migration readers keep working.
func (s *PropertyStore) Create(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.PropertyNumber = p.RegistrationNumber
	p.Address = p.JoinedAddress()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO properties (
			id, user_id, property_number, registration_number, water_meter_number,
			address, street, door_number, complement, field_observations,
			photo_url, latitude, longitude, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.PropertyNumber, p.RegistrationNumber, p.WaterMeterNumber,
		p.Address, p.Street, p.DoorNumber, p.Complement, p.FieldObservations,
		p.PhotoURL, p.Latitude, p.Longitude, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	return s.GetByID(ctx, p.ID)
}

func (s *PropertyStore) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+propertyColumns+` FROM properties WHERE id = ?
	`, id)

	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return p, nil
}

// List returns every property, newest first.
func (s *PropertyStore) List(ctx context.Context) ([]*domain.Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+propertyColumns+` FROM properties ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []*domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}

	return properties, nil
}

// Update overwrites every mutable field of the property. The owner and
// creation timestamp are immutable.
func (s *PropertyStore) Update(ctx context.Context, p *domain.Property) error {
	p.PropertyNumber = p.RegistrationNumber
	p.Address = p.JoinedAddress()

	result, err := s.db.ExecContext(ctx, `
		UPDATE properties SET
			property_number = ?, registration_number = ?, water_meter_number = ?,
			address = ?, street = ?, door_number = ?, complement = ?,
			field_observations = ?, photo_url = ?, latitude = ?, longitude = ?
		WHERE id = ?
	`, p.PropertyNumber, p.RegistrationNumber, p.WaterMeterNumber,
		p.Address, p.Street, p.DoorNumber, p.Complement,
		p.FieldObservations, p.PhotoURL, p.Latitude, p.Longitude, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("property not found")
	}
	return nil
}

func (s *PropertyStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM properties WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("property not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (*domain.Property, error) {
	p := &domain.Property{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.PropertyNumber, &p.RegistrationNumber, &p.WaterMeterNumber,
		&p.Address, &p.Street, &p.DoorNumber, &p.Complement, &p.FieldObservations,
		&p.PhotoURL, &p.Latitude, &p.Longitude, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Normalize()
	return p, nil
}
