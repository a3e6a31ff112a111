package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Property is one field-collected site. The record shape went through two
// schema revisions: the legacy one identified a site by PropertyNumber and a
// single free-text Address, the current one uses RegistrationNumber and the
// decomposed Street/DoorNumber/Complement columns. Both sets are persisted
// for compatibility; Normalize resolves a row to the current shape and the
// decomposed fields are the source of truth everywhere else.
type Property struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	PropertyNumber     string    `json:"property_number"`
	RegistrationNumber string    `json:"registration_number"`
	WaterMeterNumber   string    `json:"water_meter_number,omitempty"`
	Address            string    `json:"address"`
	Street             string    `json:"street"`
	DoorNumber         string    `json:"door_number,omitempty"`
	Complement         string    `json:"complement,omitempty"`
	FieldObservations  string    `json:"field_observations,omitempty"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	PhotoURL           string    `json:"photo_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Normalize resolves the two schema revisions to the current one. Rows
// written before the address decomposition carry only PropertyNumber and
// Address; rows written after carry both sets. Legacy values never override
// decomposed ones.
func (p *Property) Normalize() {
	if p.RegistrationNumber == "" {
		p.RegistrationNumber = p.PropertyNumber
	}
	if p.Street == "" {
		p.Street = p.Address
	}
	if p.PropertyNumber == "" {
		p.PropertyNumber = p.RegistrationNumber
	}
	p.Address = p.JoinedAddress()
}

// JoinedAddress derives the legacy single-line address from the decomposed
// fields: "street, door - complement" with empty parts omitted.
func (p *Property) JoinedAddress() string {
	var b strings.Builder
	b.WriteString(p.Street)
	if p.DoorNumber != "" {
		b.WriteString(", ")
		b.WriteString(p.DoorNumber)
	}
	if p.Complement != "" {
		b.WriteString(" - ")
		b.WriteString(p.Complement)
	}
	return b.String()
}

// PropertyPhoto is a child entity of a Property, ordered by CreatedAt for
// display.
type PropertyPhoto struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	PhotoName  string    `json:"photo_name"`
	PhotoURL   string    `json:"photo_url"`
	CreatedAt  time.Time `json:"created_at"`
}
