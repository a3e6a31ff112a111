// Package forms validates candidate payloads before they reach the store or
// the network. Validation failures carry the localized message of the first
// violated constraint, matching what the collection UI shows.
package forms

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError is a local constraint violation. It never reaches the
// network: submission is aborted and the message is surfaced as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrCoordinatesRequired is reported when a property payload has no
// coordinates at all. This is distinct from the range checks: the user never
// clicked the map nor used device geolocation.
var ErrCoordinatesRequired = &ValidationError{
	Field:   "coordinates",
	Message: "Clique no mapa ou use sua localização atual",
}

// PropertyPayload is a candidate property record as submitted by the form.
// Coordinates are pointers so "never set" is distinguishable from zero.
type PropertyPayload struct {
	RegistrationNumber string   `json:"registration_number" validate:"required,max=50"`
	WaterMeterNumber   string   `json:"water_meter_number" validate:"omitempty,max=50"`
	Street             string   `json:"street" validate:"required,max=300"`
	DoorNumber         string   `json:"door_number" validate:"omitempty,max=50"`
	Complement         string   `json:"complement" validate:"omitempty,max=100"`
	FieldObservations  string   `json:"field_observations" validate:"omitempty,max=1000"`
	Latitude           *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude          *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// Trim strips surrounding whitespace from every text field, mirroring the
// form's trim-before-validate behavior.
func (p *PropertyPayload) Trim() {
	p.RegistrationNumber = strings.TrimSpace(p.RegistrationNumber)
	p.WaterMeterNumber = strings.TrimSpace(p.WaterMeterNumber)
	p.Street = strings.TrimSpace(p.Street)
	p.DoorNumber = strings.TrimSpace(p.DoorNumber)
	p.Complement = strings.TrimSpace(p.Complement)
	p.FieldObservations = strings.TrimSpace(p.FieldObservations)
}

var propertyMessages = map[string]string{
	"RegistrationNumber.required": "Matrícula é obrigatória",
	"RegistrationNumber.max":      "Matrícula deve ter no máximo 50 caracteres",
	"WaterMeterNumber.max":        "Hidrômetro deve ter no máximo 50 caracteres",
	"Street.required":             "Endereço é obrigatório",
	"Street.max":                  "Endereço deve ter no máximo 300 caracteres",
	"DoorNumber.max":              "Número deve ter no máximo 50 caracteres",
	"Complement.max":              "Complemento deve ter no máximo 100 caracteres",
	"FieldObservations.max":       "Observações devem ter no máximo 1000 caracteres",
	"Latitude.min":                "Latitude inválida",
	"Latitude.max":                "Latitude inválida",
	"Longitude.min":               "Longitude inválida",
	"Longitude.max":               "Longitude inválida",
}

// ValidateProperty checks the payload and returns the first violated
// constraint, coordinates first. A nil return means the payload may be
// submitted.
func ValidateProperty(p *PropertyPayload) *ValidationError {
	if p.Latitude == nil || p.Longitude == nil {
		return ErrCoordinatesRequired
	}
	p.Trim()
	return firstViolation(validate.Struct(p), propertyMessages)
}

// RegisterPayload is a candidate sign-up request.
type RegisterPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
}

// LoginPayload is a candidate sign-in request.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

var authMessages = map[string]string{
	"Email.required":    "Email inválido",
	"Email.email":       "Email inválido",
	"Email.max":         "Email inválido",
	"Password.required": "A senha deve ter no mínimo 6 caracteres",
	"Password.min":      "A senha deve ter no mínimo 6 caracteres",
	"Password.max":      "A senha deve ter no máximo 100 caracteres",
	"FullName.required": "Nome deve ter no mínimo 2 caracteres",
	"FullName.min":      "Nome deve ter no mínimo 2 caracteres",
	"FullName.max":      "Nome deve ter no máximo 100 caracteres",
}

func ValidateRegister(p *RegisterPayload) *ValidationError {
	p.Email = strings.TrimSpace(p.Email)
	p.FullName = strings.TrimSpace(p.FullName)
	return firstViolation(validate.Struct(p), authMessages)
}

func ValidateLogin(p *LoginPayload) *ValidationError {
	p.Email = strings.TrimSpace(p.Email)
	return firstViolation(validate.Struct(p), authMessages)
}

// firstViolation maps the first validator error to its localized message.
func firstViolation(err error, messages map[string]string) *ValidationError {
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &ValidationError{Field: "", Message: "Erro de validação"}
	}
	first := errs[0]
	msg, ok := messages[first.StructField()+"."+first.Tag()]
	if !ok {
		msg = "Erro de validação"
	}
	return &ValidationError{Field: first.StructField(), Message: msg}
}
