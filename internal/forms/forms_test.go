package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() *PropertyPayload {
	lat, lng := -1.46, -48.49
	return &PropertyPayload{
		RegistrationNumber: "1234",
		Street:             "Rua X",
		Latitude:           &lat,
		Longitude:          &lng,
	}
}

func TestValidPropertyPasses(t *testing.T) {
	assert.Nil(t, ValidateProperty(validPayload()))
}

func TestCoordinatesRequiredPrecedesSchema(t *testing.T) {
	// Even with every other field invalid, missing coordinates win.
	p := &PropertyPayload{}
	err := ValidateProperty(p)
	require.NotNil(t, err)
	assert.Equal(t, ErrCoordinatesRequired, err)
}

func TestRegistrationNumberRequired(t *testing.T) {
	p := validPayload()
	p.RegistrationNumber = "   "
	err := ValidateProperty(p)
	require.NotNil(t, err)
	assert.Equal(t, "Matrícula é obrigatória", err.Message)
}

func TestRegistrationNumberTooLong(t *testing.T) {
	p := validPayload()
	p.RegistrationNumber = strings.Repeat("9", 51)
	err := ValidateProperty(p)
	require.NotNil(t, err)
	assert.Equal(t, "Matrícula deve ter no máximo 50 caracteres", err.Message)
}

func TestStreetRequired(t *testing.T) {
	p := validPayload()
	p.Street = ""
	err := ValidateProperty(p)
	require.NotNil(t, err)
	assert.Equal(t, "Endereço é obrigatório", err.Message)
}

func TestCoordinateRanges(t *testing.T) {
	for _, tc := range []struct {
		name     string
		lat, lng float64
		ok       bool
	}{
		{"valid extremes", -90, 180, true},
		{"lat too small", -90.0001, 0, false},
		{"lat too big", 90.0001, 0, false},
		{"lng too small", 0, -180.0001, false},
		{"lng too big", 0, 180.0001, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayload()
			p.Latitude = &tc.lat
			p.Longitude = &tc.lng
			err := ValidateProperty(p)
			if tc.ok {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
			}
		})
	}
}

func TestFirstViolationWins(t *testing.T) {
	p := validPayload()
	p.RegistrationNumber = ""
	p.Street = ""
	err := ValidateProperty(p)
	require.NotNil(t, err)
	assert.Equal(t, "Matrícula é obrigatória", err.Message)
}

func TestTrimBeforeValidate(t *testing.T) {
	p := validPayload()
	p.RegistrationNumber = "  1234  "
	require.Nil(t, ValidateProperty(p))
	assert.Equal(t, "1234", p.RegistrationNumber)
}

func TestValidateRegister(t *testing.T) {
	err := ValidateRegister(&RegisterPayload{Email: "not-an-email", Password: "segredo1", FullName: "Ana"})
	require.NotNil(t, err)
	assert.Equal(t, "Email inválido", err.Message)

	err = ValidateRegister(&RegisterPayload{Email: "ana@example.com", Password: "12345", FullName: "Ana"})
	require.NotNil(t, err)
	assert.Equal(t, "A senha deve ter no mínimo 6 caracteres", err.Message)

	err = ValidateRegister(&RegisterPayload{Email: "ana@example.com", Password: "segredo1", FullName: "A"})
	require.NotNil(t, err)
	assert.Equal(t, "Nome deve ter no mínimo 2 caracteres", err.Message)

	assert.Nil(t, ValidateRegister(&RegisterPayload{Email: "ana@example.com", Password: "segredo1", FullName: "Ana"}))
}

func TestValidateLogin(t *testing.T) {
	assert.Nil(t, ValidateLogin(&LoginPayload{Email: "ana@example.com", Password: "segredo1"}))
	assert.NotNil(t, ValidateLogin(&LoginPayload{Email: "", Password: "segredo1"}))
}
