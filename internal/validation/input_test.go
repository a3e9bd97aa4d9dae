package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.example.org"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("user@"))
	assert.Error(t, ValidateEmail("@example.com"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestValidateLength(t *testing.T) {
	assert.NoError(t, ValidateLength("заголовок", "Свалка", MinTitleLength, MaxTitleLength))
	assert.Error(t, ValidateLength("заголовок", "ab", MinTitleLength, MaxTitleLength))
	assert.Error(t, ValidateLength("заголовок", strings.Repeat("я", MaxTitleLength+1), MinTitleLength, MaxTitleLength))

	// Длина считается в рунах, не в байтах.
	assert.NoError(t, ValidateLength("заголовок", "мой", 3, 3))
}

func TestValidateCoordinates(t *testing.T) {
	lat, lng := 55.75, 37.62
	badLat, badLng := 91.0, 181.0

	assert.NoError(t, ValidateCoordinates(nil, nil))
	assert.NoError(t, ValidateCoordinates(&lat, &lng))

	assert.Error(t, ValidateCoordinates(&lat, nil))
	assert.Error(t, ValidateCoordinates(nil, &lng))
	assert.Error(t, ValidateCoordinates(&badLat, &lng))
	assert.Error(t, ValidateCoordinates(&lat, &badLng))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Password123"))

	assert.Error(t, ValidatePassword("Pass1"))
	assert.Error(t, ValidatePassword("password123"))
	assert.Error(t, ValidatePassword("PASSWORD123"))
	assert.Error(t, ValidatePassword("PasswordOnly"))
}
