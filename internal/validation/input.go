package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinTitleLength       = 3
	MaxTitleLength       = 255
	MinDescriptionLength = 3
	MaxDescriptionLength = 5000
	MaxAddressLength     = 500
	MaxNotesLength       = 2000
	MaxEmailLength       = 255
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return fmt.Errorf("email слишком длинный")
	}
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("некорректный формат email")
	}
	return nil
}

// ValidateCoordinates проверяет пару широта/долгота. Координаты опциональны,
// но задаются только вместе.
func ValidateCoordinates(latitude, longitude *float64) error {
	if latitude == nil && longitude == nil {
		return nil
	}
	if latitude == nil || longitude == nil {
		return fmt.Errorf("широта и долгота задаются вместе")
	}
	if *latitude < -90 || *latitude > 90 {
		return fmt.Errorf("широта должна быть в диапазоне [-90, 90]")
	}
	if *longitude < -180 || *longitude > 180 {
		return fmt.Errorf("долгота должна быть в диапазоне [-180, 180]")
	}
	return nil
}
