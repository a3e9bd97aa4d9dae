package validation

import (
	"fmt"
	"unicode"
)

const minPasswordLength = 8

// ValidatePassword проверяет сложность пароля: минимум 8 символов,
// хотя бы одна заглавная и строчная буква и цифра.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("пароль должен содержать не менее %d символов", minPasswordLength)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("пароль должен содержать хотя бы одну заглавную букву")
	}
	if !hasLower {
		return fmt.Errorf("пароль должен содержать хотя бы одну строчную букву")
	}
	if !hasDigit {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}
	return nil
}
