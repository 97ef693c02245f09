package validation

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

const (
	// MinPasswordLength задаёт минимальную длину пароля в символах.
	MinPasswordLength = 8
	// MaxPasswordBytes ограничивает длину пароля: bcrypt учитывает
	// только первые 72 байта, всё сверх них молча отбрасывается.
	MaxPasswordBytes = 72
)

// ValidatePassword проверяет пароль оператора перед хешированием.
// Требуется не менее 8 символов, хотя бы одна буква и хотя бы одна цифра.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return errors.New("пароль должен быть не менее 8 символов")
	}
	if len(password) > MaxPasswordBytes {
		return errors.New("пароль слишком длинный, максимум 72 байта")
	}

	hasLetter := false
	hasDigit := false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter {
		return errors.New("пароль должен содержать хотя бы одну букву")
	}
	if !hasDigit {
		return errors.New("пароль должен содержать хотя бы одну цифру")
	}

	return nil
}
