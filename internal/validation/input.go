package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength     = 3
	MaxUsernameLength     = 30
	MinClientNameLength   = 1
	MaxClientNameLength   = 200
	MaxCompanyLength      = 200
	MaxPhoneLength        = 30
	MaxNotesLength        = 2000
	MinTemplateNameLength = 1
	MaxTemplateNameLength = 150
	MaxTemplateBodyLength = 100000
	MinProposalTitleLen   = 3
	MaxProposalTitleLen   = 200
	MaxSectionLength      = 20000
	MinValidityDays       = 1
	MaxValidityDays       = 365
	MinAmount             = 0.0
	MaxAmount             = 100000000.0 // 100 миллионов
)

// ValidateLength проверяет длину строки.
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

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	// Базовая проверка формата
	if !strings.Contains(email, "@") {
		return fmt.Errorf("email должен содержать символ @")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	// Проверка на валидные символы в локальной части
	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	// Проверка на валидные символы в доменной части
	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	// Проверка длины
	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	// Проверка на допустимые символы (только буквы, цифры и подчеркивание)
	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	// Проверка, что не начинается с цифры
	if len(username) > 0 && unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateClientName проверяет имя клиента.
func ValidateClientName(name string) error {
	if name == "" {
		return fmt.Errorf("имя клиента обязательно")
	}

	name = strings.TrimSpace(name)

	if err := ValidateLength("имя клиента", name, MinClientNameLength, MaxClientNameLength); err != nil {
		return err
	}

	return nil
}

// ValidateCompany проверяет название компании клиента.
func ValidateCompany(company *string) error {
	if company != nil && *company != "" {
		c := strings.TrimSpace(*company)
		if err := ValidateLength("название компании", c, 0, MaxCompanyLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePhone проверяет телефон клиента.
func ValidatePhone(phone *string) error {
	if phone != nil && *phone != "" {
		p := strings.TrimSpace(*phone)

		if err := ValidateLength("телефон", p, 0, MaxPhoneLength); err != nil {
			return err
		}

		phoneRegex := regexp.MustCompile(`^\+?[0-9\s\-().]+$`)
		if !phoneRegex.MatchString(p) {
			return fmt.Errorf("телефон содержит недопустимые символы")
		}
	}
	return nil
}

// ValidateNotes проверяет заметки о клиенте.
func ValidateNotes(notes *string) error {
	if notes != nil && *notes != "" {
		n := strings.TrimSpace(*notes)
		if err := ValidateLength("заметки", n, 0, MaxNotesLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTemplateName проверяет название шаблона.
func ValidateTemplateName(name string) error {
	if name == "" {
		return fmt.Errorf("название шаблона обязательно")
	}

	name = strings.TrimSpace(name)

	if err := ValidateLength("название шаблона", name, MinTemplateNameLength, MaxTemplateNameLength); err != nil {
		return err
	}

	return nil
}

// ValidateTemplateBody проверяет тело шаблона.
func ValidateTemplateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("тело шаблона обязательно")
	}

	if err := ValidateLength("тело шаблона", body, 0, MaxTemplateBodyLength); err != nil {
		return err
	}

	return nil
}

// ValidateProposalTitle проверяет заголовок предложения.
func ValidateProposalTitle(title string) error {
	if title == "" {
		return fmt.Errorf("заголовок предложения обязателен")
	}

	title = strings.TrimSpace(title)

	if err := ValidateLength("заголовок предложения", title, MinProposalTitleLen, MaxProposalTitleLen); err != nil {
		return err
	}

	return nil
}

// ValidateSection проверяет текстовую секцию предложения.
func ValidateSection(fieldName string, section *string) error {
	if section != nil && *section != "" {
		if err := ValidateLength(fieldName, *section, 0, MaxSectionLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAmount проверяет сумму предложения.
func ValidateAmount(amount *float64) error {
	if amount != nil {
		if *amount < MinAmount {
			return fmt.Errorf("сумма не может быть отрицательной")
		}
		if *amount > MaxAmount {
			return fmt.Errorf("сумма не может превышать %.0f", MaxAmount)
		}
	}
	return nil
}

// ValidateValidityDays проверяет срок действия предложения в днях.
func ValidateValidityDays(days int) error {
	if days < MinValidityDays || days > MaxValidityDays {
		return fmt.Errorf("срок действия должен быть от %d до %d дней", MinValidityDays, MaxValidityDays)
	}
	return nil
}

// ValidateCurrency проверяет код валюты.
func ValidateCurrency(currency string) error {
	if currency == "" {
		return nil
	}

	currencyRegex := regexp.MustCompile(`^[A-Z]{3}$`)
	if !currencyRegex.MatchString(currency) {
		return fmt.Errorf("валюта должна быть трёхбуквенным кодом, например USD")
	}

	return nil
}

