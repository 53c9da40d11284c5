package appointment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameRe  = regexp.MustCompile(`^[а-яА-ЯёЁa-zA-Z\s-]+$`)
)

// Сообщения об ошибках
const (
	msgRequired     = "Это поле обязательно для заполнения"
	msgLastName     = "Фамилия обязательна для заполнения"
	msgFirstName    = "Имя обязательно для заполнения"
	msgPhone        = "Телефон обязателен для заполнения"
	msgEmail        = "Email обязателен для заполнения"
	msgBadLastName  = "Фамилия может содержать только буквы"
	msgBadFirstName = "Имя может содержать только буквы"
	msgBadMiddle    = "Отчество может содержать только буквы"
	msgBadPhone     = "Введите корректный номер телефона"
	msgBadEmail     = "Введите корректный email"
	msgTooLong      = "Слишком длинное значение"
)

// MaxFieldLength ограничивает длину любого поля.
const MaxFieldLength = 100

// IsRequired проверяет, что значение не пустое.
func IsRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

// IsEmail проверяет формат email.
func IsEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsPhone проверяет российский номер: 11 цифр, первая 7.
func IsPhone(phone string) bool {
	digits := onlyDigits(phone)

	return len(digits) == 11 && digits[0] == '7'
}

// IsName проверяет, что в строке только буквы, пробелы и дефисы.
func IsName(name string) bool {
	return nameRe.MatchString(name)
}

// MinLength проверяет минимальную длину в символах.
func MinLength(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}

// MaxLength проверяет максимальную длину в символах.
func MaxLength(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// FormatPhone применяет маску "+7 (XXX) XXX-XX-XX" к введённым цифрам.
// Ведущая 8 заменяется на 7; неполный номер форматируется частично.
func FormatPhone(raw string) string {
	digits := onlyDigits(raw)
	if digits == "" {
		return raw
	}

	if digits[0] == '8' {
		digits = "7" + digits[1:]
	}

	if len(digits) > 11 {
		digits = digits[:11]
	}

	var b strings.Builder

	b.WriteString("+7")

	if len(digits) > 1 {
		b.WriteString(" (" + digits[1:min(4, len(digits))])
	}

	if len(digits) >= 5 {
		b.WriteString(") " + digits[4:min(7, len(digits))])
	}

	if len(digits) >= 8 {
		b.WriteString("-" + digits[7:min(9, len(digits))])
	}

	if len(digits) >= 10 {
		b.WriteString("-" + digits[9:])
	}

	return b.String()
}

// ValidateField проверяет одно поле и возвращает сообщение об ошибке или "".
func ValidateField(field Field, value string) string {
	value = strings.TrimSpace(value)

	if !IsRequired(value) {
		switch field {
		case FieldMiddleName:
			return ""
		case FieldLastName:
			return msgLastName
		case FieldFirstName:
			return msgFirstName
		case FieldPhone:
			return msgPhone
		case FieldEmail:
			return msgEmail
		default:
			return msgRequired
		}
	}

	if !MaxLength(value, MaxFieldLength) {
		return msgTooLong
	}

	switch field {
	case FieldLastName:
		if !IsName(value) {
			return msgBadLastName
		}
	case FieldFirstName:
		if !IsName(value) {
			return msgBadFirstName
		}
	case FieldMiddleName:
		if !IsName(value) {
			return msgBadMiddle
		}
	case FieldPhone:
		if !IsPhone(value) {
			return msgBadPhone
		}
	case FieldEmail:
		if !IsEmail(value) {
			return msgBadEmail
		}
	}

	return ""
}

// Validate проверяет все поля заявки.
func Validate(a Appointment) FieldErrors {
	errs := make(FieldErrors)

	for _, field := range Fields {
		if msg := ValidateField(field, a.Value(field)); msg != "" {
			errs[field] = msg
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

// Value возвращает значение поля заявки.
func (a Appointment) Value(field Field) string {
	switch field {
	case FieldLastName:
		return a.LastName
	case FieldFirstName:
		return a.FirstName
	case FieldMiddleName:
		return a.MiddleName
	case FieldPhone:
		return a.Phone
	case FieldEmail:
		return a.Email
	default:
		return ""
	}
}

// set записывает значение поля заявки.
func (a *Appointment) set(field Field, value string) {
	switch field {
	case FieldLastName:
		a.LastName = value
	case FieldFirstName:
		a.FirstName = value
	case FieldMiddleName:
		a.MiddleName = value
	case FieldPhone:
		a.Phone = value
	case FieldEmail:
		a.Email = value
	}
}

func onlyDigits(s string) string {
	var b strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
