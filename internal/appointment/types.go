package appointment

import (
	"errors"
	"strings"
	"time"
)

// Appointment — заявка на запись.
type Appointment struct {
	LastName   string    `json:"lastName"`
	FirstName  string    `json:"firstName"`
	MiddleName string    `json:"middleName,omitempty"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Timestamp  time.Time `json:"timestamp"`
}

// Field — поле формы записи.
type Field string

// Поля формы
const (
	FieldLastName   Field = "lastName"
	FieldFirstName  Field = "firstName"
	FieldMiddleName Field = "middleName"
	FieldPhone      Field = "phone"
	FieldEmail      Field = "email"
)

// Fields — порядок заполнения формы.
var Fields = []Field{FieldLastName, FieldFirstName, FieldMiddleName, FieldPhone, FieldEmail}

// Required сообщает, обязательно ли поле.
func (f Field) Required() bool {
	return f != FieldMiddleName
}

// FieldErrors — сообщения об ошибках по полям.
type FieldErrors map[Field]string

// Error собирает ошибки в одну строку в порядке полей формы.
func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, field := range Fields {
		if msg, ok := e[field]; ok {
			parts = append(parts, string(field)+": "+msg)
		}
	}

	return strings.Join(parts, "; ")
}

// Unwrap позволяет сравнивать FieldErrors с ErrValidation.
func (e FieldErrors) Unwrap() error {
	return ErrValidation
}

// Ошибки заявки
var ErrValidation = errors.New("validation error")
