package appointment

import "strings"

// SkipValue пропускает необязательное поле.
const SkipValue = "-"

// Draft собирает заявку по одному полю за раз.
type Draft struct {
	appointment Appointment
	step        int
}

// NewDraft создаёт пустую заявку.
func NewDraft() *Draft {
	return &Draft{}
}

// Field возвращает поле, которое заполняется сейчас.
func (d *Draft) Field() Field {
	if d.Done() {
		return ""
	}

	return Fields[d.step]
}

// Done сообщает, что все поля заполнены.
func (d *Draft) Done() bool {
	return d.step >= len(Fields)
}

// Fill проверяет и записывает значение текущего поля.
// При ошибке возвращает сообщение и остаётся на том же поле.
func (d *Draft) Fill(value string) string {
	if d.Done() {
		return ""
	}

	field := d.Field()
	value = strings.TrimSpace(value)

	if !field.Required() && value == SkipValue {
		value = ""
	}

	if field == FieldPhone && value != "" {
		value = FormatPhone(value)
	}

	if msg := ValidateField(field, value); msg != "" {
		return msg
	}

	d.appointment.set(field, value)
	d.step++

	return ""
}

// Appointment возвращает собранную заявку.
func (d *Draft) Appointment() Appointment {
	return d.appointment
}
