package notify

// Kind — тип уведомления.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
	Warning Kind = "warning"
)

var icons = map[Kind]string{
	Success: "✓",
	Error:   "✕",
	Info:    "ℹ",
	Warning: "⚠",
}

// Icon возвращает значок типа; неизвестный тип получает значок Info.
func (k Kind) Icon() string {
	if icon, ok := icons[k]; ok {
		return icon
	}

	return icons[Info]
}

// Notice — уведомление пользователю.
type Notice struct {
	Kind Kind
	Text string
}

// String возвращает текст со значком.
func (n Notice) String() string {
	return n.Kind.Icon() + " " + n.Text
}

// New создаёт уведомление.
func New(kind Kind, text string) Notice {
	return Notice{Kind: kind, Text: text}
}
