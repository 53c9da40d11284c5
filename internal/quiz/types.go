package quiz

import (
	"errors"
)

// Quiz представляет набор вопросов купонного квиза.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question представляет вопрос квиза.
type Question struct {
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// Option представляет вариант ответа.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Option возвращает вариант ответа по ID.
func (q Question) Option(id string) (Option, bool) {
	for _, option := range q.Options {
		if option.ID == id {
			return option, true
		}
	}

	return Option{}, false
}

// Answers — ответы пользователя: номер вопроса (с 1) -> ID варианта.
type Answers map[int]string

// Clone возвращает копию ответов.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}

	return out
}

// Step описывает текущее положение пользователя в квизе.
type Step struct {
	Index     int // номер вопроса, с 1
	Total     int
	Question  Question
	Selected  string // ID выбранного варианта или ""
	Answered  int    // сколько вопросов уже отвечено
	CanPrev   bool
	CanNext   bool
	CanSubmit bool
}

// Progress возвращает долю пройденного квиза (Index/Total).
func (s Step) Progress() float64 {
	if s.Total == 0 {
		return 0
	}

	return float64(s.Index) / float64(s.Total)
}

// IsLast сообщает, что текущий вопрос последний.
func (s Step) IsLast() bool {
	return s.Index == s.Total
}

// Event — уведомление о переходе в квизе.
type Event struct {
	Type    EventType
	Step    Step
	Answers Answers // только для EventTypeCompleted
}

// EventType — тип события квиза.
type EventType string

const (
	EventTypeQuestion  EventType = "question"
	EventTypeCompleted EventType = "completed"
)

// Ошибки квиза
var (
	ErrIncompleteAnswers  = errors.New("not all questions answered")
	ErrAlreadySubmitted   = errors.New("quiz already submitted")
	ErrQuestionOutOfRange = errors.New("question index out of range")
	ErrUnknownOption      = errors.New("unknown option")
)
