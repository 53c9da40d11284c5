package quiz

import (
	"fmt"
	"sync"
)

// Sequencer проводит пользователя по вопросам квиза по одному.
// Одна сессия — от Begin до Complete или до следующего Begin.
type Sequencer struct {
	quiz      *Quiz
	current   int
	answers   Answers
	submitted bool
	mu        sync.Mutex
}

// NewSequencer создаёт Sequencer, стоящий на первом вопросе.
func NewSequencer(quiz *Quiz) *Sequencer {
	s := &Sequencer{quiz: quiz}
	s.reset()

	return s
}

// Begin начинает новую сессию: первый вопрос, ответов нет.
// Вызывается при каждом открытии квиза, чтобы ответы брошенной сессии не попали в новую.
func (s *Sequencer) Begin() Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()

	return s.questionEvent()
}

// Reset — синоним Begin.
func (s *Sequencer) Reset() Event {
	return s.Begin()
}

// Next переходит к следующему вопросу, если он есть.
// Наличие ответа не проверяется: кнопку "далее" скрывает слой представления.
func (s *Sequencer) Next() Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current < len(s.quiz.Questions) {
		s.current++
	}

	return s.questionEvent()
}

// Prev возвращается к предыдущему вопросу, если он есть.
func (s *Sequencer) Prev() Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current > 1 {
		s.current--
	}

	return s.questionEvent()
}

// RecordAnswer записывает (или перезаписывает) ответ на вопрос idx.
func (s *Sequencer) RecordAnswer(idx int, optionID string) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitted {
		return Event{}, ErrAlreadySubmitted
	}

	if idx < 1 || idx > len(s.quiz.Questions) {
		return Event{}, fmt.Errorf("%w: %d", ErrQuestionOutOfRange, idx)
	}

	if _, ok := s.quiz.Questions[idx-1].Option(optionID); !ok {
		return Event{}, fmt.Errorf("%w %q in question %d", ErrUnknownOption, optionID, idx)
	}

	s.answers[idx] = optionID

	return s.questionEvent(), nil
}

// Complete завершает сессию, если отвечены все вопросы.
// Успешно срабатывает ровно один раз за сессию.
func (s *Sequencer) Complete() (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitted {
		return Event{}, ErrAlreadySubmitted
	}

	if len(s.answers) != len(s.quiz.Questions) {
		return Event{}, fmt.Errorf(
			"%w: %d of %d",
			ErrIncompleteAnswers,
			len(s.answers),
			len(s.quiz.Questions),
		)
	}

	s.submitted = true

	return Event{
		Type:    EventTypeCompleted,
		Step:    s.step(),
		Answers: s.answers.Clone(),
	}, nil
}

// Current возвращает текущий шаг.
func (s *Sequencer) Current() Step {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.step()
}

// Answers возвращает копию записанных ответов.
func (s *Sequencer) Answers() Answers {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.answers.Clone()
}

// Submitted сообщает, завершена ли сессия.
func (s *Sequencer) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submitted
}

func (s *Sequencer) reset() {
	s.current = 1
	s.answers = make(Answers, len(s.quiz.Questions))
	s.submitted = false
}

func (s *Sequencer) questionEvent() Event {
	return Event{
		Type: EventTypeQuestion,
		Step: s.step(),
	}
}

func (s *Sequencer) step() Step {
	total := len(s.quiz.Questions)
	selected, answered := s.answers[s.current]

	return Step{
		Index:     s.current,
		Total:     total,
		Question:  s.quiz.Questions[s.current-1],
		Selected:  selected,
		Answered:  len(s.answers),
		CanPrev:   s.current > 1,
		CanNext:   s.current < total && answered,
		CanSubmit: s.current == total && answered && !s.submitted,
	}
}
