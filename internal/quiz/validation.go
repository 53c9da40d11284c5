package quiz

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed questions.json
var defaultQuiz []byte

// LoadQuiz парсит JSON и проверяет квиз.
func LoadQuiz(data []byte) (*Quiz, error) {
	quiz := &Quiz{}
	if err := json.Unmarshal(data, quiz); err != nil {
		return nil, err
	}

	if err := isCorrectQuiz(quiz); err != nil {
		return nil, fmt.Errorf("cannot load quiz, %w", err)
	}

	return quiz, nil
}

// DefaultQuiz возвращает встроенный квиз акции.
func DefaultQuiz() *Quiz {
	quiz, err := LoadQuiz(defaultQuiz)
	if err != nil {
		panic(err)
	}

	return quiz
}

// isCorrectQuiz проверяет на корректность структуру квиза
func isCorrectQuiz(quiz *Quiz) error {
	if quiz.Title == "" {
		return fmt.Errorf("missing field title")
	}

	if len(quiz.Questions) == 0 {
		return fmt.Errorf("need at least one question")
	}

	for i, question := range quiz.Questions {
		if question.Text == "" {
			return fmt.Errorf("missing field text of %d question", i+1)
		}

		if len(question.Options) < 2 {
			return fmt.Errorf("amount of options must be at least two in %d question", i+1)
		}

		seen := make(map[string]struct{}, len(question.Options))
		for _, option := range question.Options {
			if option.ID == "" {
				return fmt.Errorf("missing option id in %d question", i+1)
			}

			if _, ok := seen[option.ID]; ok {
				return fmt.Errorf("duplicate option id %q in %d question", option.ID, i+1)
			}

			seen[option.ID] = struct{}{}
		}
	}

	return nil
}
