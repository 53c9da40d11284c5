package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/letsssgooo/promoBot/internal/client"
	"github.com/letsssgooo/promoBot/internal/quiz"
	"github.com/letsssgooo/promoBot/internal/reviews"
)

// Данные callback-кнопок
const (
	cbMenuCoupon      = "menu:coupon"
	cbMenuAppointment = "menu:appointment"
	cbMenuReviews     = "menu:reviews"
	cbMenuTimer       = "menu:timer"
	cbMenuStatus      = "menu:status"

	cbQuizAnswer = "quiz:ans"
	cbQuizPrev   = "quiz:prev"
	cbQuizNext   = "quiz:next"
	cbQuizSubmit = "quiz:submit"
	cbQuizClose  = "quiz:close"

	cbReviewsPrev = "rev:prev"
	cbReviewsNext = "rev:next"
)

func button(text, data string) client.InlineKeyboardButton {
	return client.InlineKeyboardButton{Text: text, CallbackData: data}
}

func withKeyboard(rows ...[]client.InlineKeyboardButton) *client.SendOptions {
	return &client.SendOptions{
		ReplyMarkup: &client.InlineKeyboardMarkup{InlineKeyboard: rows},
	}
}

// menuKeyboard строит главное меню. После получения купона кнопка подписана
// "Купон получен"; нажатие на неё отвечает, что купон уже выдан.
func menuKeyboard(claimed bool) *client.SendOptions {
	coupon := btnCoupon
	if claimed {
		coupon = btnCouponClaimed
	}

	return withKeyboard(
		[]client.InlineKeyboardButton{button(coupon, cbMenuCoupon)},
		[]client.InlineKeyboardButton{button(btnAppointment, cbMenuAppointment)},
		[]client.InlineKeyboardButton{button(btnReviews, cbMenuReviews)},
		[]client.InlineKeyboardButton{
			button(btnTimer, cbMenuTimer),
			button(btnStatus, cbMenuStatus),
		},
	)
}

// answerData кодирует ответ как quiz:ans:<номер вопроса>:<ID варианта>.
func answerData(idx int, optionID string) string {
	return fmt.Sprintf("%s:%d:%s", cbQuizAnswer, idx, optionID)
}

func parseAnswerData(data string) (int, string, error) {
	rest, ok := strings.CutPrefix(data, cbQuizAnswer+":")
	if !ok {
		return 0, "", fmt.Errorf("not an answer callback: %q", data)
	}

	rawIdx, optionID, ok := strings.Cut(rest, ":")
	if !ok || optionID == "" {
		return 0, "", fmt.Errorf("malformed answer callback: %q", data)
	}

	idx, err := strconv.Atoi(rawIdx)
	if err != nil {
		return 0, "", fmt.Errorf("malformed question index in %q: %w", data, err)
	}

	return idx, optionID, nil
}

func questionText(title string, step quiz.Step) string {
	var b strings.Builder

	b.WriteString(title)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Вопрос %d из %d\n", step.Index, step.Total)
	b.WriteString(progressBar(step))
	b.WriteString("\n\n")
	b.WriteString(step.Question.Text)

	return b.String()
}

func progressBar(step quiz.Step) string {
	filled := int(step.Progress() * float64(step.Total))

	return strings.Repeat("▰", filled) + strings.Repeat("▱", step.Total-filled)
}

func questionKeyboard(step quiz.Step) *client.SendOptions {
	rows := make([][]client.InlineKeyboardButton, 0, len(step.Question.Options)+2)

	for _, option := range step.Question.Options {
		mark := "○ "
		if option.ID == step.Selected {
			mark = "● "
		}

		rows = append(rows, []client.InlineKeyboardButton{
			button(mark+option.Text, answerData(step.Index, option.ID)),
		})
	}

	var nav []client.InlineKeyboardButton
	if step.CanPrev {
		nav = append(nav, button(btnPrev, cbQuizPrev))
	}

	if step.CanNext {
		nav = append(nav, button(btnNext, cbQuizNext))
	}

	if step.CanSubmit {
		nav = append(nav, button(btnSubmit, cbQuizSubmit))
	}

	if len(nav) != 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, []client.InlineKeyboardButton{button(btnClose, cbQuizClose)})

	return withKeyboard(rows...)
}

func reviewsText(slider *reviews.Slider) string {
	cards := make([]string, 0, len(slider.Visible()))
	for _, r := range slider.Visible() {
		cards = append(cards, reviews.Card(r))
	}

	dots := make([]string, slider.Pages())
	for i := range dots {
		dots[i] = "○"
		if i == slider.ActivePage() {
			dots[i] = "●"
		}
	}

	return strings.Join(cards, "\n\n———\n\n") + "\n\n" + strings.Join(dots, " ")
}

func reviewsKeyboard(slider *reviews.Slider) *client.SendOptions {
	var nav []client.InlineKeyboardButton
	if slider.CanPrev() {
		nav = append(nav, button(btnPrev, cbReviewsPrev))
	}

	if slider.CanNext() {
		nav = append(nav, button(btnNext, cbReviewsNext))
	}

	if len(nav) == 0 {
		return nil
	}

	return withKeyboard(nav)
}
