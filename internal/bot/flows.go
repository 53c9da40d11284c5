package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/letsssgooo/promoBot/internal/appointment"
	"github.com/letsssgooo/promoBot/internal/client"
	"github.com/letsssgooo/promoBot/internal/coupon"
	"github.com/letsssgooo/promoBot/internal/notify"
	"github.com/letsssgooo/promoBot/internal/quiz"
	"github.com/letsssgooo/promoBot/internal/reviews"
)

// startQuiz открывает квиз, если пользователь может получить купон.
// Каждое открытие начинает квиз заново.
func (b *Bot) startQuiz(ctx context.Context, chatID, userID int64) error {
	if !b.timer.Now().Active() {
		return b.notice(ctx, chatID, notify.New(notify.Info, msgPromoNotActive))
	}

	result, err := b.gate.TryStart(ctx, userKey(userID))
	if err != nil {
		slog.Error("failed to check coupon eligibility", "user", userID, "error", err)
		return b.notice(ctx, chatID, notify.New(notify.Error, msgStoreUnavailable))
	}

	switch result {
	case coupon.AlreadyClaimed:
		return b.notice(ctx, chatID, notify.New(notify.Warning, msgAlreadyClaimed))
	case coupon.SoldOut:
		return b.notice(ctx, chatID, notify.New(notify.Warning, msgSoldOut))
	}

	s := b.session(chatID, userID)
	if s.seq == nil {
		s.seq = quiz.NewSequencer(b.quiz)
	}

	if s.quizMsgID != 0 {
		if err = b.sender.Delete(ctx, chatID, s.quizMsgID); err != nil {
			slog.Warn("failed to delete stale quiz message", "chat", chatID, "error", err)
		}
	}

	event := s.seq.Begin()

	msg, err := b.sender.Message(ctx, chatID, questionText(b.quiz.Title, event.Step), questionKeyboard(event.Step))
	if err != nil {
		return err
	}

	s.quizMsgID = msg.MessageID

	slog.Info("quiz started", "user", userID)

	return nil
}

// handleQuizCallback принимает нажатия только от того, кто открыл квиз:
// в чужой сессии сообщения с этим ID нет.
func (b *Bot) handleQuizCallback(ctx context.Context, cq *client.CallbackQuery, chatID, userID int64) error {
	s := b.session(chatID, userID)

	if s.seq == nil || cq.Message.MessageID != s.quizMsgID {
		return b.sender.Toast(ctx, cq.ID, msgQuizExpired)
	}

	var (
		event quiz.Event
		toast string
		err   error
	)

	switch cq.Data {
	case cbQuizPrev:
		event = s.seq.Prev()
	case cbQuizNext:
		event = s.seq.Next()
	case cbQuizClose:
		return b.closeQuiz(ctx, cq, chatID, s)
	case cbQuizSubmit:
		return b.submitQuiz(ctx, cq, chatID, userID, s)
	default:
		idx, optionID, perr := parseAnswerData(cq.Data)
		if perr != nil {
			slog.Warn("bad quiz callback", "data", cq.Data, "error", perr)
			return b.sender.Toast(ctx, cq.ID, "")
		}

		event, err = s.seq.RecordAnswer(idx, optionID)
		if err != nil {
			slog.Warn("answer rejected", "user", userID, "error", err)
			return b.sender.Toast(ctx, cq.ID, msgQuizExpired)
		}

		toast = msgAnswerSaved
	}

	err = b.sender.Edit(ctx, chatID, s.quizMsgID, questionText(b.quiz.Title, event.Step), questionKeyboard(event.Step))

	return errors.Join(err, b.sender.Toast(ctx, cq.ID, toast))
}

// closeQuiz бросает квиз: ответы никуда не пишутся, купоны не тратятся.
func (b *Bot) closeQuiz(ctx context.Context, cq *client.CallbackQuery, chatID int64, s *session) error {
	err := b.sender.Delete(ctx, chatID, s.quizMsgID)
	s.seq, s.quizMsgID = nil, 0

	return errors.Join(err, b.sender.Toast(ctx, cq.ID, ""))
}

func (b *Bot) submitQuiz(ctx context.Context, cq *client.CallbackQuery, chatID, userID int64, s *session) error {
	event, err := s.seq.Complete()
	if err != nil {
		if errors.Is(err, quiz.ErrIncompleteAnswers) {
			return b.sender.Toast(ctx, cq.ID, msgQuizIncomplete)
		}

		return b.sender.Toast(ctx, cq.ID, msgQuizExpired)
	}

	msgID := s.quizMsgID
	s.seq, s.quizMsgID = nil, 0

	award, err := b.gate.OnQuizComplete(ctx, userKey(userID), event.Answers)

	var n notify.Notice

	switch {
	case err == nil:
		n = notify.New(notify.Success, msgCouponAwarded+"\n\n"+fmt.Sprintf(msgCouponCode, award.Submission.ID))
	case errors.Is(err, coupon.ErrAlreadyClaimed):
		n = notify.New(notify.Warning, msgAlreadyClaimed)
	case errors.Is(err, coupon.ErrSoldOut):
		n = notify.New(notify.Warning, msgSoldOut)
	default:
		slog.Error("failed to award coupon", "user", userID, "error", err)
		n = notify.New(notify.Error, msgAwardFailed)
	}

	err = b.sender.Edit(ctx, chatID, msgID, n.String(), nil)

	return errors.Join(err, b.sender.Toast(ctx, cq.ID, ""))
}

func (b *Bot) startAppointment(ctx context.Context, chatID, userID int64) error {
	if !b.timer.Now().Active() {
		return b.notice(ctx, chatID, notify.New(notify.Info, msgPromoNotActive))
	}

	s := b.session(chatID, userID)
	s.draft = appointment.NewDraft()

	return b.send(ctx, chatID, fieldPrompt(s.draft.Field()), nil)
}

// fillAppointment принимает значение очередного поля заявки.
func (b *Bot) fillAppointment(ctx context.Context, chatID int64, s *session, text string) error {
	if msg := s.draft.Fill(text); msg != "" {
		return b.send(ctx, chatID, notify.New(notify.Error, msg).String()+"\n\n"+fieldPrompt(s.draft.Field()), nil)
	}

	if !s.draft.Done() {
		return b.send(ctx, chatID, fieldPrompt(s.draft.Field()), nil)
	}

	a := s.draft.Appointment()
	s.draft = nil

	if _, err := b.appointments.Submit(ctx, a); err != nil {
		slog.Error("failed to save appointment", "chat", chatID, "error", err)
		return b.notice(ctx, chatID, notify.New(notify.Error, msgStoreUnavailable))
	}

	return b.notice(ctx, chatID, notify.New(notify.Success, msgAppointmentSaved))
}

func fieldPrompt(field appointment.Field) string {
	prompt := fieldPrompts[field]
	if !field.Required() {
		prompt += msgSkipHint
	}

	return prompt
}

func (b *Bot) showReviews(ctx context.Context, chatID, userID int64) error {
	list, err := b.reviews.Fetch(ctx)
	if err != nil {
		slog.Error("failed to fetch reviews", "error", err)
		return b.notice(ctx, chatID, notify.New(notify.Error, msgReviewsUnavailable))
	}

	if len(list) == 0 {
		return b.notice(ctx, chatID, notify.New(notify.Info, msgNoReviews))
	}

	s := b.session(chatID, userID)
	s.slider = reviews.NewSlider(list, reviewsPerView)

	msg, err := b.sender.Message(ctx, chatID, reviewsText(s.slider), reviewsKeyboard(s.slider))
	if err != nil {
		return err
	}

	s.sliderMsgID = msg.MessageID

	return nil
}

func (b *Bot) handleReviewsCallback(ctx context.Context, cq *client.CallbackQuery, chatID, userID int64) error {
	s := b.session(chatID, userID)

	if s.slider == nil || cq.Message.MessageID != s.sliderMsgID {
		return b.sender.Toast(ctx, cq.ID, "")
	}

	moved := s.slider.Next
	if cq.Data == cbReviewsPrev {
		moved = s.slider.Prev
	}

	var err error
	if moved() {
		err = b.sender.Edit(ctx, chatID, s.sliderMsgID, reviewsText(s.slider), reviewsKeyboard(s.slider))
	}

	return errors.Join(err, b.sender.Toast(ctx, cq.ID, ""))
}

func (b *Bot) showTimer(ctx context.Context, chatID int64) error {
	state := b.timer.Now()
	if !state.Active() {
		return b.notice(ctx, chatID, notify.New(notify.Info, state.Message))
	}

	r := state.Remaining

	return b.send(ctx, chatID, fmt.Sprintf(msgTimerActive, r.Days, r.Hours, r.Minutes, r.Seconds), nil)
}

func (b *Bot) showStatus(ctx context.Context, chatID int64) error {
	status, err := b.gate.Status(ctx)
	if err != nil {
		slog.Error("failed to read coupon status", "error", err)
		return b.notice(ctx, chatID, notify.New(notify.Error, msgStoreUnavailable))
	}

	switch status.Tier {
	case coupon.TierEmpty:
		return b.notice(ctx, chatID, notify.New(notify.Warning, msgStatusEmpty))
	case coupon.TierLow:
		return b.notice(ctx, chatID, notify.New(notify.Warning, fmt.Sprintf(msgStatusLow, status.Remaining)))
	default:
		return b.notice(ctx, chatID, notify.New(notify.Info, fmt.Sprintf(msgStatusNormal, status.Remaining, status.Total)))
	}
}
