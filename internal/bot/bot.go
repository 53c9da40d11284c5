package bot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/letsssgooo/promoBot/internal/appointment"
	"github.com/letsssgooo/promoBot/internal/client"
	"github.com/letsssgooo/promoBot/internal/coupon"
	"github.com/letsssgooo/promoBot/internal/events/fetcher"
	"github.com/letsssgooo/promoBot/internal/events/sender"
	"github.com/letsssgooo/promoBot/internal/notify"
	"github.com/letsssgooo/promoBot/internal/promo"
	"github.com/letsssgooo/promoBot/internal/quiz"
	"github.com/letsssgooo/promoBot/internal/reviews"
)

// Паузы между попытками long polling после ошибки
const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// reviewsPerView — сколько отзывов показывается в одном сообщении.
const reviewsPerView = 1

// ReviewSource отдаёт список отзывов.
type ReviewSource interface {
	Fetch(ctx context.Context) ([]reviews.Review, error)
}

// Deps — зависимости бота.
type Deps struct {
	Gate         *coupon.Gate
	Quiz         *quiz.Quiz
	Timer        *promo.Timer
	Appointments *appointment.Service
	Reviews      ReviewSource
	AdminIDs     []int64
	PollTimeout  int
}

// sessionKey — пользователь в чате. В групповом чате у каждого участника своя сессия.
type sessionKey struct {
	chatID int64
	userID int64
}

// session — состояние диалога пользователя.
type session struct {
	seq         *quiz.Sequencer
	quizMsgID   int
	draft       *appointment.Draft
	slider      *reviews.Slider
	sliderMsgID int
}

// Bot реализует Telegram бота акции.
// Обновления обрабатываются последовательно, по одному.
type Bot struct {
	fetcher      fetcher.Fetcher
	sender       sender.Sender
	gate         *coupon.Gate
	quiz         *quiz.Quiz
	timer        *promo.Timer
	appointments *appointment.Service
	reviews      ReviewSource
	admins       map[int64]struct{}
	pollTimeout  int

	sessions map[sessionKey]*session
	mu       sync.Mutex
}

// NewBot создаёт нового бота поверх Telegram клиента.
func NewBot(c client.Client, deps Deps) *Bot {
	admins := make(map[int64]struct{}, len(deps.AdminIDs))
	for _, id := range deps.AdminIDs {
		admins[id] = struct{}{}
	}

	return &Bot{
		fetcher:      fetcher.NewTelegramFetcher(c),
		sender:       sender.NewSender(c),
		gate:         deps.Gate,
		quiz:         deps.Quiz,
		timer:        deps.Timer,
		appointments: deps.Appointments,
		reviews:      deps.Reviews,
		admins:       admins,
		pollTimeout:  deps.PollTimeout,
		sessions:     make(map[sessionKey]*session),
	}
}

// Run запускает бота (long polling) до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	slog.Info("bot started", "poll_timeout", b.pollTimeout)

	backoff := minBackoff

	for { // long polling
		if ctx.Err() != nil {
			slog.Info("bot stopped")
			return nil
		}

		updates, err := b.fetcher.GetUpdates(ctx, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}

			slog.Error("failed to get updates", "error", err, "retry_in", backoff)

			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}

			backoff = min(backoff*2, maxBackoff)

			continue
		}

		backoff = minBackoff

		for _, update := range updates {
			if err = b.HandleUpdate(ctx, update); err != nil {
				slog.Error("failed to handle update", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}

// HandleUpdate обрабатывает одно обновление.
func (b *Bot) HandleUpdate(ctx context.Context, update client.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Chat != nil:
		return b.handleMessage(ctx, update.Message)
	default:
		slog.Debug("skip update", "update_id", update.UpdateID)
		return nil
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *client.Message) error {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	userID := chatID
	if msg.From != nil {
		userID = msg.From.ID
	}

	if strings.HasPrefix(text, "/") {
		command, _, _ := strings.Cut(text, " ")
		command, _, _ = strings.Cut(command, "@")

		slog.Debug("command", "chat", chatID, "user", userID, "command", command)

		return b.handleCommand(ctx, chatID, userID, command)
	}

	if s := b.session(chatID, userID); s.draft != nil {
		return b.fillAppointment(ctx, chatID, s, text)
	}

	return b.sendMenu(ctx, chatID, userID, msgHelp)
}

func (b *Bot) handleCommand(ctx context.Context, chatID, userID int64, command string) error {
	switch command {
	case "/start", "/help":
		return b.sendMenu(ctx, chatID, userID, msgHelp)
	case "/menu":
		return b.sendMenu(ctx, chatID, userID, msgMenu)
	case "/coupon":
		return b.startQuiz(ctx, chatID, userID)
	case "/appointment":
		return b.startAppointment(ctx, chatID, userID)
	case "/reviews":
		return b.showReviews(ctx, chatID, userID)
	case "/timer":
		return b.showTimer(ctx, chatID)
	case "/status":
		return b.showStatus(ctx, chatID)
	case "/cancel":
		return b.cancel(ctx, chatID, userID)
	case "/export":
		return b.export(ctx, chatID)
	default:
		return b.send(ctx, chatID, msgUnknownCommand, nil)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *client.CallbackQuery) error {
	if cq.Message == nil || cq.Message.Chat == nil || cq.From == nil {
		return b.sender.Toast(ctx, cq.ID, "")
	}

	chatID := cq.Message.Chat.ID
	userID := cq.From.ID

	slog.Debug("callback", "chat", chatID, "user", userID, "data", cq.Data)

	var err error

	switch {
	case cq.Data == cbMenuCoupon:
		err = b.startQuiz(ctx, chatID, userID)
	case cq.Data == cbMenuAppointment:
		err = b.startAppointment(ctx, chatID, userID)
	case cq.Data == cbMenuReviews:
		err = b.showReviews(ctx, chatID, userID)
	case cq.Data == cbMenuTimer:
		err = b.showTimer(ctx, chatID)
	case cq.Data == cbMenuStatus:
		err = b.showStatus(ctx, chatID)
	case strings.HasPrefix(cq.Data, "quiz:"):
		return b.handleQuizCallback(ctx, cq, chatID, userID)
	case cq.Data == cbReviewsPrev || cq.Data == cbReviewsNext:
		return b.handleReviewsCallback(ctx, cq, chatID, userID)
	default:
		slog.Warn("unknown callback", "data", cq.Data)
	}

	return errors.Join(err, b.sender.Toast(ctx, cq.ID, ""))
}

// session возвращает сессию пользователя в чате, создавая её при необходимости.
func (b *Bot) session(chatID, userID int64) *session {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := sessionKey{chatID: chatID, userID: userID}

	s, ok := b.sessions[key]
	if !ok {
		s = &session{}
		b.sessions[key] = s
	}

	return s
}

// sendMenu отправляет главное меню; кнопка купона показывает, получен ли он.
func (b *Bot) sendMenu(ctx context.Context, chatID, userID int64, text string) error {
	claimed, err := b.gate.HasClaimed(ctx, userKey(userID))
	if err != nil {
		slog.Warn("failed to read claim flag for menu", "user", userID, "error", err)
	}

	return b.send(ctx, chatID, text, menuKeyboard(claimed))
}

func (b *Bot) cancel(ctx context.Context, chatID, userID int64) error {
	s := b.session(chatID, userID)

	if s.seq == nil && s.draft == nil {
		return b.notice(ctx, chatID, notify.New(notify.Info, msgNothingToCancel))
	}

	if s.seq != nil && s.quizMsgID != 0 {
		if err := b.sender.Delete(ctx, chatID, s.quizMsgID); err != nil {
			slog.Warn("failed to delete quiz message", "chat", chatID, "error", err)
		}
	}

	s.seq, s.quizMsgID, s.draft = nil, 0, nil

	return b.notice(ctx, chatID, notify.New(notify.Info, msgCanceled))
}

func (b *Bot) export(ctx context.Context, chatID int64) error {
	if _, ok := b.admins[chatID]; !ok {
		return b.notice(ctx, chatID, notify.New(notify.Warning, msgForbidden))
	}

	submissions, err := b.gate.Submissions(ctx)
	if err != nil {
		slog.Error("failed to read submissions", "error", err)
		return b.notice(ctx, chatID, notify.New(notify.Error, msgStoreUnavailable))
	}

	if len(submissions) == 0 {
		return b.notice(ctx, chatID, notify.New(notify.Info, msgNoSubmissions))
	}

	data, err := coupon.ExportCSV(submissions)
	if err != nil {
		return err
	}

	slog.Info("submissions exported", "chat", chatID, "count", len(submissions))

	return b.sender.Document(ctx, chatID, "quiz_submissions.csv", data)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, opts *client.SendOptions) error {
	_, err := b.sender.Message(ctx, chatID, text, opts)

	return err
}

func (b *Bot) notice(ctx context.Context, chatID int64, n notify.Notice) error {
	return b.send(ctx, chatID, n.String(), nil)
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
