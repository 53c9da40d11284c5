package coupon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/letsssgooo/promoBot/internal/quiz"
	"github.com/letsssgooo/promoBot/internal/storage"
)

const claimedValue = "true"

// Gate решает, может ли пользователь пройти квиз, и выдаёт купон по его завершении.
// Пользователь получает не больше одного купона и только пока они не закончились.
type Gate struct {
	store storage.Store
	total int
	now   func() time.Time
	log   *slog.Logger
	mu    sync.Mutex
}

// Option настраивает Gate.
type Option func(*Gate)

// WithClock подменяет источник времени для журнала.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// WithLogger задаёт логгер.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gate) {
		g.log = log
	}
}

// NewGate создаёт Gate. Если счётчика в хранилище ещё нет, он инициализируется значением total.
func NewGate(ctx context.Context, store storage.Store, total int, opts ...Option) (*Gate, error) {
	if total < 0 {
		return nil, fmt.Errorf("total coupons must not be negative, got %d", total)
	}

	g := &Gate{
		store: store,
		total: total,
		now:   time.Now,
		log:   slog.Default(),
	}

	for _, opt := range opts {
		opt(g)
	}

	_, ok, err := g.remaining(ctx)
	if err != nil {
		return nil, err
	}

	if !ok {
		if err = store.Set(ctx, storage.KeyCouponsRemaining, strconv.Itoa(total)); err != nil {
			return nil, fmt.Errorf("init coupons counter: %w", err)
		}

		g.log.Info("coupons counter initialized", "total", total)
	}

	return g, nil
}

// TryStart проверяет, можно ли пользователю начать квиз. Состояние не меняется.
func (g *Gate) TryStart(ctx context.Context, userID string) (StartResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	remaining, _, err := g.remaining(ctx)
	if err != nil {
		return "", err
	}

	if remaining <= 0 {
		return SoldOut, nil
	}

	claimed, err := g.hasClaimed(ctx, userID)
	if err != nil {
		return "", err
	}

	if claimed {
		return AlreadyClaimed, nil
	}

	return Started, nil
}

// OnQuizComplete выдаёт купон: пишет запись в журнал, уменьшает счётчик на 1
// и отмечает пользователя одной атомарной записью в хранилище.
// При любой ошибке состояние остаётся прежним.
func (g *Gate) OnQuizComplete(ctx context.Context, userID string, answers quiz.Answers) (Award, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	remaining, _, err := g.remaining(ctx)
	if err != nil {
		return Award{}, err
	}

	if remaining <= 0 {
		return Award{}, ErrSoldOut
	}

	claimed, err := g.hasClaimed(ctx, userID)
	if err != nil {
		return Award{}, err
	}

	if claimed {
		return Award{}, ErrAlreadyClaimed
	}

	raw, err := g.rawSubmissions(ctx)
	if err != nil {
		return Award{}, err
	}

	now := g.now().UTC()
	entries := make(map[string]string, 4)

	// журнал нужен только для аудита: битый журнал откладывается, купон всё равно выдаётся
	submissions, err := decodeSubmissions(raw)
	if err != nil {
		backupKey := storage.CorruptSubmissionsKey(now)
		g.log.Warn("quiz submissions log is corrupt, starting a new one", "backup_key", backupKey, "error", err)

		entries[backupKey] = raw
		submissions = nil
	}

	submission := Submission{
		ID:        uuid.NewString(),
		UserID:    userID,
		Answers:   answers.Clone(),
		Timestamp: now,
	}
	submissions = append(submissions, submission)

	rawSubmissions, err := json.Marshal(submissions)
	if err != nil {
		return Award{}, fmt.Errorf("marshal submissions: %w", err)
	}

	remaining--

	entries[storage.KeyQuizSubmissions] = string(rawSubmissions)
	entries[storage.KeyCouponsRemaining] = strconv.Itoa(remaining)
	entries[storage.UserCouponKey(userID)] = claimedValue

	if err = g.store.SetMulti(ctx, entries); err != nil {
		return Award{}, fmt.Errorf("award coupon: %w", err)
	}

	g.log.Info("coupon awarded", "user", userID, "remaining", remaining)

	return Award{
		Remaining:  remaining,
		Tier:       TierFor(remaining),
		Submission: submission,
	}, nil
}

// HasClaimed сообщает, получал ли пользователь купон.
func (g *Gate) HasClaimed(ctx context.Context, userID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.hasClaimed(ctx, userID)
}

// Status возвращает остаток купонов и уровень для отображения.
func (g *Gate) Status(ctx context.Context) (Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	remaining, _, err := g.remaining(ctx)
	if err != nil {
		return Status{}, err
	}

	return Status{
		Remaining: remaining,
		Total:     g.total,
		Tier:      TierFor(remaining),
	}, nil
}

// Submissions возвращает журнал пройденных квизов.
func (g *Gate) Submissions(ctx context.Context) ([]Submission, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.submissions(ctx)
}

// remaining читает счётчик. ok == false, если счётчика нет; тогда возвращается total.
func (g *Gate) remaining(ctx context.Context) (int, bool, error) {
	raw, ok, err := g.store.Get(ctx, storage.KeyCouponsRemaining)
	if err != nil {
		return 0, false, fmt.Errorf("read coupons counter: %w", err)
	}

	if !ok {
		return g.total, false, nil
	}

	remaining, err := strconv.Atoi(raw)
	if err != nil || remaining < 0 {
		return 0, true, fmt.Errorf("%w: coupons_remaining=%q", ErrCorruptState, raw)
	}

	return remaining, true, nil
}

func (g *Gate) hasClaimed(ctx context.Context, userID string) (bool, error) {
	raw, _, err := g.store.Get(ctx, storage.UserCouponKey(userID))
	if err != nil {
		return false, fmt.Errorf("read claim flag: %w", err)
	}

	return raw == claimedValue, nil
}

func (g *Gate) submissions(ctx context.Context) ([]Submission, error) {
	raw, err := g.rawSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	return decodeSubmissions(raw)
}

func (g *Gate) rawSubmissions(ctx context.Context) (string, error) {
	raw, _, err := g.store.Get(ctx, storage.KeyQuizSubmissions)
	if err != nil {
		return "", fmt.Errorf("read submissions: %w", err)
	}

	return raw, nil
}

func decodeSubmissions(raw string) ([]Submission, error) {
	if raw == "" {
		return nil, nil
	}

	var submissions []Submission
	if err := json.Unmarshal([]byte(raw), &submissions); err != nil {
		return nil, fmt.Errorf("%w: quiz_submissions: %w", ErrCorruptState, err)
	}

	return submissions, nil
}
