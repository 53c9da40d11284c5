package coupon

import (
	"errors"
	"time"

	"github.com/letsssgooo/promoBot/internal/quiz"
)

// StartResult — решение о допуске пользователя к квизу.
type StartResult string

const (
	Started        StartResult = "started"
	AlreadyClaimed StartResult = "already_claimed"
	SoldOut        StartResult = "sold_out"
)

// Tier — уровень остатка купонов для отображения.
type Tier string

const (
	TierNormal Tier = "normal"
	TierLow    Tier = "low"
	TierEmpty  Tier = "empty"
)

// LowThreshold — остаток, начиная с которого купонов "мало".
const LowThreshold = 5

// TierFor вычисляет уровень по остатку.
func TierFor(remaining int) Tier {
	switch {
	case remaining <= 0:
		return TierEmpty
	case remaining <= LowThreshold:
		return TierLow
	default:
		return TierNormal
	}
}

// Status — состояние раздачи купонов.
type Status struct {
	Remaining int  `json:"remaining"`
	Total     int  `json:"total"`
	Tier      Tier `json:"tier"`
}

// Submission — запись журнала пройденных квизов.
type Submission struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id,omitempty"`
	Answers   quiz.Answers `json:"answers"`
	Timestamp time.Time    `json:"timestamp"`
}

// Award — результат выдачи купона.
type Award struct {
	Remaining  int
	Tier       Tier
	Submission Submission
}

// Ошибки выдачи купона
var (
	ErrAlreadyClaimed = errors.New("coupon already claimed")
	ErrSoldOut        = errors.New("coupons sold out")
	ErrCorruptState   = errors.New("corrupt coupon state")
)
