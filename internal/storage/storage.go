package storage

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// Store определяет интерфейс персистентного хранилища ключ-значение.
type Store interface {
	// Get возвращает значение по ключу. ok == false, если ключа нет.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set сохраняет значение по ключу.
	Set(ctx context.Context, key, value string) error

	// SetMulti сохраняет все пары атомарно: либо все, либо ни одной.
	SetMulti(ctx context.Context, entries map[string]string) error

	// Close освобождает ресурсы хранилища.
	Close() error
}

// ErrUnavailable оборачивает любые ошибки чтения и записи хранилища.
var ErrUnavailable = errors.New("store unavailable")

// Ключи хранилища
const (
	KeyCouponsRemaining = "coupons_remaining"
	KeyUserHasCoupon    = "user_has_coupon"
	KeyQuizSubmissions  = "quiz_submissions"
	KeyAppointments     = "appointments"
)

// UserCouponKey возвращает ключ флага "купон получен" для пользователя.
// Пустой userID даёт общий ключ без суффикса.
func UserCouponKey(userID string) string {
	if userID == "" {
		return KeyUserHasCoupon
	}

	return KeyUserHasCoupon + ":" + userID
}

// CorruptSubmissionsKey возвращает ключ, под который откладывается нечитаемый журнал квизов.
func CorruptSubmissionsKey(at time.Time) string {
	return KeyQuizSubmissions + "_corrupt:" + strconv.FormatInt(at.UnixNano(), 10)
}
