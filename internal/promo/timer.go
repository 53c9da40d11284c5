package promo

import (
	"context"
	"fmt"
	"time"
)

// Status — фаза акции.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusEnded    Status = "ended"
)

// Сообщения статуса
const (
	MsgUpcoming = "Акция скоро начнется"
	MsgEnded    = "Акция завершена"
)

// Remaining — оставшееся время, разложенное на дни, часы, минуты и секунды.
type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// String возвращает "DD:HH:MM:SS".
func (r Remaining) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d", r.Days, r.Hours, r.Minutes, r.Seconds)
}

// State — снимок таймера на момент времени.
type State struct {
	Status    Status    `json:"status"`
	Remaining Remaining `json:"remaining"`
	Message   string    `json:"message,omitempty"`
}

// Active сообщает, идёт ли акция.
func (s State) Active() bool {
	return s.Status == StatusActive
}

// Timer считает время до конца акции.
type Timer struct {
	start    time.Time
	end      time.Time
	now      func() time.Time
	interval time.Duration
}

// NewTimer создаёт таймер акции [start, end].
func NewTimer(start, end time.Time) (*Timer, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("promo end %s must be after start %s", end, start)
	}

	return &Timer{
		start:    start,
		end:      end,
		now:      time.Now,
		interval: time.Second,
	}, nil
}

// Start возвращает начало акции.
func (t *Timer) Start() time.Time {
	return t.start
}

// End возвращает конец акции.
func (t *Timer) End() time.Time {
	return t.end
}

// Now возвращает состояние на текущий момент.
func (t *Timer) Now() State {
	return t.State(t.now())
}

// State возвращает состояние таймера на момент now.
func (t *Timer) State(now time.Time) State {
	if now.Before(t.start) {
		return State{Status: StatusUpcoming, Message: MsgUpcoming}
	}

	if now.After(t.end) {
		return State{Status: StatusEnded, Message: MsgEnded}
	}

	return State{
		Status:    StatusActive,
		Remaining: split(t.end.Sub(now)),
	}
}

// Run вызывает onTick сразу и затем раз в секунду.
// Останавливается после окончания акции или по отмене ctx.
func (t *Timer) Run(ctx context.Context, onTick func(State)) {
	state := t.Now()
	onTick(state)

	if state.Status == StatusEnded {
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			state = t.Now()
			onTick(state)

			if state.Status == StatusEnded {
				return
			}
		}
	}
}

func split(d time.Duration) Remaining {
	seconds := int(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60

	return Remaining{
		Days:    hours / 24,
		Hours:   hours % 24,
		Minutes: minutes % 60,
		Seconds: seconds % 60,
	}
}
