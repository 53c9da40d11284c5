package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/letsssgooo/promoBot/internal/storage"
)

// Service принимает заявки и хранит их в Store.
type Service struct {
	store storage.Store
	now   func() time.Time
	mu    sync.Mutex
}

// NewService создаёт Service.
func NewService(store storage.Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Submit проверяет заявку и добавляет её в список заявок.
func (s *Service) Submit(ctx context.Context, a Appointment) (Appointment, error) {
	a = normalize(a)

	if errs := Validate(a); errs != nil {
		return Appointment{}, errs
	}

	a.Timestamp = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.list(ctx)
	if err != nil {
		return Appointment{}, err
	}

	raw, err := json.Marshal(append(list, a))
	if err != nil {
		return Appointment{}, fmt.Errorf("marshal appointments: %w", err)
	}

	if err = s.store.Set(ctx, storage.KeyAppointments, string(raw)); err != nil {
		return Appointment{}, fmt.Errorf("save appointment: %w", err)
	}

	slog.Info("appointment saved", "phone", a.Phone, "total", len(list)+1)

	return a, nil
}

// List возвращает все заявки.
func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.list(ctx)
}

func (s *Service) list(ctx context.Context) ([]Appointment, error) {
	raw, ok, err := s.store.Get(ctx, storage.KeyAppointments)
	if err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}

	if !ok || raw == "" {
		return nil, nil
	}

	var list []Appointment
	if err = json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}

	return list, nil
}

func normalize(a Appointment) Appointment {
	a.LastName = strings.TrimSpace(a.LastName)
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.MiddleName = strings.TrimSpace(a.MiddleName)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Email = strings.TrimSpace(a.Email)

	if a.Phone != "" {
		a.Phone = FormatPhone(a.Phone)
	}

	return a
}
