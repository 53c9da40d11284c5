package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/letsssgooo/promoBot/internal/appointment"
)

const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error  string                       `json:"error"`
	Fields map[appointment.Field]string `json:"fields,omitempty"`
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

// CouponsHandler отдаёт {remaining, total, tier}.
func CouponsHandler(coupons CouponStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := coupons.Status(r.Context())
		if err != nil {
			slog.Error("failed to read coupon status", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
			return
		}

		writeJSON(w, http.StatusOK, status)
	}
}

// PromoHandler отдаёт состояние таймера акции.
func PromoHandler(clock PromoClock) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, clock.Now())
	}
}

// CreateAppointmentHandler принимает заявку: 201 при успехе, 422 с ошибками по полям,
// 403 вне периода акции.
func CreateAppointmentHandler(clock PromoClock, svc AppointmentSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if state := clock.Now(); !state.Active() {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: state.Message})
			return
		}

		var in appointment.Appointment

		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()

		if err := dec.Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: " + err.Error()})
			return
		}

		saved, err := svc.Submit(r.Context(), in)
		if err != nil {
			var fieldErrs appointment.FieldErrors
			if errors.As(err, &fieldErrs) {
				writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
					Error:  appointment.ErrValidation.Error(),
					Fields: fieldErrs,
				})
				return
			}

			slog.Error("failed to save appointment", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
			return
		}

		writeJSON(w, http.StatusCreated, saved)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
