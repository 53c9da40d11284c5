package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/letsssgooo/promoBot/internal/appointment"
	"github.com/letsssgooo/promoBot/internal/coupon"
	"github.com/letsssgooo/promoBot/internal/promo"
)

const requestTimeout = 10 * time.Second

// CouponStatus отдаёт остаток купонов.
type CouponStatus interface {
	Status(ctx context.Context) (coupon.Status, error)
}

// PromoClock отдаёт текущее состояние таймера акции.
type PromoClock interface {
	Now() promo.State
}

// AppointmentSubmitter принимает заявки на запись.
type AppointmentSubmitter interface {
	Submit(ctx context.Context, a appointment.Appointment) (appointment.Appointment, error)
}

// Deps — зависимости API.
type Deps struct {
	Coupons      CouponStatus
	Promo        PromoClock
	Appointments AppointmentSubmitter
	CORSOrigins  []string
}

// NewRouter собирает роутер API лендинга.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID, middleware.RealIP, requestLogger, middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", HealthHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/coupons", CouponsHandler(deps.Coupons))
		r.Get("/promo", PromoHandler(deps.Promo))
		r.Post("/appointments", CreateAppointmentHandler(deps.Promo, deps.Appointments))
	})

	return r
}

// requestLogger пишет по строке slog на каждый запрос.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
