package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	apihttp "github.com/letsssgooo/promoBot/internal/api/http"
	"github.com/letsssgooo/promoBot/internal/appointment"
	"github.com/letsssgooo/promoBot/internal/bot"
	"github.com/letsssgooo/promoBot/internal/client"
	"github.com/letsssgooo/promoBot/internal/config"
	"github.com/letsssgooo/promoBot/internal/coupon"
	"github.com/letsssgooo/promoBot/internal/lib/slogcustom"
	"github.com/letsssgooo/promoBot/internal/promo"
	"github.com/letsssgooo/promoBot/internal/quiz"
	"github.com/letsssgooo/promoBot/internal/reviews"
	"github.com/letsssgooo/promoBot/internal/storage"
	"github.com/letsssgooo/promoBot/internal/storage/postgres"
	"github.com/letsssgooo/promoBot/internal/storage/sqlite"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := setupLogger(cfg)
	slog.SetDefault(log)
	slog.Info("starting promo bot...", "store", cfg.StoreDriver, "coupons_total", cfg.CouponsTotal)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg); err != nil {
		slog.Error("promo bot stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("promo bot stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	q, err := loadQuiz(cfg.QuizFile)
	if err != nil {
		return err
	}

	gate, err := coupon.NewGate(ctx, store, cfg.CouponsTotal)
	if err != nil {
		return err
	}

	timer, err := promo.NewTimer(cfg.PromoStart, cfg.PromoEnd)
	if err != nil {
		return err
	}

	appointments := appointment.NewService(store)

	reviewsURL := cfg.ReviewsURL
	if reviewsURL == "" {
		reviewsURL = reviews.DefaultURL
	}

	go watchPromo(ctx, timer)

	if cfg.HTTPAddr != "" {
		srv := &http.Server{
			Addr: cfg.HTTPAddr,
			Handler: apihttp.NewRouter(apihttp.Deps{
				Coupons:      gate,
				Promo:        timer,
				Appointments: appointments,
				CORSOrigins:  cfg.CORSOrigins,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go serveHTTP(ctx, srv)
	}

	b := bot.NewBot(client.NewHTTPClient(cfg.Token), bot.Deps{
		Gate:         gate,
		Quiz:         q,
		Timer:        timer,
		Appointments: appointments,
		Reviews:      reviews.NewFetcher(reviewsURL, nil),
		AdminIDs:     cfg.AdminIDs,
		PollTimeout:  cfg.PollTimeout,
	})

	return b.Run(ctx)
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		slog.Warn("using in-memory store, state is lost on restart")
		return storage.NewMemoryStore(), nil
	case config.StorePostgres:
		return postgres.NewStore(ctx, cfg.StoreDSN)
	default:
		return sqlite.NewStore(ctx, cfg.StoreDSN)
	}
}

func loadQuiz(path string) (*quiz.Quiz, error) {
	if path == "" {
		return quiz.DefaultQuiz(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz file: %w", err)
	}

	return quiz.LoadQuiz(data)
}

// watchPromo пишет в лог смену фазы акции.
func watchPromo(ctx context.Context, timer *promo.Timer) {
	var last promo.Status

	timer.Run(ctx, func(state promo.State) {
		if state.Status == last {
			return
		}

		last = state.Status
		slog.Info("promo status", "status", state.Status, "remaining", state.Remaining.String())
	})
}

func serveHTTP(ctx context.Context, srv *http.Server) {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown", "error", err)
		}
	}()

	slog.Info("http api listening", "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http api stopped", "error", err)
	}
}

func setupLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelDebug
	}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slogcustom.NewCustomHandler(os.Stdout, level))
}
