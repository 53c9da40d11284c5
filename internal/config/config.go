package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Драйверы хранилища
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config — настройки бота.
type Config struct {
	Token       string
	AdminIDs    []int64
	PollTimeout int

	StoreDriver string
	StoreDSN    string

	CouponsTotal int
	QuizFile     string
	PromoStart   time.Time
	PromoEnd     time.Time
	ReviewsURL   string

	HTTPAddr    string
	CORSOrigins []string

	LogLevel  string
	LogFormat string
}

// Load читает флаги args; значения по умолчанию берутся из переменных окружения PROMO_*.
func Load(args []string) (Config, error) {
	var (
		cfg        Config
		promoStart string
		promoEnd   string
		adminIDs   []string
		envErrs    []error
	)

	intEnv := func(key string, def int) int {
		n, err := envInt(key, def)
		if err != nil {
			envErrs = append(envErrs, err)
		}

		return n
	}

	fs := pflag.NewFlagSet("promobot", pflag.ContinueOnError)

	fs.StringVar(&cfg.Token, "token", envOr("PROMO_TOKEN", ""), "token of telegram bot")
	fs.StringSliceVar(&adminIDs, "admin", csvOr("PROMO_ADMINS", ""), "telegram ids allowed to /export")
	fs.IntVar(&cfg.PollTimeout, "poll-timeout", intEnv("PROMO_POLL_TIMEOUT", 30), "long polling timeout in seconds")

	fs.StringVar(&cfg.StoreDriver, "store", envOr("PROMO_STORE", StoreSQLite), "store driver: memory|sqlite|postgres")
	fs.StringVar(&cfg.StoreDSN, "store-dsn", envOr("PROMO_STORE_DSN", ""), "store connection string")

	fs.IntVar(&cfg.CouponsTotal, "coupons-total", intEnv("PROMO_COUPONS_TOTAL", 20), "coupons available on first run")
	fs.StringVar(&cfg.QuizFile, "quiz", envOr("PROMO_QUIZ", ""), "quiz JSON file, embedded quiz if empty")
	fs.StringVar(&promoStart, "promo-start", envOr("PROMO_START", "2026-01-01T00:00:00+03:00"), "promo start, RFC3339")
	fs.StringVar(&promoEnd, "promo-end", envOr("PROMO_END", "2026-12-31T23:59:59+03:00"), "promo end, RFC3339")
	fs.StringVar(&cfg.ReviewsURL, "reviews-url", envOr("PROMO_REVIEWS_URL", ""), "reviews JSON url")

	fs.StringVar(&cfg.HTTPAddr, "http-addr", envOr("PROMO_HTTP_ADDR", ":8080"), "status API address, empty disables it")
	fs.StringSliceVar(&cfg.CORSOrigins, "cors-origin", csvOr("PROMO_CORS_ORIGINS", "http://localhost:3000"), "allowed CORS origins")

	fs.StringVar(&cfg.LogLevel, "log-level", envOr("PROMO_LOG_LEVEL", "debug"), "debug|info|warn|error")
	fs.StringVar(&cfg.LogFormat, "log-format", envOr("PROMO_LOG_FORMAT", "text"), "text|json")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := errors.Join(envErrs...); err != nil {
		return Config{}, err
	}

	var err error

	if cfg.PromoStart, err = time.Parse(time.RFC3339, promoStart); err != nil {
		return Config{}, fmt.Errorf("invalid promo-start: %w", err)
	}

	if cfg.PromoEnd, err = time.Parse(time.RFC3339, promoEnd); err != nil {
		return Config{}, fmt.Errorf("invalid promo-end: %w", err)
	}

	for _, raw := range adminIDs {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid admin id %q: %w", raw, err)
		}

		cfg.AdminIDs = append(cfg.AdminIDs, id)
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error

	if c.Token == "" {
		errs = append(errs, errors.New("token is required"))
	}

	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.StoreDSN == "" {
			errs = append(errs, errors.New("store-dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported store driver: %s", c.StoreDriver))
	}

	if c.CouponsTotal < 0 {
		errs = append(errs, fmt.Errorf("coupons-total must not be negative, got %d", c.CouponsTotal))
	}

	if !c.PromoEnd.After(c.PromoStart) {
		errs = append(errs, errors.New("promo-end must be after promo-start"))
	}

	if c.PollTimeout < 0 {
		errs = append(errs, errors.New("poll-timeout must not be negative"))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format: %s", c.LogFormat))
	}

	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return def
}

// envInt читает целое из окружения. Нечисловое значение считается ошибкой.
func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}

	return n, nil
}

func csvOr(key, def string) []string {
	v := envOr(key, def)
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := parts[:0]

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
