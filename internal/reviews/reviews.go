package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultURL — источник отзывов по умолчанию.
const DefaultURL = "https://raw.githubusercontent.com/axelwarn2/frontend-test-data/refs/heads/main/reviews.json"

const (
	timeoutFetch = 5 * time.Second
	maxRating    = 5
)

// Review — отзыв клиента.
type Review struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
	Date   string `json:"date"`
}

// Fetcher загружает отзывы по HTTP.
type Fetcher struct {
	url        string
	httpClient *http.Client
}

// NewFetcher создаёт Fetcher для url.
func NewFetcher(url string, httpClient *http.Client) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Fetcher{
		url:        url,
		httpClient: httpClient,
	}
}

// Fetch скачивает и разбирает список отзывов.
func (f *Fetcher) Fetch(ctx context.Context) ([]Review, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, timeoutFetch)
	defer cancelFunc()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews from %s: %w", f.url, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response status code %d for link %s", resp.StatusCode, f.url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read reviews body: %w", err)
	}

	var reviews []Review
	if err = json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

// Stars возвращает рейтинг звёздами: ★ за каждый балл, ☆ за недостающие до пяти.
func Stars(rating int) string {
	rating = max(0, min(rating, maxRating))

	return strings.Repeat("★", rating) + strings.Repeat("☆", maxRating-rating)
}

// Initial возвращает первую букву имени для аватара.
func Initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}

	return string(r)
}

var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// FormatDate переводит дату в вид "15 марта 2024 г.". Непонятные даты возвращаются как есть.
func FormatDate(date string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, date); err == nil {
			return fmt.Sprintf("%d %s %d г.", t.Day(), monthsGenitive[t.Month()-1], t.Year())
		}
	}

	return date
}

// Card форматирует отзыв для сообщения.
func Card(r Review) string {
	var b strings.Builder

	fmt.Fprintf(&b, "(%s) %s\n", Initial(r.Name), r.Name)
	b.WriteString(Stars(r.Rating) + "\n\n")
	b.WriteString(r.Text + "\n\n")
	b.WriteString(FormatDate(r.Date))

	return b.String()
}
