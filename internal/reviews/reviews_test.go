package reviews

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`[
			{"name": "Анна", "rating": 5, "text": "Отлично", "date": "2024-03-15"},
			{"name": "Олег", "rating": 3, "text": "Нормально", "date": "2024-01-02"}
		]`))
	}))
	defer srv.Close()

	reviews, err := NewFetcher(srv.URL, srv.Client()).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Анна", reviews[0].Name)
	assert.Equal(t, 3, reviews[1].Rating)
}

func TestFetcher_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "bad status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			reviews, err := NewFetcher(srv.URL, nil).Fetch(context.Background())
			assert.Error(t, err)
			assert.Nil(t, reviews)
		})
	}
}

func TestCard(t *testing.T) {
	card := Card(Review{Name: "Анна", Rating: 4, Text: "Хорошо", Date: "2024-03-15"})

	assert.Equal(t, "(А) Анна\n★★★★☆\n\nХорошо\n\n15 марта 2024 г.", card)
}

func TestStars(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", Stars(0))
	assert.Equal(t, "★★★★★", Stars(7))
	assert.Equal(t, "☆☆☆☆☆", Stars(-1))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "1 января 2025 г.", FormatDate("2025-01-01"))
	assert.Equal(t, "31 декабря 2024 г.", FormatDate("2024-12-31T10:00:00Z"))
	assert.Equal(t, "вчера", FormatDate("вчера"))
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "Ё", Initial(" Ёлка"))
	assert.Equal(t, "?", Initial(""))
}

func sliderOf(n, perView int) *Slider {
	return NewSlider(make([]Review, n), perView)
}

func TestSlider_NextPrev(t *testing.T) {
	s := sliderOf(5, 2)

	assert.False(t, s.CanPrev())
	assert.False(t, s.Prev())
	assert.Len(t, s.Visible(), 2)

	for i := 0; i < 3; i++ {
		assert.True(t, s.Next())
	}

	// последний индекс: 5 - 2
	assert.Equal(t, 3, s.Index())
	assert.False(t, s.CanNext())
	assert.False(t, s.Next())

	assert.True(t, s.Prev())
	assert.Equal(t, 2, s.Index())
}

func TestSlider_Pages(t *testing.T) {
	s := sliderOf(5, 2)

	assert.Equal(t, 3, s.Pages())
	assert.Equal(t, 0, s.ActivePage())

	s.GoTo(1)
	assert.Equal(t, 2, s.Index())
	assert.Equal(t, 1, s.ActivePage())

	s.GoTo(2)
	assert.Equal(t, 3, s.Index())

	s.GoTo(-1)
	assert.Equal(t, 0, s.Index())
}

func TestSlider_Swipe(t *testing.T) {
	s := sliderOf(3, 1)

	assert.False(t, s.Swipe(50))
	assert.Equal(t, 0, s.Index())

	assert.True(t, s.Swipe(51))
	assert.Equal(t, 1, s.Index())

	assert.True(t, s.Swipe(-80))
	assert.Equal(t, 0, s.Index())
}

func TestSlider_FewerThanPerView(t *testing.T) {
	s := sliderOf(1, 3)

	assert.Equal(t, 1, s.Pages())
	assert.False(t, s.CanNext())
	assert.Len(t, s.Visible(), 1)

	empty := sliderOf(0, 1)
	assert.Empty(t, empty.Visible())
	assert.Equal(t, 0, empty.Pages())
}
