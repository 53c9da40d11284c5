package reviews

// SwipeThreshold — минимальное смещение, после которого свайп листает слайды.
const SwipeThreshold = 50

// Slider листает отзывы по perView штук на странице.
type Slider struct {
	reviews []Review
	perView int
	index   int
}

// NewSlider создаёт Slider. perView < 1 считается за 1.
func NewSlider(reviews []Review, perView int) *Slider {
	if perView < 1 {
		perView = 1
	}

	return &Slider{
		reviews: reviews,
		perView: perView,
	}
}

// Len возвращает число отзывов.
func (s *Slider) Len() int {
	return len(s.reviews)
}

// Index возвращает индекс первого видимого отзыва.
func (s *Slider) Index() int {
	return s.index
}

// Visible возвращает отзывы, видимые сейчас.
func (s *Slider) Visible() []Review {
	end := min(s.index+s.perView, len(s.reviews))

	return s.reviews[s.index:end]
}

// CanPrev сообщает, можно ли листать назад.
func (s *Slider) CanPrev() bool {
	return s.index > 0
}

// CanNext сообщает, можно ли листать вперёд.
func (s *Slider) CanNext() bool {
	return s.index < s.maxIndex()
}

// Next сдвигает слайдер на один отзыв вперёд.
func (s *Slider) Next() bool {
	if !s.CanNext() {
		return false
	}

	s.index++

	return true
}

// Prev сдвигает слайдер на один отзыв назад.
func (s *Slider) Prev() bool {
	if !s.CanPrev() {
		return false
	}

	s.index--

	return true
}

// Pages возвращает количество точек пагинации.
func (s *Slider) Pages() int {
	return (len(s.reviews) + s.perView - 1) / s.perView
}

// ActivePage возвращает номер активной страницы (с 0).
func (s *Slider) ActivePage() int {
	return s.index / s.perView
}

// GoTo переходит к странице page.
func (s *Slider) GoTo(page int) {
	s.index = max(0, min(page*s.perView, s.maxIndex()))
}

// Swipe листает по смещению жеста: dx > 0 — вперёд, dx < 0 — назад.
func (s *Slider) Swipe(dx int) bool {
	switch {
	case dx > SwipeThreshold:
		return s.Next()
	case dx < -SwipeThreshold:
		return s.Prev()
	default:
		return false
	}
}

func (s *Slider) maxIndex() int {
	return max(0, len(s.reviews)-s.perView)
}
