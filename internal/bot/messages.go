package bot

import "github.com/letsssgooo/promoBot/internal/appointment"

const msgHelp = `Я - бот акции стоматологической клиники.

Что я умею:

1) Пройдите короткий квиз и получите купон на скидку
2) Запишитесь на приём
3) Почитайте отзывы наших пациентов

Команды: /menu, /timer, /status, /cancel`

const msgMenu = `Выберите, что вас интересует:`

const msgUnknownCommand = `Неизвестная команда. Откройте /menu.`

const msgCanceled = `Действие отменено.`

const msgNothingToCancel = `Отменять нечего.`

const msgPromoNotActive = `Сейчас акция не проводится.`

const msgStoreUnavailable = `Сервис временно недоступен, попробуйте позже.`

const msgAlreadyClaimed = `Вы уже получили купон. Один купон на человека.`

const msgSoldOut = `К сожалению, купоны закончились.`

const msgQuizExpired = `Квиз уже закрыт, откройте его заново.`

const msgQuizIncomplete = `Ответьте на все вопросы.`

const msgAnswerSaved = `Ответ принят`

const msgCouponAwarded = `Поздравляем! Купон ваш. Покажите это сообщение администратору клиники.`

const msgCouponCode = `Номер купона: %s`

const msgAwardFailed = `Не удалось выдать купон, попробуйте пройти квиз заново.`

const msgReviewsUnavailable = `Не удалось загрузить отзывы.`

const msgNoReviews = `Отзывов пока нет.`

const msgAppointmentSaved = `Заявка отправлена! Мы свяжемся с вами в ближайшее время.`

const msgForbidden = `Команда доступна только администраторам.`

const msgNoSubmissions = `Пока никто не прошёл квиз.`

const msgTimerActive = `До конца акции: %d д. %02d ч. %02d мин. %02d сек.`

const msgStatusNormal = `Осталось купонов: %d из %d`

const msgStatusLow = `Успейте! Осталось всего %d купонов`

const msgStatusEmpty = `Купоны закончились`

const msgSkipHint = "\n(отправьте «" + appointment.SkipValue + "», чтобы пропустить)"

// Подписи кнопок
const (
	btnCoupon        = "🎁 Получить купон"
	btnCouponClaimed = "✓ Купон получен"
	btnAppointment   = "📝 Записаться на приём"
	btnReviews       = "💬 Отзывы"
	btnTimer         = "⏳ До конца акции"
	btnStatus        = "🎟 Сколько купонов осталось"
	btnPrev          = "← Назад"
	btnNext          = "Далее →"
	btnSubmit        = "Получить купон"
	btnClose         = "✕ Закрыть"
)

var fieldPrompts = map[appointment.Field]string{
	appointment.FieldLastName:   "Введите фамилию:",
	appointment.FieldFirstName:  "Введите имя:",
	appointment.FieldMiddleName: "Введите отчество:",
	appointment.FieldPhone:      "Введите номер телефона:",
	appointment.FieldEmail:      "Введите email:",
}
