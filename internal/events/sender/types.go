package sender

import (
	"context"

	"github.com/letsssgooo/promoBot/internal/client"
)

// Sender определяет основной интерфейс для отправки сообщений.
type Sender interface {
	// Message отправляет текстовое сообщение.
	Message(ctx context.Context, chatID int64, text string, opts *client.SendOptions) (*client.Message, error)

	// Edit заменяет текст и клавиатуру уже отправленного сообщения.
	Edit(ctx context.Context, chatID int64, messageID int, text string, opts *client.SendOptions) error

	// Delete удаляет сообщение.
	Delete(ctx context.Context, chatID int64, messageID int) error

	// Toast показывает всплывающее уведомление в ответ на нажатие кнопки.
	Toast(ctx context.Context, callbackID string, text string) error

	// Document отправляет файл как документ.
	Document(ctx context.Context, chatID int64, fileName string, data []byte) error
}
