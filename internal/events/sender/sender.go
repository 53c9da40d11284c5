package sender

import (
	"context"

	"github.com/letsssgooo/promoBot/internal/client"
)

// TelegramSender реализует отправку сообщений через Telegram Bot API.
type TelegramSender struct {
	client client.Client
}

// NewSender создает новый объект структуры TelegramSender.
func NewSender(client client.Client) *TelegramSender {
	return &TelegramSender{client: client}
}

// Message отправляет текстовое сообщение.
func (s *TelegramSender) Message(
	ctx context.Context,
	chatID int64,
	text string,
	opts *client.SendOptions,
) (*client.Message, error) {
	return s.client.SendMessage(ctx, chatID, text, opts)
}

// Edit заменяет текст и клавиатуру сообщения.
func (s *TelegramSender) Edit(
	ctx context.Context,
	chatID int64,
	messageID int,
	text string,
	opts *client.SendOptions,
) error {
	return s.client.EditMessage(ctx, chatID, messageID, text, opts)
}

// Delete удаляет сообщение.
func (s *TelegramSender) Delete(ctx context.Context, chatID int64, messageID int) error {
	return s.client.DeleteMessage(ctx, chatID, messageID)
}

// Toast отвечает на callback query коротким уведомлением.
func (s *TelegramSender) Toast(ctx context.Context, callbackID string, text string) error {
	return s.client.AnswerCallback(ctx, callbackID, text)
}

// Document отправляет файл как документ.
func (s *TelegramSender) Document(ctx context.Context, chatID int64, fileName string, data []byte) error {
	return s.client.SendDocument(ctx, chatID, fileName, data)
}
