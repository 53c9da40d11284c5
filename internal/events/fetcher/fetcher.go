package fetcher

import (
	"context"

	"github.com/letsssgooo/promoBot/internal/client"
)

// TelegramFetcher реализует Fetcher через Telegram Bot API.
type TelegramFetcher struct {
	client client.Client
	offset int
}

// NewTelegramFetcher создаёт TelegramFetcher, начинающий с первого неподтверждённого обновления.
func NewTelegramFetcher(client client.Client) *TelegramFetcher {
	return &TelegramFetcher{
		client: client,
		offset: 0,
	}
}

// GetUpdates получает слайс Update, учитывая timeout, и сдвигает offset за последнее обновление.
func (f *TelegramFetcher) GetUpdates(ctx context.Context, timeout int) ([]client.Update, error) {
	updates, err := f.client.GetUpdates(ctx, f.offset, timeout)
	if err != nil {
		return nil, err
	}

	if len(updates) != 0 {
		f.offset = updates[len(updates)-1].UpdateID + 1
	}

	return updates, nil
}

// Offset возвращает следующий ожидаемый update_id.
func (f *TelegramFetcher) Offset() int {
	return f.offset
}
