package ports

import (
	"context"

	"github.com/Gunvolt24/wf_cart/internal/domain"
)

// StorefrontAPI - серверные эндпоинты магазина, которые вызывает ядро корзины.
type StorefrontAPI interface {
	// SetRedirect - сообщить серверу, куда вернуть пользователя после логина (best effort).
	SetRedirect(ctx context.Context, redirectURL string) error

	// FetchUserAddress - адрес из профиля; ответ {error} возвращается как профиль с заполненным Error.
	FetchUserAddress(ctx context.Context, userID string) (*domain.UserProfileAddress, error)

	// AddOrder - отправка заказа. Ошибка означает транспортный сбой (сеть, не-2xx),
	// бизнес-отказ приходит как OrderResult{Success: false}.
	AddOrder(ctx context.Context, payload *domain.OrderPayload) (*domain.OrderResult, error)
}
