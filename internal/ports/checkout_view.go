package ports

import (
	"context"

	"github.com/Gunvolt24/wf_cart/internal/domain"
)

// CheckoutView - UI оформления заказа со стороны страницы.
type CheckoutView interface {
	SetBusy(ctx context.Context, busy bool)
	ShowError(ctx context.Context, message string)
	SwitchAddressMode(ctx context.Context, mode domain.AddressMode, prompt string)
	Close(ctx context.Context)
	Redirect(ctx context.Context, url string)
}
