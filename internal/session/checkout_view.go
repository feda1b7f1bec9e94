package session

import (
	"context"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/notify"
	"github.com/Gunvolt24/wf_cart/internal/ports"
)

var _ ports.CheckoutView = (*checkoutView)(nil)

// checkoutView - UI оформления как команды для страницы.
// Ошибки дополнительно показываются тостом через выбранный приёмник.
type checkoutView struct {
	out    ports.FrameOutbox
	bridge *notify.Bridge
}

func (v *checkoutView) SetBusy(ctx context.Context, busy bool) {
	v.out.Emit(ctx, domain.FrameCommand{Kind: domain.CommandCheckoutBusy, Target: domain.FrameSelf, Busy: busy})
}

func (v *checkoutView) ShowError(ctx context.Context, message string) {
	v.out.Emit(ctx, domain.FrameCommand{Kind: domain.CommandCheckoutError, Target: domain.FrameSelf, Text: message})
	v.bridge.Notify(ctx, domain.ToastError, "Checkout", message)
}

func (v *checkoutView) SwitchAddressMode(ctx context.Context, mode domain.AddressMode, prompt string) {
	v.out.Emit(ctx, domain.FrameCommand{Kind: domain.CommandAddressMode, Target: domain.FrameSelf, Mode: mode, Text: prompt})
}

func (v *checkoutView) Close(ctx context.Context) {
	v.out.Emit(ctx, domain.FrameCommand{Kind: domain.CommandCheckoutClose, Target: domain.FrameSelf})
}

func (v *checkoutView) Redirect(ctx context.Context, url string) {
	v.out.Emit(ctx, domain.FrameCommand{Kind: domain.CommandRedirect, Target: domain.FrameSelf, URL: url})
}
