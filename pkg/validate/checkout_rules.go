package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Gunvolt24/wf_cart/internal/domain"
)

var (
	// ErrMissingMethod - не выбран способ оплаты или доставки.
	ErrMissingMethod = errors.New("checkout method missing")
	// ErrInvalidAddress - в адресе доставки не хватает обязательных полей.
	ErrInvalidAddress = errors.New("shipping address invalid")
	// ErrInvalidCart - корзина непригодна к отправке (пустая или с битым sku).
	ErrInvalidCart = errors.New("cart invalid")
	// ErrEmptyCart - отправлять нечего.
	ErrEmptyCart = errors.New("cart is empty")
)

// Methods - оба способа должны быть выбраны.
func Methods(payment domain.PaymentMethod, shipping domain.ShippingMethod) error {
	var missing []string
	if strings.TrimSpace(string(payment)) == "" {
		missing = append(missing, "payment method")
	}
	if strings.TrimSpace(string(shipping)) == "" {
		missing = append(missing, "shipping method")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: please select a %s", ErrMissingMethod, strings.Join(missing, " and "))
	}
	return nil
}

// Address - обязательные поля адреса: addressLine1, city, state, zipCode.
func Address(addr domain.ShippingAddress) error {
	a := addr.Trimmed()
	var missing []string
	if a.AddressLine1 == "" {
		missing = append(missing, "address line 1")
	}
	if a.City == "" {
		missing = append(missing, "city")
	}
	if a.State == "" {
		missing = append(missing, "state")
	}
	if a.ZipCode == "" {
		missing = append(missing, "zip code")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidAddress, strings.Join(missing, ", "))
	}
	return nil
}

// CartItems - проверка позиций перед отправкой заказа.
// Пустой sku или строка "undefined" означают повреждённую корзину.
func CartItems(items []domain.CartItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	for i := range items {
		if !ValidSKU(items[i].SKU) {
			return fmt.Errorf("%w: items[%s] has invalid sku %q", ErrInvalidCart, strconv.Itoa(i), items[i].SKU)
		}
	}
	return nil
}

// ValidSKU - sku не пустой и не "undefined".
func ValidSKU(sku string) bool {
	s := strings.TrimSpace(sku)
	return s != "" && s != "undefined"
}

// ErrInvalidItem - товар из запроса нельзя положить в корзину.
var ErrInvalidItem = errors.New("cart item invalid")

// Item - товар для добавления: sku задан, цена неотрицательна, количество в допустимых пределах.
// quantity 0 означает "по умолчанию один".
func Item(item domain.CartItem, quantity int) error {
	if strings.TrimSpace(item.SKU) == "" {
		return fmt.Errorf("%w: sku is required", ErrInvalidItem)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidItem)
	}
	return Quantity(quantity)
}

// Quantity - количество из запроса не отрицательное и не больше domain.MaxQuantity.
func Quantity(quantity int) error {
	if quantity < 0 || quantity > domain.MaxQuantity {
		return fmt.Errorf("%w: quantity must be between 0 and %d", ErrInvalidItem, domain.MaxQuantity)
	}
	return nil
}
