package domain

import "strings"

// PaymentMethod - способ оплаты, выбранный покупателем.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "Credit Card"
	PaymentCash       PaymentMethod = "Cash"
	PaymentCheck      PaymentMethod = "Check"
	PaymentPayPal     PaymentMethod = "PayPal"
	PaymentVenmo      PaymentMethod = "Venmo"
)

// ShippingMethod - способ доставки.
type ShippingMethod string

const (
	ShippingPickup ShippingMethod = "Customer Pickup"
	ShippingLocal  ShippingMethod = "Local Delivery"
	ShippingUSPS   ShippingMethod = "USPS"
	ShippingFedEx  ShippingMethod = "FedEx"
	ShippingUPS    ShippingMethod = "UPS"
)

// NeedsAddress - нужен ли адрес для этого способа доставки.
func (m ShippingMethod) NeedsAddress() bool {
	return m != "" && m != ShippingPickup
}

// AddressMode - откуда берётся адрес доставки.
type AddressMode string

const (
	AddressProfile AddressMode = "profile"
	AddressCustom  AddressMode = "custom"
)

// User - запись об авторизованном пользователе в клиентском хранилище.
type User struct {
	ID       string `json:"userId"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// ShippingAddress - адрес доставки заказа.
type ShippingAddress struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
}

// Trimmed - адрес без пробелов по краям полей.
func (a ShippingAddress) Trimmed() ShippingAddress {
	return ShippingAddress{
		AddressLine1: strings.TrimSpace(a.AddressLine1),
		AddressLine2: strings.TrimSpace(a.AddressLine2),
		City:         strings.TrimSpace(a.City),
		State:        strings.TrimSpace(a.State),
		ZipCode:      strings.TrimSpace(a.ZipCode),
	}
}

// UserProfileAddress - ответ /api/users.php; при ошибке заполнено только Error.
type UserProfileAddress struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Error        string `json:"error,omitempty"`
}

// HasAddress - в профиле сохранён адрес, пригодный для доставки.
func (p *UserProfileAddress) HasAddress() bool {
	return p != nil && p.Error == "" && strings.TrimSpace(p.AddressLine1) != ""
}

// Shipping - адрес профиля в формате заказа.
func (p *UserProfileAddress) Shipping() ShippingAddress {
	return ShippingAddress{
		AddressLine1: p.AddressLine1,
		AddressLine2: p.AddressLine2,
		City:         p.City,
		State:        p.State,
		ZipCode:      p.ZipCode,
	}.Trimmed()
}

// OrderPayload - тело POST /api/add-order.php.
// Массивы параллельны порядку позиций корзины в момент отправки.
type OrderPayload struct {
	CustomerID      string           `json:"customerId"`
	ItemIDs         []string         `json:"itemIds"`
	Quantities      []int            `json:"quantities"`
	Colors          []*string        `json:"colors"`
	Sizes           []*string        `json:"sizes"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod"`
	ShippingMethod  ShippingMethod   `json:"shippingMethod"`
	Total           Money            `json:"total"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty"`
}

// OrderResult - ответ сервера на создание заказа.
type OrderResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId,omitempty"`
	Error   string `json:"error,omitempty"`
}
