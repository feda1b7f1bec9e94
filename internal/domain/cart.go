package domain

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// StorageKey - ключ, под которым корзина лежит в клиентском хранилище.
const StorageKey = "whimsical_frog_cart"

// MaxQuantity - верхняя граница количества в одном запросе; защищает счётчики от переполнения.
const MaxQuantity = 1_000_000

// maxMoneyCents - предел суммы, при котором цена × MaxQuantity ещё помещается в int64.
const maxMoneyCents = 1_000_000_000_000

// Money - денежная сумма в центах.
// В JSON пишется обычным числом с двумя знаками после точки (19.98).
type Money int64

// MoneyFromFloat - перевод десятичной суммы в центы с округлением.
func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

// Mul - сумма позиции: цена × количество.
func (m Money) Mul(qty int) Money { return m * Money(qty) }

// Float - значение в долларах.
func (m Money) Float() float64 { return float64(m) / 100 }

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON принимает и число, и строку ("9.99"): цены в каталоге приходят в обоих видах.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if raw == "" || raw == "null" {
		*m = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("money: %q is not a finite amount", raw)
	}
	if math.Abs(v*100) > maxMoneyCents {
		return fmt.Errorf("money: %q is out of range", raw)
	}
	*m = MoneyFromFloat(v)
	return nil
}

// CartItem - позиция корзины; sku уникален в пределах корзины.
type CartItem struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Price    Money  `json:"price"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image"`
	Gender   string `json:"gender,omitempty"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
}

// DefaultImage - путь к картинке товара по sku, если каталог её не передал.
func DefaultImage(sku string) string {
	return "images/items/" + sku + "A.png"
}

// CartState - состояние корзины. Total и Count только вычисляются из Items.
type CartState struct {
	Items                []CartItem `json:"items"`
	Total                Money      `json:"total"`
	Count                int        `json:"count"`
	NotificationsEnabled bool       `json:"notificationsEnabled"`
}

// Clone - копия состояния, не разделяющая слайс позиций.
func (s *CartState) Clone() CartState {
	c := *s
	c.Items = append([]CartItem(nil), s.Items...)
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	return c
}

// Find - индекс позиции по sku или -1.
func (s *CartState) Find(sku string) int {
	for i := range s.Items {
		if s.Items[i].SKU == sku {
			return i
		}
	}
	return -1
}

// CartSnapshot - формат записи в хранилище.
type CartSnapshot struct {
	Items     []CartItem `json:"items"`
	Total     Money      `json:"total"`
	Count     int        `json:"count"`
	Timestamp int64      `json:"timestamp"`
}
