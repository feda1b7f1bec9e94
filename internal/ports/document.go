package ports

// Document - DOM-якоря страницы, на которые проецируется корзина.
// Запись в отсутствующий якорь ничего не делает.
type Document interface {
	Has(anchor string) bool
	SetText(anchor, text string)
	SetHidden(anchor string, hidden bool)
}
