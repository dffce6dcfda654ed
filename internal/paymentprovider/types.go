// Package paymentprovider адаптер к Stripe: товар, цена, сессия оплаты и
// проверка подписи webhook. Клиент создаётся один раз с ключом из конфига.
package paymentprovider

// Типы событий сессии оплаты.
const (
	EventSessionCompleted      = "checkout.session.completed"
	EventSessionAsyncSucceeded = "checkout.session.async_payment_succeeded"
	EventSessionAsyncFailed    = "checkout.session.async_payment_failed"
	EventSessionExpired        = "checkout.session.expired"
	sessionIDPlaceholder       = "{CHECKOUT_SESSION_ID}"
)

// CheckoutParams параметры сессии оплаты.
type CheckoutParams struct {
	PriceID        string
	SuccessURL     string
	CancelURL      string
	Metadata       map[string]string
	IdempotencyKey string
}

// CheckoutSession созданная сессия оплаты.
type CheckoutSession struct {
	ID              string
	URL             string
	PaymentIntentID string
}
