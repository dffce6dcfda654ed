package models

import "time"

// PaymentStatus статус платежа.
type PaymentStatus string

// Статусы платежа. PENDING начальный, SUCCEEDED, FAILED и CANCELED конечные.
const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentSucceeded  PaymentStatus = "SUCCEEDED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentCanceled   PaymentStatus = "CANCELED"
)

// IsTerminal сообщает, что из статуса нет переходов.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentSucceeded, PaymentFailed, PaymentCanceled:
		return true
	}
	return false
}

// IsValid сообщает, что статус входит в известный набор.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentSucceeded, PaymentFailed, PaymentCanceled:
		return true
	}
	return false
}

// CanTransition проверяет допустимость перехода from -> to.
// PENDING переходит в любой другой статус, PROCESSING только в конечный.
func CanTransition(from, to PaymentStatus) bool {
	if !from.IsValid() || !to.IsValid() || from == to {
		return false
	}
	switch from {
	case PaymentPending:
		return to != PaymentPending
	case PaymentProcessing:
		return to.IsTerminal()
	}
	return false
}

// Payment оплата курса через внешний платёжный сервис.
type Payment struct {
	ID              int64         `json:"id"`
	UserID          int64         `json:"user_id"`
	CourseID        int64         `json:"course_id"`
	Amount          int64         `json:"amount"`
	Currency        string        `json:"currency"`
	Status          PaymentStatus `json:"status"`
	ProductID       string        `json:"product_id,omitempty"`
	PriceID         string        `json:"price_id,omitempty"`
	SessionID       string        `json:"session_id,omitempty"`
	PaymentIntentID string        `json:"payment_intent_id,omitempty"`
	PaymentURL      string        `json:"payment_url,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// CreatePaymentRequest тело запроса на оплату. Пользователь берётся из токена.
type CreatePaymentRequest struct {
	CourseID int64 `json:"course_id" validate:"required,gt=0"`
}

// PaymentFilter параметры выборки платежей. UserID nil означает все платежи.
type PaymentFilter struct {
	UserID   *int64
	CourseID *int64
}

// PaymentTransition итог попытки смены статуса платежа.
// Applied=false означает, что переход недопустим и запись не менялась.
type PaymentTransition struct {
	Payment *Payment
	From    PaymentStatus
	Applied bool
}

// ReconcileOutcome исход применения события платёжного сервиса.
type ReconcileOutcome string

// Исходы сверки.
const (
	ReconcileApplied   ReconcileOutcome = "applied"
	ReconcileDuplicate ReconcileOutcome = "duplicate"
	ReconcileNotFound  ReconcileOutcome = "not_found"
	ReconcileIgnored   ReconcileOutcome = "ignored"
)

// ReconcileResult результат сверки webhook-события с локальным платежом.
type ReconcileResult struct {
	Outcome   ReconcileOutcome `json:"outcome"`
	EventType string           `json:"event_type"`
	SessionID string           `json:"session_id,omitempty"`
	PaymentID int64            `json:"payment_id,omitempty"`
	From      PaymentStatus    `json:"from,omitempty"`
	To        PaymentStatus    `json:"to,omitempty"`
}

// CheckoutEvent событие платёжного сервиса, уже прошедшее проверку подписи.
type CheckoutEvent struct {
	ID              string
	Type            string
	SessionID       string
	PaymentStatus   string
	PaymentIntentID string
}
