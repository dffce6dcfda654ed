// Package services управляет жизненным циклом платежей за курсы.
//
// Платёж создаётся в статусе PENDING только после успешного создания
// продукта, цены и сессии оплаты у платёжного сервиса. Дальше статус
// меняется исключительно событиями webhook.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/paymentprovider"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

// CourseReader читает оплачиваемый курс.
type CourseReader interface {
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
}

// PaymentRepository хранилище платежей.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p models.Payment) (*models.Payment, error)
	GetPayment(ctx context.Context, id int64) (*models.Payment, error)
	GetPaymentBySession(ctx context.Context, sessionID string) (*models.Payment, error)
	ListPayments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	TransitionPayment(ctx context.Context, sessionID string, to models.PaymentStatus, paymentIntentID string) (*models.PaymentTransition, error)
}

// Processor внешний платёжный сервис.
type Processor interface {
	CreateProduct(ctx context.Context, name, description, idempotencyKey string) (string, error)
	CreatePrice(ctx context.Context, productID string, amount int64, currency, idempotencyKey string) (string, error)
	CreateCheckoutSession(ctx context.Context, in paymentprovider.CheckoutParams) (*paymentprovider.CheckoutSession, error)
	VerifyWebhook(payload []byte, signature string) (*models.CheckoutEvent, error)
}

// Options параметры оплаты из конфига.
type Options struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// PaymentService создание платежей и сверка событий платёжного сервиса.
type PaymentService struct {
	courses   CourseReader
	payments  PaymentRepository
	processor Processor
	opts      Options
	log       *slog.Logger
}

// New создаёт PaymentService.
func New(courses CourseReader, payments PaymentRepository, processor Processor, opts Options, log *slog.Logger) *PaymentService {
	return &PaymentService{
		courses:   courses,
		payments:  payments,
		processor: processor,
		opts:      opts,
		log:       log,
	}
}

// external переводит ошибку платёжного сервиса: отказ по параметрам остаётся
// models.ErrPaymentRejected, остальное становится models.ErrExternalService.
func external(op, step string, err error) error {
	if errors.Is(err, models.ErrPaymentRejected) {
		return fmt.Errorf("%s: %s: %w", op, step, err)
	}
	return fmt.Errorf("%s: %s: %w: %v", op, step, models.ErrExternalService, err)
}

func processorResult(err error) string {
	if errors.Is(err, models.ErrPaymentRejected) {
		return "rejected"
	}
	return "processor_error"
}

// Initiate создаёт платёж субъекта за курс и возвращает его со ссылкой на оплату.
// Бесплатный курс отклоняется без обращения к платёжному сервису.
func (s *PaymentService) Initiate(ctx context.Context, actor permission.Actor, courseID int64) (*models.Payment, error) {
	const op = "services.payment.Initiate"
	result := "error"
	defer func() {
		metrics.PaymentsInitiated.WithLabelValues(result).Inc()
	}()

	if !actor.Authenticated {
		result = "unauthenticated"
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if course.IsFree() {
		result = "free_course"
		return nil, fmt.Errorf("%s: %w", op, models.ErrFreeCourse)
	}
	amount := *course.Price
	key := uuid.NewString()

	productID, err := s.processor.CreateProduct(ctx, course.Title, course.Description, key)
	if err != nil {
		result = processorResult(err)
		return nil, external(op, "create product", err)
	}
	priceID, err := s.processor.CreatePrice(ctx, productID, amount, s.opts.Currency, key)
	if err != nil {
		result = processorResult(err)
		return nil, external(op, "create price", err)
	}
	session, err := s.processor.CreateCheckoutSession(ctx, paymentprovider.CheckoutParams{
		PriceID:    priceID,
		SuccessURL: s.opts.SuccessURL,
		CancelURL:  s.opts.CancelURL,
		Metadata: map[string]string{
			"user_id":   strconv.FormatInt(actor.UserID, 10),
			"course_id": strconv.FormatInt(course.ID, 10),
		},
		IdempotencyKey: key,
	})
	if err != nil {
		result = processorResult(err)
		return nil, external(op, "create checkout session", err)
	}

	payment, err := s.payments.CreatePayment(ctx, models.Payment{
		UserID:          actor.UserID,
		CourseID:        course.ID,
		Amount:          amount,
		Currency:        s.opts.Currency,
		Status:          models.PaymentPending,
		ProductID:       productID,
		PriceID:         priceID,
		SessionID:       session.ID,
		PaymentIntentID: session.PaymentIntentID,
		PaymentURL:      session.URL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result = "created"
	s.log.Info("payment created",
		slog.Int64("payment_id", payment.ID),
		slog.Int64("user_id", actor.UserID),
		slog.Int64("course_id", course.ID),
		slog.String("session_id", session.ID),
	)
	return payment, nil
}

// List возвращает платежи субъекта. Модератор видит все платежи.
func (s *PaymentService) List(ctx context.Context, actor permission.Actor, courseID *int64) ([]models.Payment, error) {
	const op = "services.payment.List"
	if !actor.Authenticated {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	filter := models.PaymentFilter{CourseID: courseID}
	if !actor.IsModerator() {
		userID := actor.UserID
		filter.UserID = &userID
	}
	payments, err := s.payments.ListPayments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}

// Get возвращает платёж. Чужой платёж для обычного пользователя не существует.
func (s *PaymentService) Get(ctx context.Context, actor permission.Actor, id int64) (*models.Payment, error) {
	const op = "services.payment.Get"
	if !actor.Authenticated {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	payment, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if payment.UserID != actor.UserID && !actor.IsModerator() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return payment, nil
}

// SessionStatus возвращает платёж по идентификатору сессии оплаты.
func (s *PaymentService) SessionStatus(ctx context.Context, sessionID string) (*models.Payment, error) {
	const op = "services.payment.SessionStatus"
	if sessionID == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	payment, err := s.payments.GetPaymentBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// HandleWebhook проверяет подпись события и сверяет его с платежом.
// Событие с неверной подписью не доходит до сверки.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*models.ReconcileResult, error) {
	const op = "services.payment.HandleWebhook"
	event, err := s.processor.VerifyWebhook(payload, signature)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "invalid_signature").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.Reconcile(ctx, *event)
}

// targetStatus сопоставляет событию целевой статус платежа.
func targetStatus(event models.CheckoutEvent) (models.PaymentStatus, bool) {
	switch event.Type {
	case paymentprovider.EventSessionCompleted:
		switch event.PaymentStatus {
		case "paid", "no_payment_required":
			return models.PaymentSucceeded, true
		case "unpaid":
			return models.PaymentProcessing, true
		}
	case paymentprovider.EventSessionAsyncSucceeded:
		return models.PaymentSucceeded, true
	case paymentprovider.EventSessionAsyncFailed:
		return models.PaymentFailed, true
	case paymentprovider.EventSessionExpired:
		return models.PaymentCanceled, true
	}
	return "", false
}

// Reconcile применяет проверенное событие к платежу его сессии.
// Повторное событие и событие без платежа не являются ошибкой.
func (s *PaymentService) Reconcile(ctx context.Context, event models.CheckoutEvent) (*models.ReconcileResult, error) {
	const op = "services.payment.Reconcile"
	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
		slog.String("session_id", event.SessionID),
	)
	res := &models.ReconcileResult{EventType: event.Type, SessionID: event.SessionID}

	to, ok := targetStatus(event)
	if !ok || event.SessionID == "" {
		res.Outcome = models.ReconcileIgnored
		log.Debug("webhook event ignored")
		metrics.WebhookEvents.WithLabelValues(event.Type, string(res.Outcome)).Inc()
		return res, nil
	}
	res.To = to

	tr, err := s.payments.TransitionPayment(ctx, event.SessionID, to, event.PaymentIntentID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		res.Outcome = models.ReconcileNotFound
		log.Info("no payment for session")
	case err != nil:
		log.Error("failed to apply webhook event", sl.Err(err))
		metrics.WebhookEvents.WithLabelValues(event.Type, "error").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	case tr.Applied:
		res.Outcome = models.ReconcileApplied
		res.PaymentID = tr.Payment.ID
		res.From = tr.From
		log.Info("payment status changed", slog.String("from", string(tr.From)), slog.String("to", string(to)))
	default:
		res.Outcome = models.ReconcileDuplicate
		res.PaymentID = tr.Payment.ID
		res.From = tr.From
		log.Info("payment already processed", slog.String("status", string(tr.From)))
	}
	metrics.WebhookEvents.WithLabelValues(event.Type, string(res.Outcome)).Inc()
	return res, nil
}
