package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

const paymentColumns = `id, user_id, course_id, amount, currency, status, product_id, price_id,
	session_id, payment_intent_id, payment_url, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	p := &models.Payment{}
	if err := row.Scan(&p.ID, &p.UserID, &p.CourseID, &p.Amount, &p.Currency, &p.Status,
		&p.ProductID, &p.PriceID, &p.SessionID, &p.PaymentIntentID, &p.PaymentURL,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePayment сохраняет платёж со статусом PENDING.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) (*models.Payment, error) {
	const op = "storage.CreatePayment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO payments (user_id, course_id, amount, currency, status,
			      product_id, price_id, session_id, payment_intent_id, payment_url)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + paymentColumns
	created, err := scanPayment(s.DB.QueryRowContext(ctx, query,
		p.UserID, p.CourseID, p.Amount, p.Currency, models.PaymentPending,
		p.ProductID, p.PriceID, p.SessionID, p.PaymentIntentID, p.PaymentURL))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetPayment возвращает платёж по ID.
func (s *Storage) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	const op = "storage.GetPayment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanPayment(s.DB.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(op, err)
	}
	return p, nil
}

// GetPaymentBySession возвращает платёж по идентификатору сессии оплаты.
func (s *Storage) GetPaymentBySession(ctx context.Context, sessionID string) (*models.Payment, error) {
	const op = "storage.GetPaymentBySession"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanPayment(s.DB.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE session_id = $1`, sessionID))
	if err != nil {
		return nil, notFound(op, err)
	}
	return p, nil
}

// ListPayments возвращает платежи по фильтру, новые первыми.
func (s *Storage) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	const op = "storage.ListPayments"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE ($1::BIGINT IS NULL OR user_id = $1)
		  AND ($2::BIGINT IS NULL OR course_id = $2)
		ORDER BY created_at DESC, id DESC`,
		nullInt64(filter.UserID), nullInt64(filter.CourseID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// TransitionPayment переводит платёж сессии sessionID в статус to под блокировкой
// строки. Недопустимый переход не меняет запись и возвращает Applied=false.
// paymentIntentID записывается, только если непуст.
func (s *Storage) TransitionPayment(ctx context.Context, sessionID string, to models.PaymentStatus, paymentIntentID string) (*models.PaymentTransition, error) {
	const op = "storage.TransitionPayment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	current, err := scanPayment(tx.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE session_id = $1 FOR UPDATE`, sessionID))
	if err != nil {
		return nil, notFound(op, err)
	}

	result := &models.PaymentTransition{Payment: current, From: current.Status}
	if !models.CanTransition(current.Status, to) {
		return result, nil
	}

	updated, err := scanPayment(tx.QueryRowContext(ctx, `
		UPDATE payments
		SET status = $2,
		    payment_intent_id = CASE WHEN $3 = '' THEN payment_intent_id ELSE $3 END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+paymentColumns, current.ID, to, paymentIntentID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result.Payment = updated
	result.Applied = true
	return result, nil
}
