package paymentprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

type productAPI interface {
	New(params *stripe.ProductParams) (*stripe.Product, error)
}

type priceAPI interface {
	New(params *stripe.PriceParams) (*stripe.Price, error)
}

type sessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Client вызовы Stripe, нужные для оплаты курса.
type Client struct {
	products      productAPI
	prices        priceAPI
	sessions      sessionAPI
	webhookSecret string
}

// NewClient создаёт клиента Stripe с ключом из конфига.
func NewClient(cfg config.Stripe) *Client {
	sc := client.New(cfg.StripeSecretKey, nil)
	return &Client{
		products:      sc.Products,
		prices:        sc.Prices,
		sessions:      sc.CheckoutSessions,
		webhookSecret: cfg.StripeWebhookSecret,
	}
}

// wrap помечает отказ Stripe из-за параметров запроса как models.ErrPaymentRejected.
func wrap(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Type == stripe.ErrorTypeInvalidRequest {
		return fmt.Errorf("%s: %w: %w", op, models.ErrPaymentRejected, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CreateProduct регистрирует товар и возвращает его ID.
func (c *Client) CreateProduct(ctx context.Context, name, description, idempotencyKey string) (string, error) {
	const op = "paymentprovider.CreateProduct"
	params := &stripe.ProductParams{Name: stripe.String(name)}
	if description != "" {
		params.Description = stripe.String(description)
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey + "-product")
	}

	p, err := c.products.New(params)
	if err != nil {
		return "", wrap(op, err)
	}
	return p.ID, nil
}

// CreatePrice создаёт цену amount в минимальных единицах валюты.
func (c *Client) CreatePrice(ctx context.Context, productID string, amount int64, currency, idempotencyKey string) (string, error) {
	const op = "paymentprovider.CreatePrice"
	params := &stripe.PriceParams{
		Product:    stripe.String(productID),
		UnitAmount: stripe.Int64(amount),
		Currency:   stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey + "-price")
	}

	p, err := c.prices.New(params)
	if err != nil {
		return "", wrap(op, err)
	}
	return p.ID, nil
}

// CreateCheckoutSession создаёт сессию оплаты одной позиции картой.
func (c *Client) CreateCheckoutSession(ctx context.Context, in CheckoutParams) (*CheckoutSession, error) {
	const op = "paymentprovider.CreateCheckoutSession"
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(in.PriceID), Quantity: stripe.Int64(1)},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(withSessionID(in.SuccessURL)),
		CancelURL:  stripe.String(withSessionID(in.CancelURL)),
		Metadata:   in.Metadata,
	}
	params.Context = ctx
	if in.IdempotencyKey != "" {
		params.SetIdempotencyKey(in.IdempotencyKey + "-session")
	}

	s, err := c.sessions.New(params)
	if err != nil {
		return nil, wrap(op, err)
	}
	out := &CheckoutSession{ID: s.ID, URL: s.URL}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	return out, nil
}

// withSessionID добавляет к адресу возврата параметр session_id.
func withSessionID(u string) string {
	if u == "" || strings.Contains(u, sessionIDPlaceholder) {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "session_id=" + sessionIDPlaceholder
}
