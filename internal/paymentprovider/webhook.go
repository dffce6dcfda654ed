package paymentprovider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

// VerifyWebhook проверяет подпись и разбирает событие. Ошибка подписи
// оборачивает models.ErrSignature. Для событий вне checkout.session
// заполняются только ID и Type.
func (c *Client) VerifyWebhook(payload []byte, signature string) (*models.CheckoutEvent, error) {
	const op = "paymentprovider.VerifyWebhook"
	event, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrSignature, err)
	}

	out := &models.CheckoutEvent{ID: event.ID, Type: string(event.Type)}
	if !strings.HasPrefix(out.Type, "checkout.session.") || event.Data == nil {
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("%s: invalid checkout session payload: %w", op, err)
	}
	out.SessionID = cs.ID
	out.PaymentStatus = string(cs.PaymentStatus)
	if cs.PaymentIntent != nil {
		out.PaymentIntentID = cs.PaymentIntent.ID
	}
	return out, nil
}
