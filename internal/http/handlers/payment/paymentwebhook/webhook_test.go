package paymentwebhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*models.ReconcileResult, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconcileResult), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestWebhookHandler(t *testing.T) {
	payload := `{"id":"evt_1","type":"checkout.session.completed"}`

	tests := []struct {
		name           string
		mockRes        *models.ReconcileResult
		mockErr        error
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "applied",
			mockRes: &models.ReconcileResult{
				Outcome: models.ReconcileApplied, EventType: "checkout.session.completed", SessionID: "cs_1",
				PaymentID: 3, From: models.PaymentPending, To: models.PaymentSucceeded,
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"outcome":"applied"`,
		},
		{
			name:           "ignored event is accepted",
			mockRes:        &models.ReconcileResult{Outcome: models.ReconcileIgnored, EventType: "invoice.paid"},
			expectedStatus: http.StatusOK,
			expectedBody:   `"outcome":"ignored"`,
		},
		{
			name:           "bad signature",
			mockErr:        fmt.Errorf("verify: %w", models.ErrSignature),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid webhook signature"}`,
		},
		{
			name:           "storage error is retried",
			mockErr:        errors.New("deadlock detected"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.mockErr != nil {
				svc.On("HandleWebhook", mock.Anything, []byte(payload), "t=1,v1=abc").Return(nil, tt.mockErr).Once()
			} else {
				svc.On("HandleWebhook", mock.Anything, []byte(payload), "t=1,v1=abc").Return(tt.mockRes, nil).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(payload))
			req.Header.Set(SignatureHeader, "t=1,v1=abc")
			w := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
