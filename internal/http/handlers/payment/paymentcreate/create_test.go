package paymentcreate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Initiate(ctx context.Context, actor permission.Actor, courseID int64) (*models.Payment, error) {
	args := m.Called(ctx, actor, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreatePaymentHandler(t *testing.T) {
	actor := permission.Actor{UserID: 1, Authenticated: true}

	tests := []struct {
		name           string
		body           string
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "created",
			body: `{"course_id":3}`,
			setupMock: func(m *MockService) {
				m.On("Initiate", mock.Anything, actor, int64(3)).Return(&models.Payment{
					ID: 10, UserID: 1, CourseID: 3, Amount: 1999, Currency: "usd",
					Status: models.PaymentPending, SessionID: "cs_1", PaymentURL: "https://checkout.stripe.com/c/cs_1",
				}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"payment_url":"https://checkout.stripe.com/c/cs_1"`,
		},
		{
			name:           "invalid json",
			body:           `{`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "missing course",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "field CourseID is a required field",
		},
		{
			name: "free course",
			body: `{"course_id":4}`,
			setupMock: func(m *MockService) {
				m.On("Initiate", mock.Anything, actor, int64(4)).Return(nil, models.ErrFreeCourse).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"course is free and cannot be paid"}`,
		},
		{
			name: "processor down",
			body: `{"course_id":3}`,
			setupMock: func(m *MockService) {
				m.On("Initiate", mock.Anything, actor, int64(3)).
					Return(nil, fmt.Errorf("op: create price: %w: timeout", models.ErrExternalService)).Once()
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"status":"Error","error":"payment service unavailable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(tt.body))
			req = req.WithContext(middlewarectx.WithActor(req.Context(), actor))
			w := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
