package middlewarectx_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

type AuthenticatorMock struct {
	mock.Mock
}

func (m *AuthenticatorMock) Authenticate(ctx context.Context, token string) (permission.Actor, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(permission.Actor), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	actor := permission.Actor{UserID: 7, Email: "user@example.com", Role: permission.Plain, Authenticated: true}

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(m *AuthenticatorMock)
		wantStatusCode int
		wantCalled     bool
		wantBody       string
	}{
		{
			name:           "missing Authorization header",
			setupMock:      func(_ *AuthenticatorMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"status":"Error","error":"missing or invalid authorization header"}`,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			setupMock:      func(_ *AuthenticatorMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"status":"Error","error":"missing or invalid authorization header"}`,
		},
		{
			name:       "token rejected",
			authHeader: "Bearer expired",
			setupMock: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "expired").
					Return(permission.Anonymous, fmt.Errorf("auth: %w", models.ErrUnauthenticated)).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"status":"Error","error":"invalid or expired token"}`,
		},
		{
			name:       "valid token",
			authHeader: "Bearer validtoken",
			setupMock: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "validtoken").Return(actor, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthenticatorMock)
			tt.setupMock(authMock)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				assert.Equal(t, actor, middlewarectx.ActorFrom(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			middlewarectx.JWTMiddleware(authMock, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			authMock.AssertExpectations(t)
		})
	}
}

func TestActorFrom(t *testing.T) {
	assert.Equal(t, permission.Anonymous, middlewarectx.ActorFrom(context.Background()))

	actor := permission.Actor{UserID: 1, Authenticated: true}
	ctx := middlewarectx.WithActor(context.Background(), actor)
	assert.Equal(t, actor, middlewarectx.ActorFrom(ctx))
}
