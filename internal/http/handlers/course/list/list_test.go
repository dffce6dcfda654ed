package list

import (
	"context"
	"errors"
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

type MockService struct {
	mock.Mock
}

func (m *MockService) ListCourses(ctx context.Context, actor permission.Actor, page models.Page) (models.PageResult[models.Course], error) {
	args := m.Called(ctx, actor, page)
	return args.Get(0).(models.PageResult[models.Course]), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestListHandler(t *testing.T) {
	actor := permission.Actor{UserID: 1, Authenticated: true}
	page := models.Page{Number: 2, Size: 5}

	tests := []struct {
		name           string
		url            string
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "page of courses",
			url:  "/courses?page=2&page_size=5",
			setupMock: func(m *MockService) {
				m.On("ListCourses", mock.Anything, actor, page).Return(
					models.NewPageResult([]models.Course{{ID: 6, Title: "Go"}}, 6, page), nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":6`,
		},
		{
			name: "storage error",
			url:  "/courses",
			setupMock: func(m *MockService) {
				m.On("ListCourses", mock.Anything, actor, models.Page{}).
					Return(models.PageResult[models.Course]{}, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			req = req.WithContext(middlewarectx.WithActor(req.Context(), actor))
			w := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
