package lessons

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListCourseLessons(ctx context.Context, actor permission.Actor, courseID int64, page models.Page) (models.PageResult[models.Lesson], error) {
	args := m.Called(ctx, actor, courseID, page)
	return args.Get(0).(models.PageResult[models.Lesson]), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLessonsHandler(t *testing.T) {
	actor := permission.Actor{UserID: 1, Authenticated: true}

	tests := []struct {
		name           string
		id             string
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "first page",
			id:   "10",
			setupMock: func(m *MockService) {
				page := models.Page{Number: 1}
				m.On("ListCourseLessons", mock.Anything, actor, int64(10), page).Return(
					models.NewPageResult([]models.Lesson{{ID: 1, CourseID: 10, Title: "Intro"}}, 1, models.Page{Number: 1, Size: 10}), nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Intro"`,
		},
		{
			name: "course missing",
			id:   "11",
			setupMock: func(m *MockService) {
				m.On("ListCourseLessons", mock.Anything, actor, int64(11), models.Page{Number: 1}).
					Return(models.PageResult[models.Lesson]{}, models.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/courses/"+tt.id+"/lessons?page=1", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithActor(ctx, actor))
			w := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
