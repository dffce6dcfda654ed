package update

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
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

func (m *MockService) UpdateLesson(ctx context.Context, actor permission.Actor, id int64, patch models.LessonPatch) (*models.Lesson, error) {
	args := m.Called(ctx, actor, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockService) ReplaceLesson(ctx context.Context, actor permission.Actor, id int64, in models.LessonInput) (*models.Lesson, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestUpdateHandler(t *testing.T) {
	moderator := permission.Actor{UserID: 2, Role: permission.Moderator, Authenticated: true}

	tests := []struct {
		name           string
		replace        bool
		body           string
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "patch video",
			body: `{"video_url":"https://youtu.be/xyz"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateLesson", mock.Anything, moderator, int64(7), mock.MatchedBy(func(p models.LessonPatch) bool {
					return p.VideoURL != nil && *p.VideoURL == "https://youtu.be/xyz" && p.Title == nil
				})).Return(&models.Lesson{ID: 7, VideoURL: "https://youtu.be/xyz"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"video_url":"https://youtu.be/xyz"`,
		},
		{
			name:           "patch with foreign video",
			body:           `{"video_url":"https://vimeo.com/1"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "only youtube video links are allowed",
		},
		{
			name:    "put",
			replace: true,
			body:    `{"course_id":3,"title":"New"}`,
			setupMock: func(m *MockService) {
				m.On("ReplaceLesson", mock.Anything, moderator, int64(7), models.LessonInput{CourseID: 3, Title: "New"}).
					Return(&models.Lesson{ID: 7, CourseID: 1, Title: "New"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"course_id":1`,
		},
		{
			name: "missing lesson",
			body: `{"title":"x"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateLesson", mock.Anything, moderator, int64(7), mock.Anything).Return(nil, models.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			method := http.MethodPatch
			h := New(newNoopLogger(), svc)
			if tt.replace {
				method = http.MethodPut
				h = NewReplace(newNoopLogger(), svc)
			}

			req := httptest.NewRequest(method, "/lessons/7", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "7")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithActor(ctx, moderator))
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
