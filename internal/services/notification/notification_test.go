package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey, messageID string, message any) error {
	return m.Called(ctx, routingKey, messageID, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestNotifier_Publish(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		call       func(n *Notifier) error
		routingKey string
		kind       string
		entityID   int64
	}{
		{
			name:       "course updated",
			call:       func(n *Notifier) error { return n.CourseUpdated(context.Background(), 11) },
			routingKey: rabbitmq.RoutingCourseUpdated,
			kind:       models.NotificationCourseUpdated,
			entityID:   11,
		},
		{
			name:       "lesson updated",
			call:       func(n *Notifier) error { return n.LessonUpdated(context.Background(), 22) },
			routingKey: rabbitmq.RoutingLessonUpdated,
			kind:       models.NotificationLessonUpdated,
			entityID:   22,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := new(MockPublisher)
			n := NewNotifier(pub, newNoopLogger())
			n.now = func() time.Time { return fixed }

			pub.On("Publish", mock.Anything, tt.routingKey, mock.AnythingOfType("string"), mock.MatchedBy(func(m models.UpdateNotification) bool {
				_, err := uuid.Parse(m.ID)
				return err == nil && m.Kind == tt.kind && m.EntityID == tt.entityID && m.OccurredAt.Equal(fixed)
			})).Return(nil).Once()

			require.NoError(t, tt.call(n))
			pub.AssertExpectations(t)
		})
	}
}

func TestNotifier_PublishError(t *testing.T) {
	pub := new(MockPublisher)
	n := NewNotifier(pub, newNoopLogger())
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("channel closed")).Once()

	err := n.CourseUpdated(context.Background(), 1)
	assert.ErrorContains(t, err, "channel closed")
	pub.AssertExpectations(t)
}
