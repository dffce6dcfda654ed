package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/config"
)

type cachedCourse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestSetAndGet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	expected := cachedCourse{ID: 1, Title: "Go basics"}
	require.NoError(t, c.Set(ctx, CourseKey(1), expected, time.Minute))

	var actual cachedCourse
	found, err := c.Get(ctx, CourseKey(1), &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	c, _ := setupTestCache(t)

	var out cachedCourse
	found, err := c.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetCorruptedValue(t *testing.T) {
	c, mr := setupTestCache(t)
	require.NoError(t, mr.Set(CourseKey(2), "{not json"))

	var out cachedCourse
	found, err := c.Get(context.Background(), CourseKey(2), &out)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestExpiration(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, CourseKey(3), cachedCourse{ID: 3}, time.Hour))

	mr.FastForward(time.Hour + time.Second)

	var out cachedCourse
	found, err := c.Get(ctx, CourseKey(3), &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, CourseKey(4), cachedCourse{ID: 4}, time.Hour))
	require.NoError(t, c.Set(ctx, CourseKey(5), cachedCourse{ID: 5}, time.Hour))

	require.NoError(t, c.Invalidate(ctx, CourseKey(4), CourseKey(5)))
	assert.False(t, mr.Exists(CourseKey(4)))
	assert.False(t, mr.Exists(CourseKey(5)))

	assert.NoError(t, c.Invalidate(ctx))
}

func TestInitServer_Unreachable(t *testing.T) {
	_, err := InitServer(context.Background(), config.RedisConnection{
		AddressRedis: "127.0.0.1:1",
		DialTimeout:  100 * time.Millisecond,
	})
	assert.Error(t, err)
}

func TestCourseKey(t *testing.T) {
	assert.Equal(t, "course:42", CourseKey(42))
}
