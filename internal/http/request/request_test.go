package request

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
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/lib/videourl"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "42", want: 42},
		{raw: "abc", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := withID(httptest.NewRequest(http.MethodGet, "/", nil), tt.raw)
			id, err := ID(r, "id")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestPage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/courses?page=3&page_size=20", nil)
	assert.Equal(t, models.Page{Number: 3, Size: 20}, Page(r))

	r = httptest.NewRequest(http.MethodGet, "/courses?page=x", nil)
	assert.Equal(t, models.Page{}, Page(r))
}

func TestOptionalID(t *testing.T) {
	id, err := OptionalID(httptest.NewRequest(http.MethodGet, "/payments", nil), "course_id")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = OptionalID(httptest.NewRequest(http.MethodGet, "/payments?course_id=5", nil), "course_id")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(5), *id)

	_, err = OptionalID(httptest.NewRequest(http.MethodGet, "/payments?course_id=five", nil), "course_id")
	assert.ErrorIs(t, err, ErrBadID)
}

func TestBind(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantBody string
	}{
		{name: "valid", body: `{"course_id":1,"title":"Intro","video_url":"https://youtu.be/abc"}`, wantOK: true},
		{name: "broken json", body: `{`, wantBody: `"invalid request body"`},
		{name: "missing title", body: `{"course_id":1}`, wantBody: "field Title is a required field"},
		{name: "foreign video", body: `{"course_id":1,"title":"Intro","video_url":"https://vimeo.com/1"}`, wantBody: "only youtube video links are allowed"},
		{name: "body too large", body: `{"course_id":1,"title":"` + strings.Repeat("a", MaxBodyBytes) + `"}`, wantBody: `"invalid request body"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/lessons", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var in models.LessonInput
			ok := Bind(w, r, newNoopLogger(), videourl.NewValidator(), &in)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "Intro", in.Title)
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
