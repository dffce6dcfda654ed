package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/lib/videourl"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

func TestStatusOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := StatusOKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		Email string `validate:"required,email"`
		Title string `validate:"max=3"`
		Video string `validate:"omitempty,youtube"`
		Price int64  `validate:"gte=0"`
	}

	v := videourl.NewValidator()
	err := v.Struct(TestStruct{Email: "not-an-email", Title: "long title", Video: "https://vimeo.com/1", Price: -1})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email")
	assert.Contains(t, resp.Error, "field Title must be at most 3 characters")
	assert.Contains(t, resp.Error, "field Video: only youtube video links are allowed")
	assert.Contains(t, resp.Error, "field Price must be gte 0")
}

func TestValidationErrorRequired(t *testing.T) {
	type TestStruct struct {
		Name string `validate:"required"`
	}

	err := validator.New().Struct(TestStruct{})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Contains(t, resp.Error, "field Name is a required field")
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"unauthenticated", models.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{"bad credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{"inactive", models.ErrUserInactive, http.StatusForbidden, "user is inactive"},
		{"forbidden wrapped", fmt.Errorf("op: %w", models.ErrForbidden), http.StatusForbidden, "permission denied"},
		{"not found", fmt.Errorf("op: %w", models.ErrNotFound), http.StatusNotFound, "not found"},
		{"self subscription", models.ErrSelfSubscription, http.StatusBadRequest, "cannot subscribe to own course"},
		{"free course", models.ErrFreeCourse, http.StatusBadRequest, "course is free and cannot be paid"},
		{"video url keeps safe text", fmt.Errorf("%w: host %q", models.ErrInvalidVideoURL, "vimeo.com"), http.StatusBadRequest, "only youtube video links are allowed"},
		{"email taken", models.ErrEmailTaken, http.StatusBadRequest, "email already registered"},
		{"signature", models.ErrSignature, http.StatusBadRequest, "invalid webhook signature"},
		{"external", fmt.Errorf("op: create price: %w: %v", models.ErrExternalService, errors.New("card_declined")), http.StatusBadGateway, "payment service unavailable"},
		{"rejected by processor", fmt.Errorf("op: create price: %w", models.ErrPaymentRejected), http.StatusBadRequest, "payment service rejected the request"},
		{"unknown", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestFail(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	Fail(w, r, fmt.Errorf("op: %w", models.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"Error","error":"not found"}`, w.Body.String())
}
