package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/feedback-api/backend/internal/models"
	"github.com/pageza/feedback-api/backend/internal/repository"
	"github.com/pageza/feedback-api/backend/internal/service"
	"github.com/pageza/feedback-api/backend/internal/testhelpers"
)

func setupFeedbackRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	handler := NewFeedbackHandler(service.NewFeedbackService(repository.NewFeedbackRepository(db)))

	router := gin.New()
	handler.RegisterRoutes(router)
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeFeedback(t *testing.T, w *httptest.ResponseRecorder) FeedbackResponse {
	t.Helper()
	var resp FeedbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestListFeedbackEmpty(t *testing.T) {
	router := setupFeedbackRouter(t)

	w := doRequest(t, router, http.MethodGet, "/feedback", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateFeedback(t *testing.T) {
	router := setupFeedbackRouter(t)

	w := doRequest(t, router, http.MethodPost, "/feedback", map[string]interface{}{
		"rating":      4,
		"description": "Good service!",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, float64(4), raw["rating"])
	assert.Equal(t, "Good service!", raw["description"])
	assert.Equal(t, "Satisfied", raw["satisfaction"])
	assert.Contains(t, raw, "id")
	require.Contains(t, raw, "created_at")
	_, err := time.Parse(time.RFC3339Nano, raw["created_at"].(string))
	assert.NoError(t, err)
}

func TestCreateFeedbackWithoutDescription(t *testing.T) {
	router := setupFeedbackRouter(t)

	w := doRequest(t, router, http.MethodPost, "/feedback", map[string]interface{}{"rating": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw, "description")
	assert.Nil(t, raw["description"])
	assert.Equal(t, "Neutral", raw["satisfaction"])
}

func TestCreateFeedbackValidation(t *testing.T) {
	router := setupFeedbackRouter(t)

	tests := []struct {
		name      string
		body      interface{}
		wantField string
	}{
		{"missing rating", map[string]interface{}{"description": "x"}, "rating"},
		{"rating too low", map[string]interface{}{"rating": 0}, "rating"},
		{"rating too high", map[string]interface{}{"rating": 6}, "rating"},
		{"rating wrong type", map[string]interface{}{"rating": "five"}, "rating"},
		{"description wrong type", map[string]interface{}{"rating": 3, "description": 12}, "description"},
		{"description too long", map[string]interface{}{"rating": 3, "description": strings.Repeat("a", 2001)}, "description"},
		{"malformed json", `{"rating": `, ""},
		{"empty body", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/feedback", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			if tt.wantField != "" {
				require.NotEmpty(t, resp.Details)
				assert.Equal(t, tt.wantField, resp.Details[0].Field)
			}
		})
	}

	// None of the rejected requests wrote anything
	w := doRequest(t, router, http.MethodGet, "/feedback", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetFeedback(t *testing.T) {
	router := setupFeedbackRouter(t)

	created := decodeFeedback(t, doRequest(t, router, http.MethodPost, "/feedback", map[string]interface{}{
		"rating":      2,
		"description": "Not bad.",
	}))

	w := doRequest(t, router, http.MethodGet, fmt.Sprintf("/feedback/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeFeedback(t, w)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Rating, got.Rating)
	assert.Equal(t, created.Satisfaction, got.Satisfaction)
	assert.Equal(t, *created.Description, *got.Description)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestGetFeedbackNotFound(t *testing.T) {
	router := setupFeedbackRouter(t)

	w := doRequest(t, router, http.MethodGet, "/feedback/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Feedback not found"}`, w.Body.String())
}

func TestInvalidFeedbackID(t *testing.T) {
	router := setupFeedbackRouter(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := doRequest(t, router, method, "/feedback/abc", map[string]interface{}{"rating": 3})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, method)
	}
}

func TestListFeedbackOrdered(t *testing.T) {
	router := setupFeedbackRouter(t)

	for _, rating := range []int{5, 3, 1} {
		w := doRequest(t, router, http.MethodPost, "/feedback", map[string]interface{}{"rating": rating, "description": "x"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(t, router, http.MethodGet, "/feedback", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []FeedbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, []int{5, 3, 1}, []int{list[0].Rating, list[1].Rating, list[2].Rating})
	assert.Equal(t, "Very Satisfied", list[0].Satisfaction)
	assert.Equal(t, "Satisfied", list[1].Satisfaction)
	assert.Equal(t, "Very Dissatisfied", list[2].Satisfaction)
}

func TestUpdateFeedbackNotFound(t *testing.T) {
	router := setupFeedbackRouter(t)

	w := doRequest(t, router, http.MethodPut, "/feedback/999", map[string]interface{}{"rating": 5, "description": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodGet, "/feedback", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUpdateFeedbackValidation(t *testing.T) {
	router := setupFeedbackRouter(t)

	created := decodeFeedback(t, doRequest(t, router, http.MethodPost, "/feedback", map[string]interface{}{"rating": 3, "description": "ok"}))

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/feedback/%d", created.ID), map[string]interface{}{"rating": 7})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	got := decodeFeedback(t, doRequest(t, router, http.MethodGet, fmt.Sprintf("/feedback/%d", created.ID), nil))
	assert.Equal(t, 3, got.Rating)
}

func TestDeleteFeedbackMissing(t *testing.T) {
	router := setupFeedbackRouter(t)

	w := doRequest(t, router, http.MethodDelete, "/feedback/999", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestFeedbackScenario(t *testing.T) {
	router := setupFeedbackRouter(t)

	w := doRequest(t, router, http.MethodPost, "/feedback", map[string]interface{}{"rating": 4, "description": "Good service!"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeFeedback(t, w)
	assert.Equal(t, "Satisfied", created.Satisfaction)
	path := fmt.Sprintf("/feedback/%d", created.ID)

	w = doRequest(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decodeFeedback(t, w).ID)

	w = doRequest(t, router, http.MethodPut, path, map[string]interface{}{"rating": 5, "description": "Much better now!"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeFeedback(t, w)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "Very Satisfied", updated.Satisfaction)
	assert.Equal(t, "Much better now!", *updated.Description)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	w = doRequest(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Very Satisfied", decodeFeedback(t, w).Satisfaction)

	w = doRequest(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// failingService fails every call with the configured error
type failingService struct {
	err error
}

func (f failingService) List(context.Context) ([]models.Feedback, error) { return nil, f.err }
func (f failingService) Create(context.Context, int, *string) (*models.Feedback, error) {
	return nil, f.err
}
func (f failingService) Get(context.Context, int64) (*models.Feedback, error) { return nil, f.err }
func (f failingService) Update(context.Context, int64, int, *string) (*models.Feedback, error) {
	return nil, f.err
}
func (f failingService) Delete(context.Context, int64) error { return f.err }

func TestStoreFailuresAreInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewFeedbackHandler(failingService{err: errors.New("connection refused")}).RegisterRoutes(router)

	body := map[string]interface{}{"rating": 3}
	cases := []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodGet, "/feedback", nil},
		{http.MethodPost, "/feedback", body},
		{http.MethodGet, "/feedback/1", nil},
		{http.MethodPut, "/feedback/1", body},
		{http.MethodDelete, "/feedback/1", nil},
	}
	for _, c := range cases {
		w := doRequest(t, router, c.method, c.path, c.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, "%s %s", c.method, c.path)
		assert.NotContains(t, w.Body.String(), "connection refused")
	}
}

func TestClassifierFailureIsClientError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewFeedbackHandler(failingService{err: fmt.Errorf("%w: 9", models.ErrInvalidRating)}).RegisterRoutes(router)

	w := doRequest(t, router, http.MethodPost, "/feedback", map[string]interface{}{"rating": 3})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestWriteMiddlewareOnlyGuardsWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) }
	NewFeedbackHandler(failingService{err: errors.New("unused")}).RegisterRoutes(router, deny)

	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, router, http.MethodPost, "/feedback", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, router, http.MethodPut, "/feedback/1", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, router, http.MethodDelete, "/feedback/1", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, doRequest(t, router, http.MethodGet, "/feedback", nil).Code)
}
