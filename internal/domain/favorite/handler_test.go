package favorite

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatehub/internal/logger"
)

type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, _ := setupRepo(t)
	return newTestRouter(repo)
}

func newTestRouter(repo Repository) *gin.Engine {
	h := NewHandler(NewService(repo, logger.Discard()))

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func doRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, data any) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

func toggle(t *testing.T, r http.Handler, userID, propertyID string) ToggleResult {
	t.Helper()
	rr := doRequest(r, http.MethodPost, "/api/favorites/toggle", map[string]string{
		"userId": userID, "propertyId": propertyID,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var res ToggleResult
	decodeResponse(t, rr, &res)
	return res
}

func TestHandler_ToggleFlow(t *testing.T) {
	r := setupTestRouter(t)

	res := toggle(t, r, "user123", "1")
	assert.Equal(t, ActionAdded, res.Action)
	require.NotNil(t, res.Favorite)
	assert.Equal(t, "1", res.Favorite.PropertyID)

	rr := doRequest(r, http.MethodGet, "/api/favorites/check?userId=user123&propertyId=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"isFavorite":true`)
	var check CheckFavoriteResponse
	decodeResponse(t, rr, &check)
	assert.True(t, check.IsFavorite)

	rr = doRequest(r, http.MethodGet, "/api/favorites/count/user123", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var count CountResponse
	decodeResponse(t, rr, &count)
	assert.Equal(t, int64(1), count.Count)

	res = toggle(t, r, "user123", "1")
	assert.Equal(t, ActionRemoved, res.Action)
	assert.Nil(t, res.Favorite)

	rr = doRequest(r, http.MethodGet, "/api/favorites/check?userId=user123&propertyId=1", nil)
	decodeResponse(t, rr, &check)
	assert.False(t, check.IsFavorite)
}

func TestHandler_ToggleResponseShape(t *testing.T) {
	r := setupTestRouter(t)

	rr := doRequest(r, http.MethodPost, "/api/favorites/toggle", `{"userId":"user123","propertyId":"2"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `"action":"added"`)
	assert.Contains(t, body, `"property_id":"2"`)
	assert.Contains(t, body, `"user_id":"user123"`)
}

func TestHandler_ToggleErrors(t *testing.T) {
	r := setupTestRouter(t)

	cases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{name: "malformed json", body: `{"userId":`, status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{name: "missing user", body: map[string]string{"propertyId": "1"}, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "missing property", body: map[string]string{"userId": "user123"}, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "blank user", body: map[string]string{"userId": "   ", "propertyId": "1"}, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "unknown property", body: map[string]string{"userId": "user123", "propertyId": "999"}, status: http.StatusBadRequest, code: "PROPERTY_NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doRequest(r, http.MethodPost, "/api/favorites/toggle", tc.body)
			assert.Equal(t, tc.status, rr.Code)
			resp := decodeResponse(t, rr, nil)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestHandler_GetFavorites(t *testing.T) {
	r := setupTestRouter(t)
	toggle(t, r, "user123", "1")

	rr := doRequest(r, http.MethodGet, "/api/favorites?userId=user123", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []FavoriteWithProperty
	decodeResponse(t, rr, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].PropertyID)
	assert.Equal(t, "Appartement lumineux", list[0].PropertyTitle)
	assert.Contains(t, rr.Body.String(), `"property_title":"Appartement lumineux"`)

	rr = doRequest(r, http.MethodGet, "/api/favorites?userId=nobody", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"data":[]`)
}

func TestHandler_MissingUserID(t *testing.T) {
	r := setupTestRouter(t)

	for _, path := range []string{
		"/api/favorites",
		"/api/favorites?userId=",
		"/api/favorites/check?propertyId=1",
		"/api/favorites/check?userId=user123",
		"/api/favorites/count",
		"/api/favorites/count/",
		"/api/favorites/count/%20",
		"/api/favorites/count/" + strings.Repeat("u", 101),
	} {
		rr := doRequest(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
		resp := decodeResponse(t, rr, nil)
		require.NotNil(t, resp.Error, path)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code, path)
	}
}

func TestHandler_ToggleConcurrentChangeIsConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo, db := setupRepo(t)
	removeAfterInsert(t, db, -1)
	r := newTestRouter(repo)

	rr := doRequest(r, http.MethodPost, "/api/favorites/toggle", map[string]string{
		"userId": "user123", "propertyId": "2",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	resp := decodeResponse(t, rr, nil)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}
