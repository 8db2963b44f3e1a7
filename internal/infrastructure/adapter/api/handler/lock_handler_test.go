package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vleky/trailer-access/internal/domain/entity"
	errs "github.com/vleky/trailer-access/internal/domain/error"
	"github.com/vleky/trailer-access/internal/domain/port/usecase"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/api/dto"
	coremocks "github.com/vleky/trailer-access/mocks/port/core"
	usecasemocks "github.com/vleky/trailer-access/mocks/port/usecase"
)

func newLockRouter(registry *usecasemocks.MockLockRegistry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewLockHandler(registry, coremocks.NewRelaxedLogger())
	router.POST("/api/trailers/:id/lock", h.Assign)
	router.GET("/api/trailers/:id/lock", h.Get)
	router.DELETE("/api/trailers/:id/lock", h.Remove)
	return router
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestLockHandler_Assign(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("returns the saved lock", func(t *testing.T) {
		registry := new(usecasemocks.MockLockRegistry)
		registry.On("Assign", mock.Anything, mock.MatchedBy(func(req usecase.AssignLockRequest) bool {
			return req.TrailerID == 7 && req.DeviceID == "IGK3-100" && req.Active && !req.Force
		})).Return(&usecase.AssignLockResult{
			Lock: &entity.Lock{
				ID:        1,
				TrailerID: 7,
				Provider:  "igloohome",
				DeviceID:  "IGK3-100",
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			},
		}, nil)

		router := newLockRouter(registry)
		recorder := performJSON(t, router, http.MethodPost, "/api/trailers/7/lock", gin.H{
			"device_id": "IGK3-100",
		})

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp dto.AssignLockResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.Equal(t, "IGK3-100", resp.Lock.DeviceID)
		assert.False(t, resp.Moved)
	})

	t.Run("renders the conflict body", func(t *testing.T) {
		registry := new(usecasemocks.MockLockRegistry)
		registry.On("Assign", mock.Anything, mock.Anything).
			Return(nil, errs.NewLockConflictError("igloohome", "IGK3-100", 9, "Blue flatbed"))

		router := newLockRouter(registry)
		recorder := performJSON(t, router, http.MethodPost, "/api/trailers/7/lock", gin.H{
			"device_id": "IGK3-100",
		})

		assert.Equal(t, http.StatusConflict, recorder.Code)

		var resp dto.LockConflictResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, "LOCK_ALREADY_ASSIGNED", resp.Error)
		assert.Equal(t, "igloohome", resp.Provider)
		assert.Equal(t, "IGK3-100", resp.DeviceID)
		assert.Equal(t, uint64(9), resp.CurrentTrailer.ID)
		assert.Equal(t, "Blue flatbed", resp.CurrentTrailer.Name)
	})

	t.Run("rejects a missing device id", func(t *testing.T) {
		registry := new(usecasemocks.MockLockRegistry)
		router := newLockRouter(registry)

		recorder := performJSON(t, router, http.MethodPost, "/api/trailers/7/lock", gin.H{})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		registry.AssertNotCalled(t, "Assign", mock.Anything, mock.Anything)
	})

	t.Run("rejects a malformed trailer id", func(t *testing.T) {
		registry := new(usecasemocks.MockLockRegistry)
		router := newLockRouter(registry)

		recorder := performJSON(t, router, http.MethodPost, "/api/trailers/abc/lock", gin.H{
			"device_id": "IGK3-100",
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("maps unknown trailers to 404", func(t *testing.T) {
		registry := new(usecasemocks.MockLockRegistry)
		registry.On("Assign", mock.Anything, mock.Anything).Return(nil, errs.ErrTrailerNotFound)

		router := newLockRouter(registry)
		recorder := performJSON(t, router, http.MethodPost, "/api/trailers/7/lock", gin.H{
			"device_id": "IGK3-100",
		})

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestLockHandler_Get(t *testing.T) {
	t.Run("returns the lock", func(t *testing.T) {
		registry := new(usecasemocks.MockLockRegistry)
		registry.On("Get", mock.Anything, uint64(7)).Return(&entity.Lock{
			ID:        1,
			TrailerID: 7,
			DeviceID:  "IGK3-100",
		}, nil)

		router := newLockRouter(registry)
		recorder := performJSON(t, router, http.MethodGet, "/api/trailers/7/lock", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"IGK3-100"`)
	})

	t.Run("404 when unbound", func(t *testing.T) {
		registry := new(usecasemocks.MockLockRegistry)
		registry.On("Get", mock.Anything, uint64(7)).Return(nil, errs.ErrLockNotFound)

		router := newLockRouter(registry)
		recorder := performJSON(t, router, http.MethodGet, "/api/trailers/7/lock", nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestLockHandler_Remove(t *testing.T) {
	registry := new(usecasemocks.MockLockRegistry)
	registry.On("Remove", mock.Anything, uint64(7)).Return(int64(1), nil)

	router := newLockRouter(registry)
	recorder := performJSON(t, router, http.MethodDelete, "/api/trailers/7/lock", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp dto.DeleteLockResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, int64(1), resp.Deleted)
}
