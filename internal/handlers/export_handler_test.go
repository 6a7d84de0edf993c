package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubExportService struct{ calls int }

func (s *stubExportService) Snapshot(_ context.Context) (*models.Snapshot, error) {
	s.calls++
	return &models.Snapshot{
		Branches:  []*models.Branch{},
		Users:     []*models.User{},
		Items:     []*models.Item{},
		Movements: []*models.Movement{},
		Requests:  []*models.Request{},
		Budgets:   []*models.Budget{},
		Vehicles:  []*models.Vehicle{},
	}, nil
}

func newExportRouter(secret string) (*gin.Engine, *stubExportService) {
	gin.SetMode(gin.TestMode)
	stub := &stubExportService{}
	handler := NewExportHandler(stub, secret, zap.NewNop())

	router := gin.New()
	router.GET("/api/v1/export", handler.Export)
	return router, stub
}

func TestExportRequiresSecret(t *testing.T) {
	router, stub := newExportRouter("backup-key")

	t.Run("secreto correcto entrega el snapshot", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/export?secret=backup-key", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, stub.calls)
		assert.Contains(t, w.Body.String(), `"branches":[]`)
	})

	t.Run("secreto incorrecto es unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/export?secret=wrong", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("sin secreto es unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/export", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestExportDisabledWithoutSecret(t *testing.T) {
	router, stub := newExportRouter("")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/export?secret=anything", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, stub.calls)
}
