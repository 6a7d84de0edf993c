package handlers

import (
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// StockHandler maneja las peticiones HTTP de stock y movimientos
type StockHandler struct {
	stockService services.StockService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewStockHandler crea una nueva instancia del handler
func NewStockHandler(stockService services.StockService, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		stockService: stockService,
		validator:    validator.New(),
		logger:       logger,
	}
}

// RegisterMovement POST /api/v1/movements
func (h *StockHandler) RegisterMovement(c *gin.Context) {
	start := time.Now()

	var input models.MovementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Error("❌ Error binding JSON", zap.Error(err))
		respondBadRequest(c, err)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	movement, item, err := h.stockService.RegisterMovement(c.Request.Context(), actorID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Debug("🔍 [DEBUG] Movimiento procesado",
		zap.Duration("elapsed", time.Since(start)))

	respondOK(c, http.StatusCreated, "Movimiento registrado", gin.H{
		"movement": movement,
		"item":     item,
	})
}

// ListMovements GET /api/v1/movements
// Filtros opcionales: branch_id, item_id, type.
func (h *StockHandler) ListMovements(c *gin.Context) {
	filter := &models.MovementFilter{}
	if v := c.Query("branch_id"); v != "" {
		filter.BranchID = &v
	}
	if v := c.Query("item_id"); v != "" {
		filter.ItemID = &v
	}
	if v := c.Query("type"); v != "" {
		filter.Type = &v
	}
	if v := c.Query("from"); v != "" {
		if from, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DateFrom = &from
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DateTo = &to
		}
	}
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			filter.Offset = offset
		}
	}

	movements, err := h.stockService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if movements == nil {
		movements = []*models.Movement{}
	}

	respondOK(c, http.StatusOK, "Movimientos", movements)
}

// GetStock GET /api/v1/branches/:id/items/:itemId
func (h *StockHandler) GetStock(c *gin.Context) {
	item, err := h.stockService.GetStock(c.Request.Context(), c.Param("itemId"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Stock", item)
}

// ListBranchStock GET /api/v1/branches/:id/items
func (h *StockHandler) ListBranchStock(c *gin.Context) {
	items, err := h.stockService.ListStockByBranch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}

	respondOK(c, http.StatusOK, "Stock de la sucursal", items)
}

// ListLowStock GET /api/v1/branches/:id/items/low
func (h *StockHandler) ListLowStock(c *gin.Context) {
	items, err := h.stockService.ListLowStock(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}

	respondOK(c, http.StatusOK, "Artículos bajo mínimo", items)
}
