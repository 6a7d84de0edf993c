package handlers

import (
	"net/http"

	"inventory-service/internal/models"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// CatalogHandler maneja las peticiones HTTP de sucursales y artículos
type CatalogHandler struct {
	catalogService services.CatalogService
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewCatalogHandler crea una nueva instancia del handler
func NewCatalogHandler(catalogService services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		validator:      validator.New(),
		logger:         logger,
	}
}

// CreateBranch POST /api/v1/branches
func (h *CatalogHandler) CreateBranch(c *gin.Context) {
	var input models.BranchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	branch, err := h.catalogService.CreateBranch(c.Request.Context(), actorID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Sucursal creada", branch)
}

// UpdateBranch PUT /api/v1/branches/:id
func (h *CatalogHandler) UpdateBranch(c *gin.Context) {
	var input models.BranchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	branch, err := h.catalogService.UpdateBranch(c.Request.Context(), c.Param("id"), actorID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Sucursal actualizada", branch)
}

// DeleteBranch DELETE /api/v1/branches/:id
func (h *CatalogHandler) DeleteBranch(c *gin.Context) {
	if err := h.catalogService.DeleteBranch(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Sucursal eliminada", nil)
}

// GetBranch GET /api/v1/branches/:id
func (h *CatalogHandler) GetBranch(c *gin.Context) {
	branch, err := h.catalogService.GetBranch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Sucursal encontrada", branch)
}

// ListBranches GET /api/v1/branches
func (h *CatalogHandler) ListBranches(c *gin.Context) {
	branches, err := h.catalogService.ListBranches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if branches == nil {
		branches = []*models.Branch{}
	}

	respondOK(c, http.StatusOK, "Sucursales", branches)
}

// CreateItem POST /api/v1/items
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var input models.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Error("❌ Error binding JSON", zap.Error(err))
		respondBadRequest(c, err)
		return
	}
	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), actorID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Artículo creado", item)
}

// UpdateItem PUT /api/v1/branches/:id/items/:itemId
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	var input models.UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), c.Param("itemId"), c.Param("id"), actorID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Artículo actualizado", item)
}

// DeleteItem DELETE /api/v1/branches/:id/items/:itemId
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	if err := h.catalogService.DeleteItem(c.Request.Context(), c.Param("itemId"), c.Param("id"), actorID(c)); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Artículo eliminado", nil)
}
