package handlers

import (
	"net/http"

	"inventory-service/internal/models"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// RequestHandler maneja las peticiones HTTP del flujo de solicitudes
type RequestHandler struct {
	requestService services.RequestService
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewRequestHandler crea una nueva instancia del handler
func NewRequestHandler(requestService services.RequestService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		validator:      validator.New(),
		logger:         logger,
	}
}

// CreateRequest POST /api/v1/requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var input models.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Error("❌ Error binding JSON", zap.Error(err))
		respondBadRequest(c, err)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), actorID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Solicitud creada", request)
}

// AssignDriver PUT /api/v1/requests/:id/assign
func (h *RequestHandler) AssignDriver(c *gin.Context) {
	var input models.AssignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	request, err := h.requestService.AssignDriver(c.Request.Context(), c.Param("id"), actorID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Conductor asignado", request)
}

// ClaimRequest PUT /api/v1/requests/:id/claim
// El body es opcional: puede traer una ETA inicial.
func (h *RequestHandler) ClaimRequest(c *gin.Context) {
	var input models.ClaimInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBadRequest(c, err)
			return
		}
	}

	request, err := h.requestService.ClaimRequest(c.Request.Context(), c.Param("id"), actorID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Solicitud tomada", request)
}

// UpdateEta PUT /api/v1/requests/:id/eta
func (h *RequestHandler) UpdateEta(c *gin.Context) {
	var input models.EtaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	request, err := h.requestService.UpdateEta(c.Request.Context(), c.Param("id"), actorID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "ETA actualizada", request)
}

// ConfirmDelivery PUT /api/v1/requests/:id/confirm
func (h *RequestHandler) ConfirmDelivery(c *gin.Context) {
	result, err := h.requestService.ConfirmDelivery(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Entrega confirmada", result)
}

// DeleteRequest DELETE /api/v1/requests/:id
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	if err := h.requestService.DeleteRequest(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Solicitud eliminada", nil)
}

// ListPending GET /api/v1/requests/pending
func (h *RequestHandler) ListPending(c *gin.Context) {
	requests, err := h.requestService.ListPending(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if requests == nil {
		requests = []*models.Request{}
	}

	respondOK(c, http.StatusOK, "Solicitudes pendientes", requests)
}

// ListBranchRequests GET /api/v1/requests?branch_id=X
func (h *RequestHandler) ListBranchRequests(c *gin.Context) {
	branchID := c.Query("branch_id")
	if branchID == "" {
		respondBadRequest(c, errMissingBranch)
		return
	}

	requests, err := h.requestService.ListBranchRequests(c.Request.Context(), actorID(c), branchID)
	if err != nil {
		respondError(c, err)
		return
	}
	if requests == nil {
		requests = []*models.Request{}
	}

	respondOK(c, http.StatusOK, "Solicitudes de la sucursal", requests)
}

// GetRequest GET /api/v1/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	request, err := h.requestService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Solicitud encontrada", request)
}
