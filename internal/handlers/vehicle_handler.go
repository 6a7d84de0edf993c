package handlers

import (
	"fmt"
	"net/http"

	"inventory-service/internal/apperrors"
	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// VehicleHandler registro de vehículos de la flota de reparto.
type VehicleHandler struct {
	vehicles  repository.VehicleRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVehicleHandler crea una nueva instancia del handler
func NewVehicleHandler(vehicles repository.VehicleRepository, users repository.UserRepository, logger *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicles:  vehicles,
		users:     users,
		validator: validator.New(),
		logger:    logger,
	}
}

// CreateVehicle POST /api/v1/vehicles
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	if err := requireRole(c, h.users, models.RoleAdmin, models.RoleManager); err != nil {
		respondError(c, err)
		return
	}

	var input models.VehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	vehicle := &models.Vehicle{
		ID:       models.NewID(models.PrefixVehicle),
		Name:     input.Name,
		Plate:    input.Plate,
		BranchID: input.BranchID,
	}

	if err := h.vehicles.Create(c.Request.Context(), vehicle); err != nil {
		respondError(c, apperrors.Internal(err, "failed to create vehicle"))
		return
	}

	respondOK(c, http.StatusCreated, "Vehículo creado", vehicle)
}

// UpdateVehicle PUT /api/v1/vehicles/:id
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	if err := requireRole(c, h.users, models.RoleAdmin, models.RoleManager); err != nil {
		respondError(c, err)
		return
	}

	var input models.VehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	vehicle, err := h.vehicles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Internal(err, "failed to look up vehicle"))
		return
	}
	if vehicle == nil {
		respondError(c, apperrors.NotFound(fmt.Sprintf("vehicle %s not found", c.Param("id"))))
		return
	}

	vehicle.Name = input.Name
	vehicle.Plate = input.Plate
	vehicle.BranchID = input.BranchID

	if err := h.vehicles.Update(c.Request.Context(), vehicle); err != nil {
		respondError(c, apperrors.Internal(err, "failed to update vehicle"))
		return
	}

	respondOK(c, http.StatusOK, "Vehículo actualizado", vehicle)
}

// DeleteVehicle DELETE /api/v1/vehicles/:id
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	if err := requireRole(c, h.users, models.RoleAdmin); err != nil {
		respondError(c, err)
		return
	}

	if err := h.vehicles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, apperrors.Internal(err, "failed to delete vehicle"))
		return
	}

	respondOK(c, http.StatusOK, "Vehículo eliminado", nil)
}

// ListVehicles GET /api/v1/vehicles
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicles.List(c.Request.Context())
	if err != nil {
		respondError(c, apperrors.Internal(err, "failed to list vehicles"))
		return
	}
	if vehicles == nil {
		vehicles = []*models.Vehicle{}
	}

	respondOK(c, http.StatusOK, "Vehículos", vehicles)
}
