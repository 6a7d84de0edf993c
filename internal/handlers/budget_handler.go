package handlers

import (
	"fmt"
	"net/http"

	"inventory-service/internal/apperrors"
	"inventory-service/internal/auth"
	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// BudgetHandler presupuestos mensuales por sucursal. Registro auxiliar
// sin lógica de dominio: el handler habla directo con el repository.
type BudgetHandler struct {
	budgets   repository.BudgetRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBudgetHandler crea una nueva instancia del handler
func NewBudgetHandler(budgets repository.BudgetRepository, users repository.UserRepository, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{
		budgets:   budgets,
		users:     users,
		validator: validator.New(),
		logger:    logger,
	}
}

// CreateBudget POST /api/v1/budgets
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	if err := requireRole(c, h.users, models.RoleAdmin, models.RoleManager); err != nil {
		respondError(c, err)
		return
	}

	var input models.BudgetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	budget := &models.Budget{
		ID:       models.NewID(models.PrefixBudget),
		BranchID: input.BranchID,
		Month:    input.Month,
		Planned:  input.Planned,
	}

	if err := h.budgets.Create(c.Request.Context(), budget); err != nil {
		respondError(c, apperrors.Internal(err, "failed to create budget"))
		return
	}

	respondOK(c, http.StatusCreated, "Presupuesto creado", budget)
}

// UpdateBudget PUT /api/v1/budgets/:id
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	if err := requireRole(c, h.users, models.RoleAdmin, models.RoleManager); err != nil {
		respondError(c, err)
		return
	}

	var input models.BudgetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	budget, err := h.budgets.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Internal(err, "failed to look up budget"))
		return
	}
	if budget == nil {
		respondError(c, apperrors.NotFound(fmt.Sprintf("budget %s not found", c.Param("id"))))
		return
	}

	budget.BranchID = input.BranchID
	budget.Month = input.Month
	budget.Planned = input.Planned

	if err := h.budgets.Update(c.Request.Context(), budget); err != nil {
		respondError(c, apperrors.Internal(err, "failed to update budget"))
		return
	}

	respondOK(c, http.StatusOK, "Presupuesto actualizado", budget)
}

// DeleteBudget DELETE /api/v1/budgets/:id
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	if err := requireRole(c, h.users, models.RoleAdmin, models.RoleManager); err != nil {
		respondError(c, err)
		return
	}

	if err := h.budgets.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, apperrors.Internal(err, "failed to delete budget"))
		return
	}

	respondOK(c, http.StatusOK, "Presupuesto eliminado", nil)
}

// ListBudgets GET /api/v1/budgets
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	budgets, err := h.budgets.List(c.Request.Context())
	if err != nil {
		respondError(c, apperrors.Internal(err, "failed to list budgets"))
		return
	}
	if budgets == nil {
		budgets = []*models.Budget{}
	}

	respondOK(c, http.StatusOK, "Presupuestos", budgets)
}

// requireRole resuelve el actor desde la cabecera y valida su rol.
// Compartido por los handlers que no pasan por un service.
func requireRole(c *gin.Context, users repository.UserRepository, roles ...string) error {
	id := actorID(c)
	if id == "" {
		return apperrors.Unauthorized("missing acting user")
	}
	actor, err := users.GetUserByID(c.Request.Context(), id)
	if err != nil {
		return apperrors.Internal(err, "failed to look up acting user")
	}
	if actor == nil {
		return apperrors.NotFound(fmt.Sprintf("user %s not found", id))
	}
	if !auth.HasRole(actor, roles...) {
		return apperrors.Forbidden(fmt.Sprintf("role %s cannot perform this operation", actor.Role))
	}
	return nil
}
