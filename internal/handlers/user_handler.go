package handlers

import (
	"net/http"

	"inventory-service/internal/models"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// UserHandler maneja las peticiones HTTP de usuarios y login
type UserHandler struct {
	userService services.UserService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewUserHandler crea una nueva instancia del handler
func NewUserHandler(userService services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Login POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.userService.Login(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Login exitoso", result)
}

// CreateUser POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input models.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Error("❌ Error binding JSON", zap.Error(err))
		respondBadRequest(c, err)
		return
	}
	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), actorID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Usuario creado", user)
}

// UpdateUser PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var input models.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.validator.Struct(input); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), actorID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Usuario actualizado", user)
}

// DeleteUser DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Usuario eliminado", nil)
}

// GetUser GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Usuario encontrado", user)
}

// ListUsers GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	respondOK(c, http.StatusOK, "Usuarios", users)
}
