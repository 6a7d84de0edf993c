package services

import (
	"context"
	"fmt"
	"time"

	"inventory-service/internal/apperrors"
	"inventory-service/internal/auth"
	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"go.uber.org/zap"
)

// LoginResult token emitido más el usuario autenticado.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService autenticación y administración de usuarios.
type UserService interface {
	Login(ctx context.Context, input *models.LoginInput) (*LoginResult, error)
	CreateUser(ctx context.Context, actorID string, input *models.CreateUserInput) (*models.User, error)
	UpdateUser(ctx context.Context, userID, actorID string, input *models.UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, userID, actorID string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type userService struct {
	users      repository.UserRepository
	branches   repository.BranchRepository
	logger     *zap.Logger
	jwtSecret  string
	jwtExpiry  time.Duration
	bcryptCost int
}

// NewUserService crea una nueva instancia del servicio
func NewUserService(
	users repository.UserRepository,
	branches repository.BranchRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
	bcryptCost int,
	logger *zap.Logger,
) UserService {
	return &userService{
		users:      users,
		branches:   branches,
		logger:     logger,
		jwtSecret:  jwtSecret,
		jwtExpiry:  jwtExpiry,
		bcryptCost: bcryptCost,
	}
}

// Login valida las credenciales (nombre case-insensitive) y emite un
// token. Nombre desconocido y contraseña mala responden igual.
func (s *userService) Login(ctx context.Context, input *models.LoginInput) (*LoginResult, error) {
	user, err := s.users.GetUserByName(ctx, input.Name)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to look up user")
	}
	if user == nil || !auth.VerifyPassword(input.Password, user.PasswordHash) {
		s.logger.Warn("Login fallido", zap.String("name", input.Name))
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := auth.IssueToken(s.jwtSecret, user.ID, user.Role, s.jwtExpiry)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to issue token")
	}

	s.logger.Info("✅ Login exitoso",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role))

	return &LoginResult{Token: token, User: user}, nil
}

// CreateUser crea un usuario (solo admin). El nombre es único
// case-insensitive; la sucursal, si viene, debe existir.
func (s *userService) CreateUser(ctx context.Context, actorID string, input *models.CreateUserInput) (*models.User, error) {
	actor, err := s.getActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !auth.HasRole(actor, models.RoleAdmin) {
		return nil, apperrors.Forbidden("only admin can create users")
	}

	if input.BranchID != nil {
		branch, err := s.branches.GetBranchByID(ctx, *input.BranchID)
		if err != nil {
			return nil, apperrors.Internal(err, "failed to look up branch")
		}
		if branch == nil {
			return nil, apperrors.NotFound(fmt.Sprintf("branch %s not found", *input.BranchID))
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		ID:           models.NewID(models.PrefixUser),
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: hash,
		BranchID:     input.BranchID,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict(fmt.Sprintf("user name %q already exists", input.Name))
		}
		return nil, apperrors.Internal(err, "failed to create user")
	}

	s.logger.Info("✅ Usuario creado",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role),
		zap.String("created_by", actor.ID))

	return user, nil
}

// UpdateUser aplica solo los campos dentro del permiso de edición del
// actor: admin/manager editan todo, el resto su propio nombre y clave.
func (s *userService) UpdateUser(ctx context.Context, userID, actorID string, input *models.UpdateUserInput) (*models.User, error) {
	actor, err := s.getActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to look up user")
	}
	if user == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("user %s not found", userID))
	}

	scope := auth.ScopeFor(actor, user)
	if scope == (auth.EditScope{}) {
		return nil, apperrors.Forbidden("actor cannot edit this user")
	}

	if input.Name != nil {
		if !scope.Name {
			return nil, apperrors.Forbidden("actor cannot change the user name")
		}
		user.Name = *input.Name
	}
	if input.Role != nil {
		if !scope.Role {
			return nil, apperrors.Forbidden("actor cannot change the user role")
		}
		user.Role = *input.Role
	}
	if input.Password != nil {
		if !scope.Password {
			return nil, apperrors.Forbidden("actor cannot change the password")
		}
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.Internal(err, "failed to hash password")
		}
		user.PasswordHash = hash
	}
	if input.BranchID != nil {
		if !scope.Branch {
			return nil, apperrors.Forbidden("actor cannot change the branch")
		}
		branch, err := s.branches.GetBranchByID(ctx, *input.BranchID)
		if err != nil {
			return nil, apperrors.Internal(err, "failed to look up branch")
		}
		if branch == nil {
			return nil, apperrors.NotFound(fmt.Sprintf("branch %s not found", *input.BranchID))
		}
		user.BranchID = input.BranchID
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict(fmt.Sprintf("user name %q already exists", user.Name))
		}
		return nil, apperrors.Internal(err, "failed to update user")
	}

	s.logger.Info("Usuario actualizado",
		zap.String("user_id", user.ID),
		zap.String("updated_by", actor.ID))

	return user, nil
}

// DeleteUser elimina un usuario (solo admin). Un admin no puede
// eliminarse a sí mismo.
func (s *userService) DeleteUser(ctx context.Context, userID, actorID string) error {
	actor, err := s.getActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !auth.HasRole(actor, models.RoleAdmin) {
		return apperrors.Forbidden("only admin can delete users")
	}
	if actor.ID == userID {
		return apperrors.Forbidden("admin cannot delete itself")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return apperrors.Internal(err, "failed to look up user")
	}
	if user == nil {
		return apperrors.NotFound(fmt.Sprintf("user %s not found", userID))
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return apperrors.Internal(err, "failed to delete user")
	}

	s.logger.Info("Usuario eliminado",
		zap.String("user_id", userID),
		zap.String("deleted_by", actor.ID))
	return nil
}

// GetUser obtiene un usuario por id
func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to get user")
	}
	if user == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("user %s not found", userID))
	}
	return user, nil
}

// ListUsers lista todos los usuarios
func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list users")
	}
	return users, nil
}

func (s *userService) getActor(ctx context.Context, actorID string) (*models.User, error) {
	if actorID == "" {
		return nil, apperrors.Unauthorized("missing acting user")
	}
	actor, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to look up acting user")
	}
	if actor == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("user %s not found", actorID))
	}
	return actor, nil
}
