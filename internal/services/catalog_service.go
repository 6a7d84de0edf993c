package services

import (
	"context"
	"fmt"

	"inventory-service/internal/apperrors"
	"inventory-service/internal/auth"
	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"go.uber.org/zap"
)

// CatalogService administración de sucursales y registros de stock.
type CatalogService interface {
	CreateBranch(ctx context.Context, actorID string, input *models.BranchInput) (*models.Branch, error)
	UpdateBranch(ctx context.Context, branchID, actorID string, input *models.BranchInput) (*models.Branch, error)
	DeleteBranch(ctx context.Context, branchID, actorID string) error
	GetBranch(ctx context.Context, branchID string) (*models.Branch, error)
	ListBranches(ctx context.Context) ([]*models.Branch, error)

	CreateItem(ctx context.Context, actorID string, input *models.ItemInput) (*models.Item, error)
	UpdateItem(ctx context.Context, itemID, branchID, actorID string, input *models.UpdateItemInput) (*models.Item, error)
	DeleteItem(ctx context.Context, itemID, branchID, actorID string) error
}

type catalogService struct {
	users       repository.UserRepository
	branches    repository.BranchRepository
	items       repository.ItemRepository
	cache       StockCache
	logger      *zap.Logger
	mainStorage string
}

// NewCatalogService crea una nueva instancia del servicio
func NewCatalogService(
	users repository.UserRepository,
	branches repository.BranchRepository,
	items repository.ItemRepository,
	itemCache StockCache,
	mainStorage string,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		users:       users,
		branches:    branches,
		items:       items,
		cache:       itemCache,
		logger:      logger,
		mainStorage: mainStorage,
	}
}

// CreateBranch crea una sucursal (solo admin)
func (s *catalogService) CreateBranch(ctx context.Context, actorID string, input *models.BranchInput) (*models.Branch, error) {
	if err := s.requireRole(ctx, actorID, models.RoleAdmin); err != nil {
		return nil, err
	}

	branch := &models.Branch{
		ID:   models.NewID(models.PrefixBranch),
		Name: input.Name,
	}

	if err := s.branches.CreateBranch(ctx, branch); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict(fmt.Sprintf("branch %q already exists", input.Name))
		}
		return nil, apperrors.Internal(err, "failed to create branch")
	}

	s.logger.Info("✅ Sucursal creada",
		zap.String("branch_id", branch.ID),
		zap.String("name", branch.Name))
	return branch, nil
}

// UpdateBranch renombra una sucursal (solo admin)
func (s *catalogService) UpdateBranch(ctx context.Context, branchID, actorID string, input *models.BranchInput) (*models.Branch, error) {
	if err := s.requireRole(ctx, actorID, models.RoleAdmin); err != nil {
		return nil, err
	}

	branch, err := s.branches.GetBranchByID(ctx, branchID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to look up branch")
	}
	if branch == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("branch %s not found", branchID))
	}

	branch.Name = input.Name
	if err := s.branches.UpdateBranch(ctx, branch); err != nil {
		return nil, apperrors.Internal(err, "failed to update branch")
	}
	return branch, nil
}

// DeleteBranch elimina una sucursal (solo admin). La bodega central no
// se puede eliminar mientras el servicio dependa de ella.
func (s *catalogService) DeleteBranch(ctx context.Context, branchID, actorID string) error {
	if err := s.requireRole(ctx, actorID, models.RoleAdmin); err != nil {
		return err
	}
	if branchID == s.mainStorage {
		return apperrors.Conflict("main storage branch cannot be deleted")
	}

	branch, err := s.branches.GetBranchByID(ctx, branchID)
	if err != nil {
		return apperrors.Internal(err, "failed to look up branch")
	}
	if branch == nil {
		return apperrors.NotFound(fmt.Sprintf("branch %s not found", branchID))
	}

	if err := s.branches.DeleteBranch(ctx, branchID); err != nil {
		return apperrors.Internal(err, "failed to delete branch")
	}

	s.logger.Info("Sucursal eliminada", zap.String("branch_id", branchID))
	return nil
}

// GetBranch obtiene una sucursal por id
func (s *catalogService) GetBranch(ctx context.Context, branchID string) (*models.Branch, error) {
	branch, err := s.branches.GetBranchByID(ctx, branchID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to get branch")
	}
	if branch == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("branch %s not found", branchID))
	}
	return branch, nil
}

// ListBranches lista todas las sucursales
func (s *catalogService) ListBranches(ctx context.Context) ([]*models.Branch, error) {
	branches, err := s.branches.ListBranches(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list branches")
	}
	return branches, nil
}

// CreateItem crea un registro de stock. La identidad (id, branch_id)
// permite que el mismo artículo exista en varias sucursales.
func (s *catalogService) CreateItem(ctx context.Context, actorID string, input *models.ItemInput) (*models.Item, error) {
	if err := s.requireRole(ctx, actorID, models.RoleAdmin, models.RoleManager); err != nil {
		return nil, err
	}

	branch, err := s.branches.GetBranchByID(ctx, input.BranchID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to look up branch")
	}
	if branch == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("branch %s not found", input.BranchID))
	}

	item := &models.Item{
		ID:       input.ID,
		BranchID: input.BranchID,
		NameEn:   input.NameEn,
		NameAr:   input.NameAr,
		MinQty:   input.MinQty,
		BaseQty:  input.BaseQty,
		UnitCost: input.UnitCost,
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict(fmt.Sprintf("item %s already exists in branch %s", input.ID, input.BranchID))
		}
		return nil, apperrors.Internal(err, "failed to create item")
	}

	s.logger.Info("✅ Artículo creado",
		zap.String("item_id", item.ID),
		zap.String("branch_id", item.BranchID),
		zap.Int("base_qty", item.BaseQty))
	return item, nil
}

// UpdateItem edita la metadata de un artículo. La cantidad base no se
// toca por acá: solo cambia vía movimientos o entregas.
func (s *catalogService) UpdateItem(ctx context.Context, itemID, branchID, actorID string, input *models.UpdateItemInput) (*models.Item, error) {
	if err := s.requireRole(ctx, actorID, models.RoleAdmin, models.RoleManager); err != nil {
		return nil, err
	}

	item, err := s.items.GetItem(ctx, itemID, branchID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to look up item")
	}
	if item == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("item %s not found in branch %s", itemID, branchID))
	}

	if input.NameEn != nil {
		item.NameEn = *input.NameEn
	}
	if input.NameAr != nil {
		item.NameAr = *input.NameAr
	}
	if input.MinQty != nil {
		item.MinQty = *input.MinQty
	}
	if input.UnitCost != nil {
		item.UnitCost = *input.UnitCost
	}

	if err := s.items.UpdateItemMeta(ctx, item); err != nil {
		return nil, apperrors.Internal(err, "failed to update item")
	}

	if err := s.cache.InvalidateItem(ctx, itemID, branchID); err != nil {
		s.logger.Warn("Error invalidando caché", zap.Error(err))
	}
	return item, nil
}

// DeleteItem elimina un registro de stock (solo admin)
func (s *catalogService) DeleteItem(ctx context.Context, itemID, branchID, actorID string) error {
	if err := s.requireRole(ctx, actorID, models.RoleAdmin); err != nil {
		return err
	}

	item, err := s.items.GetItem(ctx, itemID, branchID)
	if err != nil {
		return apperrors.Internal(err, "failed to look up item")
	}
	if item == nil {
		return apperrors.NotFound(fmt.Sprintf("item %s not found in branch %s", itemID, branchID))
	}

	if err := s.items.DeleteItem(ctx, itemID, branchID); err != nil {
		return apperrors.Internal(err, "failed to delete item")
	}

	if err := s.cache.InvalidateItem(ctx, itemID, branchID); err != nil {
		s.logger.Warn("Error invalidando caché", zap.Error(err))
	}

	s.logger.Info("Artículo eliminado",
		zap.String("item_id", itemID),
		zap.String("branch_id", branchID))
	return nil
}

// requireRole resuelve el actor y valida su rol
func (s *catalogService) requireRole(ctx context.Context, actorID string, roles ...string) error {
	if actorID == "" {
		return apperrors.Unauthorized("missing acting user")
	}
	actor, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return apperrors.Internal(err, "failed to look up acting user")
	}
	if actor == nil {
		return apperrors.NotFound(fmt.Sprintf("user %s not found", actorID))
	}
	if !auth.HasRole(actor, roles...) {
		return apperrors.Forbidden(fmt.Sprintf("role %s cannot perform this operation", actor.Role))
	}
	return nil
}
