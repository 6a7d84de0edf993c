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

// StockService consultas de stock y movimientos directos (ajustes
// manuales IN/OUT fuera del flujo de solicitudes).
type StockService interface {
	RegisterMovement(ctx context.Context, actorID string, input *models.MovementInput) (*models.Movement, *models.Item, error)
	GetStock(ctx context.Context, itemID, branchID string) (*models.Item, error)
	ListStockByBranch(ctx context.Context, branchID string) ([]*models.Item, error)
	ListLowStock(ctx context.Context, branchID string) ([]*models.Item, error)
	ListMovements(ctx context.Context, filter *models.MovementFilter) ([]*models.Movement, error)
}

type stockService struct {
	users     repository.UserRepository
	items     repository.ItemRepository
	movements repository.MovementRepository
	transfer  repository.TransferRunner
	cache     StockCache
	logger    *zap.Logger
}

// NewStockService crea una nueva instancia del servicio
func NewStockService(
	users repository.UserRepository,
	items repository.ItemRepository,
	movements repository.MovementRepository,
	transfer repository.TransferRunner,
	itemCache StockCache,
	logger *zap.Logger,
) StockService {
	return &stockService{
		users:     users,
		items:     items,
		movements: movements,
		transfer:  transfer,
		cache:     itemCache,
		logger:    logger,
	}
}

// RegisterMovement aplica un movimiento directo sobre un registro de
// stock existente. Una salida que exceda el stock disponible se rechaza
// completa; nunca se entrega parcial ni se deja la cantidad en negativo.
func (s *stockService) RegisterMovement(ctx context.Context, actorID string, input *models.MovementInput) (*models.Movement, *models.Item, error) {
	logger := s.logger.With(
		zap.String("operation", "register_movement"),
		zap.String("item_id", input.ItemID),
		zap.String("branch_id", input.BranchID),
		zap.String("type", input.Type),
		zap.Int("qty", input.Qty),
	)

	actor, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, nil, apperrors.Internal(err, "failed to look up acting user")
	}
	if actor == nil {
		return nil, nil, apperrors.NotFound(fmt.Sprintf("user %s not found", actorID))
	}
	if !auth.HasRole(actor, models.RoleAdmin, models.RoleManager) {
		return nil, nil, apperrors.Forbidden("only admin or manager can register direct movements")
	}

	if input.Type != models.MovementIn && input.Type != models.MovementOut {
		return nil, nil, apperrors.Validation("type must be IN or OUT", "type")
	}
	if input.Qty <= 0 {
		return nil, nil, apperrors.Validation("qty must be positive", "qty")
	}

	var movement *models.Movement
	var updated *models.Item

	err = s.transfer.RunTransfer(ctx, func(tx repository.TransferTx) error {
		item, err := tx.GetItemForUpdate(ctx, input.ItemID, input.BranchID)
		if err != nil {
			return apperrors.Internal(err, "failed to lock stock record")
		}
		if item == nil {
			return apperrors.NotFound(fmt.Sprintf("item %s not found in branch %s", input.ItemID, input.BranchID))
		}

		newQty := item.BaseQty
		switch input.Type {
		case models.MovementIn:
			newQty += input.Qty
		case models.MovementOut:
			if item.BaseQty < input.Qty {
				return apperrors.InsufficientStock(fmt.Sprintf(
					"insufficient stock for item %s: available %d, requested %d",
					input.ItemID, item.BaseQty, input.Qty))
			}
			newQty -= input.Qty
		}

		if err := tx.SetItemQty(ctx, item.ID, item.BranchID, newQty); err != nil {
			return apperrors.Internal(err, "failed to update stock")
		}

		movement = &models.Movement{
			ID:       models.NewID(models.PrefixMovement),
			ItemID:   input.ItemID,
			BranchID: input.BranchID,
			Type:     input.Type,
			Qty:      input.Qty,
			UserID:   actor.ID,
			Note:     input.Note,
		}
		if err := tx.AppendMovement(ctx, movement); err != nil {
			return apperrors.Internal(err, "failed to append movement")
		}

		item.BaseQty = newQty
		updated = item
		return nil
	})
	if err != nil {
		logger.Error("❌ Movimiento rechazado", zap.Error(err))
		return nil, nil, err
	}

	if err := s.cache.InvalidateItem(ctx, input.ItemID, input.BranchID); err != nil {
		logger.Warn("Error invalidando caché", zap.Error(err))
	}

	logger.Info("✅ Movimiento registrado",
		zap.String("movement_id", movement.ID),
		zap.Int("new_qty", updated.BaseQty))

	return movement, updated, nil
}

// GetStock consulta un registro de stock, con caché de lectura
func (s *stockService) GetStock(ctx context.Context, itemID, branchID string) (*models.Item, error) {
	if item := s.cache.GetItem(ctx, itemID, branchID); item != nil {
		return item, nil
	}

	item, err := s.items.GetItem(ctx, itemID, branchID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to get stock record")
	}
	if item == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("item %s not found in branch %s", itemID, branchID))
	}

	if err := s.cache.SetItem(ctx, item); err != nil {
		s.logger.Warn("Error guardando en caché", zap.Error(err))
	}

	return item, nil
}

// ListStockByBranch lista todos los registros de una sucursal
func (s *stockService) ListStockByBranch(ctx context.Context, branchID string) ([]*models.Item, error) {
	items, err := s.items.ListItemsByBranch(ctx, branchID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list stock")
	}
	return items, nil
}

// ListLowStock lista los artículos con base_qty <= min_qty
func (s *stockService) ListLowStock(ctx context.Context, branchID string) ([]*models.Item, error) {
	items, err := s.items.ListLowStock(ctx, branchID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list low stock")
	}
	return items, nil
}

// ListMovements lista el libro de movimientos según filtro
func (s *stockService) ListMovements(ctx context.Context, filter *models.MovementFilter) ([]*models.Movement, error) {
	movements, err := s.movements.ListMovements(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list movements")
	}
	return movements, nil
}
