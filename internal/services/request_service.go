package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-service/internal/apperrors"
	"inventory-service/internal/auth"
	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"go.uber.org/zap"
)

// StockCache caché de lectura de registros de stock. Lo implementa
// cache.ItemCache; los tests usan un fake.
type StockCache interface {
	GetItem(ctx context.Context, itemID, branchID string) *models.Item
	SetItem(ctx context.Context, item *models.Item) error
	InvalidateItem(ctx context.Context, itemID, branchID string) error
}

// RequestService define la máquina de estados de las solicitudes de
// traspaso: pending → assigned → delivered, con los roles de cada paso.
type RequestService interface {
	CreateRequest(ctx context.Context, actorID string, input *models.CreateRequestInput) (*models.Request, error)
	AssignDriver(ctx context.Context, requestID, actorID string, input *models.AssignInput) (*models.Request, error)
	ClaimRequest(ctx context.Context, requestID, driverID string, input *models.ClaimInput) (*models.Request, error)
	UpdateEta(ctx context.Context, requestID, actorID string, input *models.EtaInput) (*models.Request, error)
	ConfirmDelivery(ctx context.Context, requestID, actorID string) (*models.DeliveryResult, error)
	DeleteRequest(ctx context.Context, requestID, actorID string) error
	ListPending(ctx context.Context, actorID string) ([]*models.Request, error)
	ListBranchRequests(ctx context.Context, actorID, branchID string) ([]*models.Request, error)
	GetRequest(ctx context.Context, requestID string) (*models.Request, error)
}

type requestService struct {
	users       repository.UserRepository
	items       repository.ItemRepository
	requests    repository.RequestRepository
	transfer    repository.TransferRunner
	cache       StockCache
	logger      *zap.Logger
	mainStorage string
}

// NewRequestService crea una nueva instancia del servicio
func NewRequestService(
	users repository.UserRepository,
	items repository.ItemRepository,
	requests repository.RequestRepository,
	transfer repository.TransferRunner,
	cache StockCache,
	mainStorage string,
	logger *zap.Logger,
) RequestService {
	return &requestService{
		users:       users,
		items:       items,
		requests:    requests,
		transfer:    transfer,
		cache:       cache,
		logger:      logger,
		mainStorage: mainStorage,
	}
}

// CreateRequest crea una solicitud de traspaso desde la bodega central
// hacia la sucursal del creador. Los conductores no crean solicitudes.
func (s *requestService) CreateRequest(ctx context.Context, actorID string, input *models.CreateRequestInput) (*models.Request, error) {
	logger := s.logger.With(
		zap.String("operation", "create_request"),
		zap.String("item_id", input.ItemID),
		zap.Int("qty", input.Qty),
		zap.String("actor_id", actorID),
	)

	actor, err := s.getActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if auth.HasRole(actor, models.RoleDriver) {
		logger.Warn("Conductor intentó crear una solicitud")
		return nil, apperrors.Forbidden("drivers cannot create transfer requests")
	}
	if actor.BranchID == nil {
		return nil, apperrors.Forbidden("creator has no branch assigned")
	}
	if input.Qty <= 0 {
		return nil, apperrors.Validation("qty must be positive", "qty")
	}

	// El artículo debe existir en la bodega central
	item, err := s.items.GetItem(ctx, input.ItemID, s.mainStorage)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to look up item")
	}
	if item == nil {
		logger.Warn("Artículo inexistente en bodega central")
		return nil, apperrors.NotFound(fmt.Sprintf("item %s not found in main storage", input.ItemID))
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}

	request := &models.Request{
		ID:           models.NewID(models.PrefixRequest),
		ItemID:       input.ItemID,
		Qty:          input.Qty,
		FromBranchID: s.mainStorage,
		ToBranchID:   *actor.BranchID,
		CreatedBy:    actor.ID,
		Note:         input.Note,
		Priority:     priority,
		UrgentNote:   input.UrgentNote,
		Image:        input.Image,
		Status:       models.RequestPending,
	}

	if err := s.requests.CreateRequest(ctx, request); err != nil {
		logger.Error("Error creando solicitud", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to create request")
	}

	logger.Info("✅ Solicitud creada",
		zap.String("request_id", request.ID),
		zap.String("to_branch", request.ToBranchID),
		zap.String("priority", request.Priority))

	return request, nil
}

// AssignDriver asigna un conductor (admin/manager). Reasignar una
// solicitud ya asignada sobreescribe la asignación anterior.
func (s *requestService) AssignDriver(ctx context.Context, requestID, actorID string, input *models.AssignInput) (*models.Request, error) {
	logger := s.logger.With(
		zap.String("operation", "assign_driver"),
		zap.String("request_id", requestID),
		zap.String("driver_id", input.DriverID),
	)

	actor, err := s.getActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !auth.HasRole(actor, models.RoleAdmin, models.RoleManager) {
		return nil, apperrors.Forbidden("only admin or manager can assign drivers")
	}

	driver, err := s.users.GetUserByID(ctx, input.DriverID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to look up driver")
	}
	if driver == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("driver %s not found", input.DriverID))
	}
	if driver.Role != models.RoleDriver {
		return nil, apperrors.Validation("assignee is not a driver", "driver_id")
	}

	request, err := s.getOpenRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request.Status = models.RequestAssigned
	request.DriverID = &driver.ID
	request.AssignedBy = &actor.ID
	request.AssignedAt = &now
	applyEta(request, input.Eta, input.EtaLabel)

	if err := s.requests.UpdateRequest(ctx, request); err != nil {
		logger.Error("Error asignando conductor", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to assign driver")
	}

	logger.Info("✅ Conductor asignado", zap.String("assigned_by", actor.ID))
	return request, nil
}

// ClaimRequest variante self-service: un conductor toma una solicitud
// sin asignar, o re-toma una ya asignada a él mismo (idempotente).
// Tomar la solicitud de otro conductor es forbidden.
func (s *requestService) ClaimRequest(ctx context.Context, requestID, driverID string, input *models.ClaimInput) (*models.Request, error) {
	logger := s.logger.With(
		zap.String("operation", "claim_request"),
		zap.String("request_id", requestID),
		zap.String("driver_id", driverID),
	)

	driver, err := s.getActor(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver.Role != models.RoleDriver {
		return nil, apperrors.Forbidden("only drivers can claim requests")
	}

	request, err := s.getOpenRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.DriverID != nil && *request.DriverID != driver.ID {
		logger.Warn("Conductor intentó tomar una solicitud ajena",
			zap.String("assigned_driver", *request.DriverID))
		return nil, apperrors.Forbidden("request is assigned to another driver")
	}

	if request.DriverID == nil {
		now := time.Now()
		request.Status = models.RequestAssigned
		request.DriverID = &driver.ID
		request.AssignedBy = &driver.ID
		request.AssignedAt = &now
	}
	// Re-claim del mismo conductor: solo refresca la ETA si viene
	if input != nil {
		applyEta(request, input.Eta, input.EtaLabel)
	}

	if err := s.requests.UpdateRequest(ctx, request); err != nil {
		logger.Error("Error tomando solicitud", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to claim request")
	}

	logger.Info("✅ Solicitud tomada por conductor")
	return request, nil
}

// UpdateEta actualiza la ETA. Admin/manager siempre pueden; un
// conductor solo sobre su propia solicitud, o toma una sin asignar
// como efecto secundario de ponerle ETA.
func (s *requestService) UpdateEta(ctx context.Context, requestID, actorID string, input *models.EtaInput) (*models.Request, error) {
	logger := s.logger.With(
		zap.String("operation", "update_eta"),
		zap.String("request_id", requestID),
	)

	actor, err := s.getActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	request, err := s.getOpenRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	switch {
	case auth.HasRole(actor, models.RoleAdmin, models.RoleManager):
		// siempre permitido
	case actor.Role == models.RoleDriver:
		if request.DriverID == nil {
			// Auto-asignación: poner ETA a una solicitud libre la toma
			now := time.Now()
			request.Status = models.RequestAssigned
			request.DriverID = &actor.ID
			request.AssignedBy = &actor.ID
			request.AssignedAt = &now
		} else if *request.DriverID != actor.ID {
			return nil, apperrors.Forbidden("request is assigned to another driver")
		}
	default:
		return nil, apperrors.Forbidden("role cannot update delivery ETA")
	}

	applyEta(request, &input.Eta, input.EtaLabel)

	if err := s.requests.UpdateRequest(ctx, request); err != nil {
		logger.Error("Error actualizando ETA", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to update eta")
	}

	logger.Info("✅ ETA actualizada", zap.Time("eta", input.Eta))
	return request, nil
}

// ConfirmDelivery confirma la entrega: descuenta stock en origen,
// crea o incrementa el registro en destino y agrega el par de
// movimientos OUT/IN, todo dentro de una sola transacción.
func (s *requestService) ConfirmDelivery(ctx context.Context, requestID, actorID string) (*models.DeliveryResult, error) {
	logger := s.logger.With(
		zap.String("operation", "confirm_delivery"),
		zap.String("request_id", requestID),
		zap.String("actor_id", actorID),
	)

	actor, err := s.getActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	request, err := s.getOpenRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// Staff y supervisor confirman solo en su propia sucursal destino
	switch {
	case auth.HasRole(actor, models.RoleAdmin, models.RoleManager):
	case auth.HasRole(actor, models.RoleStaff, models.RoleSupervisor):
		if actor.BranchID == nil || *actor.BranchID != request.ToBranchID {
			return nil, apperrors.Forbidden("actor does not belong to the destination branch")
		}
	default:
		return nil, apperrors.Forbidden("role cannot confirm deliveries")
	}

	now := time.Now()
	result := &models.DeliveryResult{Request: request}

	err = s.transfer.RunTransfer(ctx, func(tx repository.TransferTx) error {
		// Siempre se bloquea primero el origen (bodega central) y
		// después el destino, para que dos entregas no se crucen.
		source, err := tx.GetItemForUpdate(ctx, request.ItemID, request.FromBranchID)
		if err != nil {
			return apperrors.Internal(err, "failed to lock source stock")
		}
		if source == nil {
			return apperrors.NotFound(fmt.Sprintf("item %s not found in branch %s", request.ItemID, request.FromBranchID))
		}
		if source.BaseQty < request.Qty {
			return apperrors.InsufficientStock(fmt.Sprintf(
				"insufficient stock for item %s: available %d, requested %d",
				request.ItemID, source.BaseQty, request.Qty))
		}

		if err := tx.SetItemQty(ctx, source.ID, source.BranchID, source.BaseQty-request.Qty); err != nil {
			return apperrors.Internal(err, "failed to decrement source stock")
		}

		dest, err := tx.GetItemForUpdate(ctx, request.ItemID, request.ToBranchID)
		if err != nil {
			return apperrors.Internal(err, "failed to lock destination stock")
		}
		if dest == nil {
			// Primer traspaso de este artículo al destino: se clona la
			// metadata del registro de origen con mínimo en cero.
			dest = &models.Item{
				ID:       source.ID,
				BranchID: request.ToBranchID,
				NameEn:   source.NameEn,
				NameAr:   source.NameAr,
				MinQty:   0,
				BaseQty:  request.Qty,
				UnitCost: source.UnitCost,
			}
			if err := tx.CreateItem(ctx, dest); err != nil {
				return apperrors.Internal(err, "failed to create destination stock")
			}
		} else {
			if err := tx.SetItemQty(ctx, dest.ID, dest.BranchID, dest.BaseQty+request.Qty); err != nil {
				return apperrors.Internal(err, "failed to increment destination stock")
			}
		}

		outMovement := &models.Movement{
			ID:       models.NewID(models.PrefixMovement),
			ItemID:   request.ItemID,
			BranchID: request.FromBranchID,
			Type:     models.MovementOut,
			Qty:      request.Qty,
			UserID:   actor.ID,
			Note:     fmt.Sprintf("Salida por entrega de solicitud %s", request.ID),
		}
		if err := tx.AppendMovement(ctx, outMovement); err != nil {
			return apperrors.Internal(err, "failed to append OUT movement")
		}

		inMovement := &models.Movement{
			ID:       models.NewID(models.PrefixMovement),
			ItemID:   request.ItemID,
			BranchID: request.ToBranchID,
			Type:     models.MovementIn,
			Qty:      request.Qty,
			UserID:   actor.ID,
			Note:     fmt.Sprintf("Ingreso por entrega de solicitud %s", request.ID),
		}
		if err := tx.AppendMovement(ctx, inMovement); err != nil {
			return apperrors.Internal(err, "failed to append IN movement")
		}

		request.Status = models.RequestDelivered
		request.ReceivedBy = &actor.ID
		request.DeliveredAt = &now
		if err := tx.SaveRequest(ctx, request); err != nil {
			// Otra confirmación ganó la carrera: nada de esta
			// transacción queda escrito.
			if errors.Is(err, repository.ErrRequestClosed) {
				return apperrors.Conflict(fmt.Sprintf("request %s is already delivered", request.ID))
			}
			return apperrors.Internal(err, "failed to finalize request")
		}

		result.OutMovement = outMovement
		result.InMovement = inMovement
		return nil
	})
	if err != nil {
		logger.Error("❌ Entrega no confirmada", zap.Error(err))
		return nil, err
	}

	// Invalidar caché de ambos registros afectados
	if err := s.cache.InvalidateItem(ctx, request.ItemID, request.FromBranchID); err != nil {
		logger.Warn("Error invalidando caché de origen", zap.Error(err))
	}
	if err := s.cache.InvalidateItem(ctx, request.ItemID, request.ToBranchID); err != nil {
		logger.Warn("Error invalidando caché de destino", zap.Error(err))
	}

	logger.Info("✅ Entrega confirmada",
		zap.String("item_id", request.ItemID),
		zap.Int("qty", request.Qty),
		zap.String("received_by", actor.ID))

	return result, nil
}

// DeleteRequest elimina una solicitud, solo mientras está pending.
func (s *requestService) DeleteRequest(ctx context.Context, requestID, actorID string) error {
	actor, err := s.getActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !auth.HasRole(actor, models.RoleAdmin, models.RoleManager) {
		return apperrors.Forbidden("only admin or manager can delete requests")
	}

	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return apperrors.Internal(err, "failed to look up request")
	}
	if request == nil {
		return apperrors.NotFound(fmt.Sprintf("request %s not found", requestID))
	}
	if request.Status != models.RequestPending {
		return apperrors.Conflict(fmt.Sprintf("request %s is %s and cannot be deleted", requestID, request.Status))
	}

	if err := s.requests.DeleteRequest(ctx, requestID); err != nil {
		return apperrors.Internal(err, "failed to delete request")
	}

	s.logger.Info("Solicitud eliminada",
		zap.String("request_id", requestID),
		zap.String("actor_id", actorID))
	return nil
}

// ListPending lista las solicitudes pendientes de todas las sucursales.
// Los conductores la necesitan para ver trabajo disponible.
func (s *requestService) ListPending(ctx context.Context, actorID string) ([]*models.Request, error) {
	actor, err := s.getActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !auth.HasRole(actor, models.RoleAdmin, models.RoleManager, models.RoleDriver) {
		return nil, apperrors.Forbidden("role cannot list pending requests")
	}

	requests, err := s.requests.ListRequestsByStatus(ctx, models.RequestPending)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list pending requests")
	}
	return requests, nil
}

// ListBranchRequests lista las solicitudes con destino en una sucursal.
// Staff y supervisor solo ven su propia sucursal.
func (s *requestService) ListBranchRequests(ctx context.Context, actorID, branchID string) ([]*models.Request, error) {
	actor, err := s.getActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	switch {
	case auth.HasRole(actor, models.RoleAdmin, models.RoleManager, models.RoleDriver):
	case auth.HasRole(actor, models.RoleStaff, models.RoleSupervisor):
		if actor.BranchID == nil || *actor.BranchID != branchID {
			return nil, apperrors.Forbidden("actor does not belong to the requested branch")
		}
	default:
		return nil, apperrors.Forbidden("role cannot list requests")
	}

	requests, err := s.requests.ListRequestsByBranch(ctx, branchID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list branch requests")
	}
	return requests, nil
}

// GetRequest obtiene una solicitud por id
func (s *requestService) GetRequest(ctx context.Context, requestID string) (*models.Request, error) {
	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to get request")
	}
	if request == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("request %s not found", requestID))
	}
	return request, nil
}

// getActor resuelve el usuario que ejecuta la operación
func (s *requestService) getActor(ctx context.Context, actorID string) (*models.User, error) {
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

// getOpenRequest obtiene una solicitud que todavía admite transiciones
func (s *requestService) getOpenRequest(ctx context.Context, requestID string) (*models.Request, error) {
	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to look up request")
	}
	if request == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("request %s not found", requestID))
	}
	if request.Status == models.RequestDelivered {
		return nil, apperrors.Conflict(fmt.Sprintf("request %s is already delivered", requestID))
	}
	return request, nil
}

func applyEta(request *models.Request, eta *time.Time, label string) {
	if eta != nil {
		request.DeliveryEta = eta
	}
	if label != "" {
		request.DeliveryEtaLabel = &label
	}
}
