package services

import (
	"context"

	"inventory-service/internal/apperrors"
	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"go.uber.org/zap"
)

// ExportService genera el volcado completo del estado persistido para
// el export administrativo.
type ExportService interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

// BudgetLister y VehicleLister son lo único que el export necesita de
// esos registros auxiliares.
type BudgetLister interface {
	List(ctx context.Context) ([]*models.Budget, error)
}

type VehicleLister interface {
	List(ctx context.Context) ([]*models.Vehicle, error)
}

type exportService struct {
	branches  repository.BranchRepository
	users     repository.UserRepository
	items     repository.ItemRepository
	movements repository.MovementRepository
	requests  repository.RequestRepository
	budgets   BudgetLister
	vehicles  VehicleLister
	logger    *zap.Logger
}

// NewExportService crea una nueva instancia del servicio
func NewExportService(
	branches repository.BranchRepository,
	users repository.UserRepository,
	items repository.ItemRepository,
	movements repository.MovementRepository,
	requests repository.RequestRepository,
	budgets BudgetLister,
	vehicles VehicleLister,
	logger *zap.Logger,
) ExportService {
	return &exportService{
		branches:  branches,
		users:     users,
		items:     items,
		movements: movements,
		requests:  requests,
		budgets:   budgets,
		vehicles:  vehicles,
		logger:    logger,
	}
}

// Snapshot arma el documento completo. Las colecciones sin registros se
// serializan como arreglos vacíos, nunca null.
func (s *exportService) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	branches, err := s.branches.ListBranches(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to export branches")
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to export users")
	}
	items, err := s.items.ListAllItems(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to export items")
	}
	movements, err := s.movements.ListMovements(ctx, &models.MovementFilter{})
	if err != nil {
		return nil, apperrors.Internal(err, "failed to export movements")
	}
	requests, err := s.requests.ListAllRequests(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to export requests")
	}
	budgets, err := s.budgets.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to export budgets")
	}
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to export vehicles")
	}

	snapshot := &models.Snapshot{
		Branches:  branches,
		Users:     users,
		Items:     items,
		Movements: movements,
		Requests:  requests,
		Budgets:   budgets,
		Vehicles:  vehicles,
	}
	ensureCollections(snapshot)

	s.logger.Info("Snapshot exportado",
		zap.Int("branches", len(snapshot.Branches)),
		zap.Int("items", len(snapshot.Items)),
		zap.Int("movements", len(snapshot.Movements)),
		zap.Int("requests", len(snapshot.Requests)))

	return snapshot, nil
}

func ensureCollections(s *models.Snapshot) {
	if s.Branches == nil {
		s.Branches = []*models.Branch{}
	}
	if s.Users == nil {
		s.Users = []*models.User{}
	}
	if s.Items == nil {
		s.Items = []*models.Item{}
	}
	if s.Movements == nil {
		s.Movements = []*models.Movement{}
	}
	if s.Requests == nil {
		s.Requests = []*models.Request{}
	}
	if s.Budgets == nil {
		s.Budgets = []*models.Budget{}
	}
	if s.Vehicles == nil {
		s.Vehicles = []*models.Vehicle{}
	}
}
