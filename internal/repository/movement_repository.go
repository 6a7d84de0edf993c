package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"inventory-service/internal/models"
)

// MovementRepository define la interfaz del libro de movimientos.
// Solo append y lectura: las entradas son inmutables.
type MovementRepository interface {
	CreateMovement(ctx context.Context, movement *models.Movement) error
	ListMovements(ctx context.Context, filter *models.MovementFilter) ([]*models.Movement, error)
}

type movementRepository struct {
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

// NewMovementRepository crea una nueva instancia del repository
func NewMovementRepository(db *sql.DB) (MovementRepository, error) {
	repo := &movementRepository{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
	}

	if err := repo.prepareStatements(); err != nil {
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return repo, nil
}

func (r *movementRepository) prepareStatements() error {
	statements := map[string]string{
		"create_movement": `
			INSERT INTO movements (id, item_id, branch_id, type, qty, user_id, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at
		`,
	}

	for name, query := range statements {
		stmt, err := r.db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare %s: %w", name, err)
		}
		r.stmts[name] = stmt
	}

	return nil
}

// CreateMovement agrega una entrada al libro
func (r *movementRepository) CreateMovement(ctx context.Context, movement *models.Movement) error {
	err := r.stmts["create_movement"].QueryRowContext(ctx,
		movement.ID, movement.ItemID, movement.BranchID, movement.Type,
		movement.Qty, movement.UserID, movement.Note,
	).Scan(&movement.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create movement: %w", err)
	}

	return nil
}

// ListMovements consulta el libro con filtros dinámicos
func (r *movementRepository) ListMovements(ctx context.Context, filter *models.MovementFilter) ([]*models.Movement, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT id, item_id, branch_id, type, qty, user_id, note, created_at
		FROM movements
		WHERE 1=1
	`)

	var args []interface{}
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.BranchID != nil {
			query.WriteString(" AND branch_id = " + arg(*filter.BranchID))
		}
		if filter.ItemID != nil {
			query.WriteString(" AND item_id = " + arg(*filter.ItemID))
		}
		if filter.Type != nil {
			query.WriteString(" AND type = " + arg(*filter.Type))
		}
		if filter.DateFrom != nil {
			query.WriteString(" AND created_at >= " + arg(*filter.DateFrom))
		}
		if filter.DateTo != nil {
			query.WriteString(" AND created_at <= " + arg(*filter.DateTo))
		}
	}

	query.WriteString(" ORDER BY created_at DESC")

	if filter != nil && filter.Limit > 0 {
		query.WriteString(" LIMIT " + arg(filter.Limit))
		if filter.Offset > 0 {
			query.WriteString(" OFFSET " + arg(filter.Offset))
		}
	}

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var movements []*models.Movement
	for rows.Next() {
		var movement models.Movement
		err := rows.Scan(
			&movement.ID, &movement.ItemID, &movement.BranchID, &movement.Type,
			&movement.Qty, &movement.UserID, &movement.Note, &movement.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, &movement)
	}

	return movements, rows.Err()
}
