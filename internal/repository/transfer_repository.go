package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-service/internal/models"
)

// ErrRequestClosed la solicitud ya fue entregada; la transición
// condicional de SaveRequest no encontró fila abierta.
var ErrRequestClosed = errors.New("request already delivered")

// TransferTx operaciones disponibles dentro de una transacción de stock.
// La confirmación de entrega y el movimiento directo mutan stock y libro
// a través de esta unidad: todo se aplica junto o nada se aplica.
type TransferTx interface {
	// GetItemForUpdate lee un registro de stock bloqueando la fila
	// (id, branch_id) hasta el commit; nil si no existe.
	GetItemForUpdate(ctx context.Context, id, branchID string) (*models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) error
	SetItemQty(ctx context.Context, id, branchID string, qty int) error
	AppendMovement(ctx context.Context, movement *models.Movement) error
	// SaveRequest transición condicional: solo escribe si la solicitud
	// sigue abierta. Si otra transacción ya la entregó retorna
	// ErrRequestClosed y la transacción completa se revierte.
	SaveRequest(ctx context.Context, request *models.Request) error
}

// TransferRunner ejecuta una función dentro de una transacción de stock.
// Si fn retorna error, se hace rollback completo.
type TransferRunner interface {
	RunTransfer(ctx context.Context, fn func(tx TransferTx) error) error
}

type transferRunner struct {
	db *sql.DB
}

// NewTransferRunner crea el runner transaccional sobre Postgres
func NewTransferRunner(db *sql.DB) TransferRunner {
	return &transferRunner{db: db}
}

// RunTransfer abre la transacción, ejecuta fn y hace commit/rollback.
// El SELECT ... FOR UPDATE dentro de fn serializa las mutaciones
// concurrentes sobre el mismo (item, branch).
func (r *transferRunner) RunTransfer(ctx context.Context, fn func(tx TransferTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&transferTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type transferTx struct {
	tx *sql.Tx
}

func (t *transferTx) GetItemForUpdate(ctx context.Context, id, branchID string) (*models.Item, error) {
	var item models.Item
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, branch_id, name_en, name_ar, min_qty, base_qty, unit_cost, created_at, updated_at
		FROM items
		WHERE id = $1 AND branch_id = $2
		FOR UPDATE
	`, id, branchID).Scan(
		&item.ID, &item.BranchID, &item.NameEn, &item.NameAr,
		&item.MinQty, &item.BaseQty, &item.UnitCost, &item.CreatedAt, &item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item for update: %w", err)
	}

	return &item, nil
}

func (t *transferTx) CreateItem(ctx context.Context, item *models.Item) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO items (id, branch_id, name_en, name_ar, min_qty, base_qty, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, item.ID, item.BranchID, item.NameEn, item.NameAr,
		item.MinQty, item.BaseQty, item.UnitCost,
	).Scan(&item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create item in transfer: %w", err)
	}

	return nil
}

func (t *transferTx) SetItemQty(ctx context.Context, id, branchID string, qty int) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE items
		SET base_qty = $1, updated_at = NOW()
		WHERE id = $2 AND branch_id = $3
	`, qty, id, branchID)
	if err != nil {
		return fmt.Errorf("failed to set item qty: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no item record found for %s in branch %s", id, branchID)
	}

	return nil
}

func (t *transferTx) AppendMovement(ctx context.Context, movement *models.Movement) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO movements (id, item_id, branch_id, type, qty, user_id, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, movement.ID, movement.ItemID, movement.BranchID, movement.Type,
		movement.Qty, movement.UserID, movement.Note,
	).Scan(&movement.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append movement: %w", err)
	}

	return nil
}

func (t *transferTx) SaveRequest(ctx context.Context, request *models.Request) error {
	// El WHERE sobre status cierra la carrera entre dos confirmaciones:
	// la segunda transacción espera el lock de la fila y al re-evaluar
	// la condición ya la ve entregada, afecta 0 filas y se revierte.
	result, err := t.tx.ExecContext(ctx, `
		UPDATE requests
		SET status = $1, driver_id = $2, assigned_at = $3, assigned_by = $4,
		    delivery_eta = $5, delivery_eta_label = $6, delivered_at = $7, received_by = $8
		WHERE id = $9 AND status <> $10
	`, request.Status, request.DriverID, request.AssignedAt, request.AssignedBy,
		request.DeliveryEta, request.DeliveryEtaLabel, request.DeliveredAt, request.ReceivedBy,
		request.ID, models.RequestDelivered)
	if err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRequestClosed
	}

	return nil
}
