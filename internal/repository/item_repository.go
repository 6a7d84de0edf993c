package repository

import (
	"context"
	"database/sql"
	"fmt"

	"inventory-service/internal/models"
)

// ItemRepository define la interfaz para los registros de stock.
// La identidad de un artículo es compuesta: (id, branch_id).
type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id, branchID string) (*models.Item, error)
	ListItemsByBranch(ctx context.Context, branchID string) ([]*models.Item, error)
	ListLowStock(ctx context.Context, branchID string) ([]*models.Item, error)
	UpdateItemMeta(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id, branchID string) error
	ListAllItems(ctx context.Context) ([]*models.Item, error)
}

type itemRepository struct {
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

// NewItemRepository crea una nueva instancia del repository
func NewItemRepository(db *sql.DB) (ItemRepository, error) {
	repo := &itemRepository{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
	}

	if err := repo.prepareStatements(); err != nil {
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return repo, nil
}

func (r *itemRepository) prepareStatements() error {
	statements := map[string]string{
		"create_item": `
			INSERT INTO items (id, branch_id, name_en, name_ar, min_qty, base_qty, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at
		`,
		"get_item": `
			SELECT id, branch_id, name_en, name_ar, min_qty, base_qty, unit_cost, created_at, updated_at
			FROM items
			WHERE id = $1 AND branch_id = $2
		`,
		"list_items_by_branch": `
			SELECT id, branch_id, name_en, name_ar, min_qty, base_qty, unit_cost, created_at, updated_at
			FROM items
			WHERE branch_id = $1
			ORDER BY id
		`,
		"list_low_stock": `
			SELECT id, branch_id, name_en, name_ar, min_qty, base_qty, unit_cost, created_at, updated_at
			FROM items
			WHERE branch_id = $1 AND base_qty <= min_qty
			ORDER BY base_qty ASC
		`,
		"update_item_meta": `
			UPDATE items
			SET name_en = $1, name_ar = $2, min_qty = $3, unit_cost = $4, updated_at = NOW()
			WHERE id = $5 AND branch_id = $6
		`,
		"delete_item": `
			DELETE FROM items WHERE id = $1 AND branch_id = $2
		`,
		"list_all_items": `
			SELECT id, branch_id, name_en, name_ar, min_qty, base_qty, unit_cost, created_at, updated_at
			FROM items
			ORDER BY branch_id, id
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

// CreateItem inserta un registro de stock nuevo
func (r *itemRepository) CreateItem(ctx context.Context, item *models.Item) error {
	err := r.stmts["create_item"].QueryRowContext(ctx,
		item.ID, item.BranchID, item.NameEn, item.NameAr,
		item.MinQty, item.BaseQty, item.UnitCost,
	).Scan(&item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetItem obtiene un registro de stock por identidad compuesta; nil si no existe
func (r *itemRepository) GetItem(ctx context.Context, id, branchID string) (*models.Item, error) {
	var item models.Item
	err := r.stmts["get_item"].QueryRowContext(ctx, id, branchID).Scan(
		&item.ID, &item.BranchID, &item.NameEn, &item.NameAr,
		&item.MinQty, &item.BaseQty, &item.UnitCost, &item.CreatedAt, &item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &item, nil
}

// ListItemsByBranch lista el stock de una sucursal
func (r *itemRepository) ListItemsByBranch(ctx context.Context, branchID string) ([]*models.Item, error) {
	return r.queryItems(ctx, "list_items_by_branch", branchID)
}

// ListLowStock lista artículos en o bajo su mínimo
func (r *itemRepository) ListLowStock(ctx context.Context, branchID string) ([]*models.Item, error) {
	return r.queryItems(ctx, "list_low_stock", branchID)
}

// ListAllItems lista todo el stock (para el export administrativo)
func (r *itemRepository) ListAllItems(ctx context.Context) ([]*models.Item, error) {
	return r.queryItems(ctx, "list_all_items")
}

// UpdateItemMeta actualiza los metadatos editables de un artículo.
// base_qty no se toca por acá: eso es asunto de movimientos y entregas.
func (r *itemRepository) UpdateItemMeta(ctx context.Context, item *models.Item) error {
	result, err := r.stmts["update_item_meta"].ExecContext(ctx,
		item.NameEn, item.NameAr, item.MinQty, item.UnitCost, item.ID, item.BranchID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no item record found for %s in branch %s", item.ID, item.BranchID)
	}

	return nil
}

// DeleteItem elimina un registro de stock
func (r *itemRepository) DeleteItem(ctx context.Context, id, branchID string) error {
	if _, err := r.stmts["delete_item"].ExecContext(ctx, id, branchID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (r *itemRepository) queryItems(ctx context.Context, stmt string, args ...interface{}) ([]*models.Item, error) {
	rows, err := r.stmts[stmt].QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		var item models.Item
		err := rows.Scan(
			&item.ID, &item.BranchID, &item.NameEn, &item.NameAr,
			&item.MinQty, &item.BaseQty, &item.UnitCost, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}
