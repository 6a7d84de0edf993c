package repository

import (
	"context"
	"database/sql"
	"fmt"

	"inventory-service/internal/models"
)

// BudgetRepository acceso a los presupuestos mensuales. CRUD simple,
// sin sentencias preparadas: el volumen no lo amerita.
type BudgetRepository struct {
	DB *sql.DB
}

func (r BudgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO budgets (id, branch_id, month, planned)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, budget.ID, budget.BranchID, budget.Month, budget.Planned).
		Scan(&budget.CreatedAt, &budget.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

func (r BudgetRepository) GetByID(ctx context.Context, id string) (*models.Budget, error) {
	var budget models.Budget
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, branch_id, month, planned, created_at, updated_at
		FROM budgets
		WHERE id = $1
	`, id).Scan(&budget.ID, &budget.BranchID, &budget.Month, &budget.Planned,
		&budget.CreatedAt, &budget.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &budget, nil
}

func (r BudgetRepository) List(ctx context.Context) ([]*models.Budget, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, branch_id, month, planned, created_at, updated_at
		FROM budgets
		ORDER BY month DESC, branch_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		var budget models.Budget
		err := rows.Scan(&budget.ID, &budget.BranchID, &budget.Month, &budget.Planned,
			&budget.CreatedAt, &budget.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, &budget)
	}

	return budgets, rows.Err()
}

func (r BudgetRepository) Update(ctx context.Context, budget *models.Budget) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE budgets
		SET branch_id = $1, month = $2, planned = $3, updated_at = NOW()
		WHERE id = $4
	`, budget.BranchID, budget.Month, budget.Planned, budget.ID)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no budget record found for id %s", budget.ID)
	}
	return nil
}

func (r BudgetRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}
