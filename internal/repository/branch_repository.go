package repository

import (
	"context"
	"database/sql"
	"fmt"

	"inventory-service/internal/models"
)

// BranchRepository define la interfaz para operaciones de sucursales
type BranchRepository interface {
	CreateBranch(ctx context.Context, branch *models.Branch) error
	GetBranchByID(ctx context.Context, id string) (*models.Branch, error)
	ListBranches(ctx context.Context) ([]*models.Branch, error)
	UpdateBranch(ctx context.Context, branch *models.Branch) error
	DeleteBranch(ctx context.Context, id string) error
}

type branchRepository struct {
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

// NewBranchRepository crea una nueva instancia del repository
func NewBranchRepository(db *sql.DB) (BranchRepository, error) {
	repo := &branchRepository{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
	}

	if err := repo.prepareStatements(); err != nil {
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return repo, nil
}

func (r *branchRepository) prepareStatements() error {
	statements := map[string]string{
		"create_branch": `
			INSERT INTO branches (id, name)
			VALUES ($1, $2)
			RETURNING created_at, updated_at
		`,
		"get_branch": `
			SELECT id, name, created_at, updated_at
			FROM branches
			WHERE id = $1
		`,
		"list_branches": `
			SELECT id, name, created_at, updated_at
			FROM branches
			ORDER BY name
		`,
		"update_branch": `
			UPDATE branches
			SET name = $1, updated_at = NOW()
			WHERE id = $2
		`,
		"delete_branch": `
			DELETE FROM branches WHERE id = $1
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

// CreateBranch inserta una sucursal nueva
func (r *branchRepository) CreateBranch(ctx context.Context, branch *models.Branch) error {
	err := r.stmts["create_branch"].QueryRowContext(ctx, branch.ID, branch.Name).
		Scan(&branch.CreatedAt, &branch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

// GetBranchByID obtiene una sucursal; nil si no existe
func (r *branchRepository) GetBranchByID(ctx context.Context, id string) (*models.Branch, error) {
	var branch models.Branch
	err := r.stmts["get_branch"].QueryRowContext(ctx, id).Scan(
		&branch.ID, &branch.Name, &branch.CreatedAt, &branch.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}

	return &branch, nil
}

// ListBranches lista todas las sucursales
func (r *branchRepository) ListBranches(ctx context.Context) ([]*models.Branch, error) {
	rows, err := r.stmts["list_branches"].QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	var branches []*models.Branch
	for rows.Next() {
		var branch models.Branch
		if err := rows.Scan(&branch.ID, &branch.Name, &branch.CreatedAt, &branch.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, &branch)
	}

	return branches, rows.Err()
}

// UpdateBranch actualiza el nombre de una sucursal
func (r *branchRepository) UpdateBranch(ctx context.Context, branch *models.Branch) error {
	result, err := r.stmts["update_branch"].ExecContext(ctx, branch.Name, branch.ID)
	if err != nil {
		return fmt.Errorf("failed to update branch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no branch record found for id %s", branch.ID)
	}

	return nil
}

// DeleteBranch elimina una sucursal
func (r *branchRepository) DeleteBranch(ctx context.Context, id string) error {
	if _, err := r.stmts["delete_branch"].ExecContext(ctx, id); err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
	}
	return nil
}
