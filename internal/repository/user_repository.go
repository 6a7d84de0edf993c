package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-service/internal/models"

	"github.com/lib/pq"
)

// UserRepository define la interfaz para operaciones de usuarios
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// userRepository implementa UserRepository
type userRepository struct {
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

// NewUserRepository crea una nueva instancia del repository
func NewUserRepository(db *sql.DB) (UserRepository, error) {
	repo := &userRepository{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
	}

	if err := repo.prepareStatements(); err != nil {
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return repo, nil
}

func (r *userRepository) prepareStatements() error {
	statements := map[string]string{
		"create_user": `
			INSERT INTO users (id, name, role, password_hash, branch_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at
		`,
		"get_user": `
			SELECT id, name, role, password_hash, branch_id, created_at, updated_at
			FROM users
			WHERE id = $1
		`,
		"get_user_by_name": `
			SELECT id, name, role, password_hash, branch_id, created_at, updated_at
			FROM users
			WHERE LOWER(name) = LOWER($1)
		`,
		"list_users": `
			SELECT id, name, role, password_hash, branch_id, created_at, updated_at
			FROM users
			ORDER BY name
		`,
		"update_user": `
			UPDATE users
			SET name = $1, role = $2, password_hash = $3, branch_id = $4, updated_at = NOW()
			WHERE id = $5
		`,
		"delete_user": `
			DELETE FROM users WHERE id = $1
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

// CreateUser inserta un usuario nuevo
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	err := r.stmts["create_user"].QueryRowContext(ctx,
		user.ID, user.Name, user.Role, user.PasswordHash, user.BranchID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID obtiene un usuario por id; nil si no existe
func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanUser(r.stmts["get_user"].QueryRowContext(ctx, id))
}

// GetUserByName obtiene un usuario por nombre (case-insensitive)
func (r *userRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return r.scanUser(r.stmts["get_user_by_name"].QueryRowContext(ctx, name))
}

// ListUsers lista todos los usuarios
func (r *userRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := r.stmts["list_users"].QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		var branchID sql.NullString
		err := rows.Scan(
			&user.ID, &user.Name, &user.Role, &user.PasswordHash,
			&branchID, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if branchID.Valid {
			user.BranchID = &branchID.String
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

// UpdateUser persiste los campos mutables de un usuario
func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {
	result, err := r.stmts["update_user"].ExecContext(ctx,
		user.Name, user.Role, user.PasswordHash, user.BranchID, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no user record found for id %s", user.ID)
	}

	return nil
}

// DeleteUser elimina un usuario
func (r *userRepository) DeleteUser(ctx context.Context, id string) error {
	if _, err := r.stmts["delete_user"].ExecContext(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var branchID sql.NullString
	err := row.Scan(
		&user.ID, &user.Name, &user.Role, &user.PasswordHash,
		&branchID, &user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if branchID.Valid {
		user.BranchID = &branchID.String
	}

	return &user, nil
}

// IsUniqueViolation true si el error es una violación de índice único
// de Postgres (nombre de usuario duplicado, artículo duplicado, etc.).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
