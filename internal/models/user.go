package models

import (
	"time"
)

// Roles del sistema. Se comparan tal cual contra la columna role.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleStaff      = "staff"
	RoleSupervisor = "supervisor"
	RoleDriver     = "driver"
)

// User representa un usuario del sistema.
// El nombre es único (case-insensitive). BranchID es obligatorio para
// los roles que crean solicitudes (staff/supervisor/manager); los
// admin y los conductores pueden no tener sucursal.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Role         string    `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	BranchID     *string   `json:"branch_id,omitempty" db:"branch_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
