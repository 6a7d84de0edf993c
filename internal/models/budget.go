package models

import (
	"time"
)

// Budget presupuesto mensual simple por sucursal. Agregado independiente:
// no comparte estado con las solicitudes de traspaso.
type Budget struct {
	ID        string    `json:"id" db:"id"`
	BranchID  string    `json:"branch_id" db:"branch_id"`
	Month     string    `json:"month" db:"month"`
	Planned   float64   `json:"planned" db:"planned"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
