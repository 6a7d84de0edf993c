package models

import (
	"time"
)

// Vehicle representa un vehículo de la flota de reparto.
type Vehicle struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Plate     string    `json:"plate" db:"plate"`
	BranchID  *string   `json:"branch_id,omitempty" db:"branch_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
