package models

import (
	"time"
)

// Tipos de movimiento de stock.
const (
	MovementIn  = "IN"
	MovementOut = "OUT"
)

// Movement representa una entrada del libro de movimientos.
// Es inmutable una vez creada: no existe update ni delete. Con estos
// campos se puede reconstruir por replay el historial de stock de
// cualquier sucursal.
type Movement struct {
	ID        string    `json:"id" db:"id"`
	ItemID    string    `json:"item_id" db:"item_id"`
	BranchID  string    `json:"branch_id" db:"branch_id"`
	Type      string    `json:"type" db:"type"`
	Qty       int       `json:"qty" db:"qty"`
	UserID    string    `json:"user_id" db:"user_id"`
	Note      string    `json:"note" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MovementFilter filtros para consultas de movimientos.
type MovementFilter struct {
	BranchID *string    `json:"branch_id,omitempty"`
	ItemID   *string    `json:"item_id,omitempty"`
	Type     *string    `json:"type,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}
