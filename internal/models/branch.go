package models

import (
	"time"
)

// Branch representa una sucursal física de la organización.
// Una sucursal configurada actúa como bodega central (main storage):
// todas las solicitudes de traspaso salen desde ahí.
type Branch struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
