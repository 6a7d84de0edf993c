package models

import (
	"time"
)

// Item representa el registro de stock de un artículo en una sucursal.
// La identidad es compuesta (id, branch_id): el mismo código de artículo
// puede existir como registros independientes en varias sucursales.
// BaseQty nunca es negativo y solo se muta a través de movimientos o
// de la confirmación de entrega de una solicitud.
type Item struct {
	ID        string    `json:"id" db:"id"`
	BranchID  string    `json:"branch_id" db:"branch_id"`
	NameEn    string    `json:"name_en" db:"name_en"`
	NameAr    string    `json:"name_ar" db:"name_ar"`
	MinQty    int       `json:"min_qty" db:"min_qty"`
	BaseQty   int       `json:"base_qty" db:"base_qty"`
	UnitCost  float64   `json:"unit_cost" db:"unit_cost"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsLow indica si el stock está en o bajo el mínimo configurado.
func (i *Item) IsLow() bool {
	return i.BaseQty <= i.MinQty
}
