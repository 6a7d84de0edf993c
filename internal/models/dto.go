package models

import (
	"time"
)

// LoginInput credenciales para el login.
type LoginInput struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateUserInput datos para crear un usuario (solo admin).
type CreateUserInput struct {
	Name     string  `json:"name" validate:"required"`
	Role     string  `json:"role" validate:"required,oneof=admin manager staff supervisor driver"`
	Password string  `json:"password" validate:"required,min=6"`
	BranchID *string `json:"branch_id,omitempty"`
}

// UpdateUserInput datos editables de un usuario. Qué campos se aplican
// depende del conjunto de permisos de edición del actor, no del rol inline.
type UpdateUserInput struct {
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin manager staff supervisor driver"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	BranchID *string `json:"branch_id,omitempty"`
}

// BranchInput datos para crear/actualizar una sucursal.
type BranchInput struct {
	Name string `json:"name" validate:"required"`
}

// ItemInput datos para crear un registro de stock.
type ItemInput struct {
	ID       string  `json:"id" validate:"required"`
	BranchID string  `json:"branch_id" validate:"required"`
	NameEn   string  `json:"name_en" validate:"required"`
	NameAr   string  `json:"name_ar"`
	MinQty   int     `json:"min_qty" validate:"gte=0"`
	BaseQty  int     `json:"base_qty" validate:"gte=0"`
	UnitCost float64 `json:"unit_cost" validate:"gte=0"`
}

// UpdateItemInput datos editables de un artículo. BaseQty no se edita
// directo: solo cambia vía movimientos o entregas.
type UpdateItemInput struct {
	NameEn   *string  `json:"name_en,omitempty"`
	NameAr   *string  `json:"name_ar,omitempty"`
	MinQty   *int     `json:"min_qty,omitempty" validate:"omitempty,gte=0"`
	UnitCost *float64 `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
}

// MovementInput datos para registrar un movimiento directo de stock.
type MovementInput struct {
	ItemID   string `json:"item_id" validate:"required"`
	BranchID string `json:"branch_id" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=IN OUT"`
	Qty      int    `json:"qty" validate:"required,gt=0"`
	Note     string `json:"note"`
}

// CreateRequestInput datos para crear una solicitud de traspaso.
type CreateRequestInput struct {
	ItemID     string `json:"item_id" validate:"required"`
	Qty        int    `json:"qty" validate:"required,gt=0"`
	Note       string `json:"note"`
	Priority   string `json:"priority" validate:"omitempty,oneof=normal urgent"`
	UrgentNote string `json:"urgent_note"`
	Image      string `json:"image"`
}

// AssignInput datos para asignar un conductor a una solicitud.
type AssignInput struct {
	DriverID string     `json:"driver_id" validate:"required"`
	Eta      *time.Time `json:"eta,omitempty"`
	EtaLabel string     `json:"eta_label,omitempty"`
}

// ClaimInput datos opcionales al tomar una solicitud (self-service).
type ClaimInput struct {
	Eta      *time.Time `json:"eta,omitempty"`
	EtaLabel string     `json:"eta_label,omitempty"`
}

// EtaInput datos para actualizar la ETA de una solicitud.
type EtaInput struct {
	Eta      time.Time `json:"eta" validate:"required"`
	EtaLabel string    `json:"eta_label,omitempty"`
}

// BudgetInput datos para crear/actualizar un presupuesto mensual.
type BudgetInput struct {
	BranchID string  `json:"branch_id" validate:"required"`
	Month    string  `json:"month" validate:"required"`
	Planned  float64 `json:"planned" validate:"gte=0"`
}

// VehicleInput datos para crear/actualizar un vehículo.
type VehicleInput struct {
	Name     string  `json:"name" validate:"required"`
	Plate    string  `json:"plate" validate:"required"`
	BranchID *string `json:"branch_id,omitempty"`
}

// Snapshot documento completo del estado persistido, para el export
// administrativo. Las colecciones faltantes se serializan vacías.
type Snapshot struct {
	Branches  []*Branch   `json:"branches"`
	Users     []*User     `json:"users"`
	Items     []*Item     `json:"items"`
	Movements []*Movement `json:"movements"`
	Requests  []*Request  `json:"requests"`
	Budgets   []*Budget   `json:"budgets"`
	Vehicles  []*Vehicle  `json:"vehicles"`
}
