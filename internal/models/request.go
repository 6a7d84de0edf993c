package models

import (
	"time"
)

// Estados de una solicitud de traspaso. Solo avanzan hacia adelante:
// pending → assigned → delivered. Una solicitud pending puede pasar
// directo a delivered (la confirmación no exige asignación previa).
const (
	RequestPending   = "pending"
	RequestAssigned  = "assigned"
	RequestDelivered = "delivered"
)

// Prioridades de una solicitud.
const (
	PriorityNormal = "normal"
	PriorityUrgent = "urgent"
)

// Request representa una solicitud de traspaso de stock desde la bodega
// central hacia la sucursal del creador. ToBranchID queda fijo al crear
// y nunca cambia.
type Request struct {
	ID               string     `json:"id" db:"id"`
	ItemID           string     `json:"item_id" db:"item_id"`
	Qty              int        `json:"qty" db:"qty"`
	FromBranchID     string     `json:"from_branch_id" db:"from_branch_id"`
	ToBranchID       string     `json:"to_branch_id" db:"to_branch_id"`
	CreatedBy        string     `json:"created_by" db:"created_by"`
	Note             string     `json:"note" db:"note"`
	Priority         string     `json:"priority" db:"priority"`
	UrgentNote       string     `json:"urgent_note,omitempty" db:"urgent_note"`
	Image            string     `json:"image,omitempty" db:"image"`
	Status           string     `json:"status" db:"status"`
	DriverID         *string    `json:"driver_id,omitempty" db:"driver_id"`
	AssignedAt       *time.Time `json:"assigned_at,omitempty" db:"assigned_at"`
	AssignedBy       *string    `json:"assigned_by,omitempty" db:"assigned_by"`
	DeliveryEta      *time.Time `json:"delivery_eta,omitempty" db:"delivery_eta"`
	DeliveryEtaLabel *string    `json:"delivery_eta_label,omitempty" db:"delivery_eta_label"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty" db:"delivered_at"`
	ReceivedBy       *string    `json:"received_by,omitempty" db:"received_by"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// DeliveryResult resultado de una confirmación de entrega: la solicitud
// actualizada más el par de movimientos generados.
type DeliveryResult struct {
	Request     *Request  `json:"request"`
	OutMovement *Movement `json:"out_movement"`
	InMovement  *Movement `json:"in_movement"`
}
