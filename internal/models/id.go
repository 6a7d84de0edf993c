package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Prefijos legibles para los identificadores de cada tabla.
const (
	PrefixBranch   = "BRN"
	PrefixUser     = "USR"
	PrefixMovement = "MOV"
	PrefixRequest  = "REQ"
	PrefixBudget   = "BGT"
	PrefixVehicle  = "VEH"
)

// NewID genera un identificador único con prefijo legible.
// El prefijo es solo presentación; la unicidad viene del UUID.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
