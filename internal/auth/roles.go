package auth

import (
	"inventory-service/internal/models"
)

// HasRole predicado puro de control de acceso: true si el rol del
// usuario está dentro de los roles permitidos. Se evalúa inline antes
// de cada operación mutante; el caller decide el error tipado.
func HasRole(user *models.User, roles ...string) bool {
	if user == nil {
		return false
	}
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}
	return false
}

// EditScope conjunto explícito de permisos de edición sobre un usuario.
// Se deriva una vez del actor y se pasa a la función de update, en vez
// de ramificar por strings de rol dentro de la mutación.
type EditScope struct {
	Name     bool
	Role     bool
	Password bool
	Branch   bool
}

// ScopeFor retorna los campos que el actor puede editar sobre target.
// Admin y manager editan todo; el resto solo su propio nombre y clave.
func ScopeFor(actor, target *models.User) EditScope {
	if HasRole(actor, models.RoleAdmin, models.RoleManager) {
		return EditScope{Name: true, Role: true, Password: true, Branch: true}
	}
	if actor != nil && target != nil && actor.ID == target.ID {
		return EditScope{Name: true, Password: true}
	}
	return EditScope{}
}
