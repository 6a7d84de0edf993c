package auth

import (
	"testing"

	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestHasRole(t *testing.T) {
	admin := &models.User{ID: "USR-1", Role: models.RoleAdmin}
	driver := &models.User{ID: "USR-2", Role: models.RoleDriver}

	assert.True(t, HasRole(admin, models.RoleAdmin))
	assert.True(t, HasRole(admin, models.RoleAdmin, models.RoleManager))
	assert.False(t, HasRole(driver, models.RoleAdmin, models.RoleManager))
	assert.False(t, HasRole(nil, models.RoleAdmin))
	assert.False(t, HasRole(admin))
}

func TestScopeFor(t *testing.T) {
	admin := &models.User{ID: "USR-1", Role: models.RoleAdmin}
	manager := &models.User{ID: "USR-2", Role: models.RoleManager}
	staff := &models.User{ID: "USR-3", Role: models.RoleStaff}
	other := &models.User{ID: "USR-4", Role: models.RoleStaff}

	t.Run("admin y manager editan todo", func(t *testing.T) {
		full := EditScope{Name: true, Role: true, Password: true, Branch: true}
		assert.Equal(t, full, ScopeFor(admin, staff))
		assert.Equal(t, full, ScopeFor(manager, staff))
	})

	t.Run("el propio usuario solo nombre y clave", func(t *testing.T) {
		scope := ScopeFor(staff, staff)
		assert.True(t, scope.Name)
		assert.True(t, scope.Password)
		assert.False(t, scope.Role)
		assert.False(t, scope.Branch)
	})

	t.Run("terceros no editan nada", func(t *testing.T) {
		assert.Equal(t, EditScope{}, ScopeFor(staff, other))
		assert.Equal(t, EditScope{}, ScopeFor(nil, other))
	})
}
