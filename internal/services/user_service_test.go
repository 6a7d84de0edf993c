package services

import (
	"context"
	"testing"
	"time"

	"inventory-service/internal/apperrors"
	"inventory-service/internal/auth"
	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newUserFixture(t *testing.T) (*memStore, UserService) {
	t.Helper()

	store := newMemStore()
	store.addBranch(&models.Branch{ID: "BRN-main", Name: "Bodega Central"})

	hash, err := auth.HashPassword("admin123", 4)
	require.NoError(t, err)
	store.addUser(&models.User{ID: "USR-admin", Name: "ana", Role: models.RoleAdmin, PasswordHash: hash})

	hash, err = auth.HashPassword("staff123", 4)
	require.NoError(t, err)
	store.addUser(&models.User{ID: "USR-staff", Name: "sofia", Role: models.RoleStaff, PasswordHash: hash, BranchID: strPtr("BRN-main")})

	svc := NewUserService(store, store, testSecret, time.Hour, 4, zap.NewNop())
	return store, svc
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("credenciales correctas emiten token", func(t *testing.T) {
		_, svc := newUserFixture(t)

		result, err := svc.Login(ctx, &models.LoginInput{Name: "ana", Password: "admin123"})
		require.NoError(t, err)
		assert.Equal(t, "USR-admin", result.User.ID)

		claims, err := auth.ParseToken(testSecret, result.Token)
		require.NoError(t, err)
		assert.Equal(t, "USR-admin", claims.UserID)
		assert.Equal(t, models.RoleAdmin, claims.Role)
	})

	t.Run("el nombre no distingue mayúsculas", func(t *testing.T) {
		_, svc := newUserFixture(t)

		result, err := svc.Login(ctx, &models.LoginInput{Name: "ANA", Password: "admin123"})
		require.NoError(t, err)
		assert.Equal(t, "USR-admin", result.User.ID)
	})

	t.Run("contraseña incorrecta", func(t *testing.T) {
		_, svc := newUserFixture(t)

		_, err := svc.Login(ctx, &models.LoginInput{Name: "ana", Password: "wrong"})
		assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	})

	t.Run("usuario inexistente responde igual que clave mala", func(t *testing.T) {
		_, svc := newUserFixture(t)

		_, err := svc.Login(ctx, &models.LoginInput{Name: "ghost", Password: "whatever"})
		assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	})
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("admin crea usuario con hash", func(t *testing.T) {
		store, svc := newUserFixture(t)

		user, err := svc.CreateUser(ctx, "USR-admin", &models.CreateUserInput{
			Name:     "diego",
			Role:     models.RoleDriver,
			Password: "driver123",
		})
		require.NoError(t, err)

		stored, _ := store.GetUserByID(ctx, user.ID)
		require.NotNil(t, stored)
		assert.NotEqual(t, "driver123", stored.PasswordHash)
		assert.True(t, auth.VerifyPassword("driver123", stored.PasswordHash))
	})

	t.Run("nombre duplicado es conflict", func(t *testing.T) {
		_, svc := newUserFixture(t)

		_, err := svc.CreateUser(ctx, "USR-admin", &models.CreateUserInput{
			Name:     "Sofia",
			Role:     models.RoleStaff,
			Password: "whatever1",
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("sucursal inexistente", func(t *testing.T) {
		_, svc := newUserFixture(t)

		_, err := svc.CreateUser(ctx, "USR-admin", &models.CreateUserInput{
			Name:     "nuevo",
			Role:     models.RoleStaff,
			Password: "whatever1",
			BranchID: strPtr("BRN-ghost"),
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("staff no crea usuarios", func(t *testing.T) {
		_, svc := newUserFixture(t)

		_, err := svc.CreateUser(ctx, "USR-staff", &models.CreateUserInput{
			Name:     "nuevo",
			Role:     models.RoleStaff,
			Password: "whatever1",
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("usuario edita su propio nombre y clave", func(t *testing.T) {
		store, svc := newUserFixture(t)

		updated, err := svc.UpdateUser(ctx, "USR-staff", "USR-staff", &models.UpdateUserInput{
			Name:     strPtr("sofia maria"),
			Password: strPtr("newpass1"),
		})
		require.NoError(t, err)
		assert.Equal(t, "sofia maria", updated.Name)

		stored, _ := store.GetUserByID(ctx, "USR-staff")
		assert.True(t, auth.VerifyPassword("newpass1", stored.PasswordHash))
	})

	t.Run("usuario no cambia su propio rol", func(t *testing.T) {
		_, svc := newUserFixture(t)

		_, err := svc.UpdateUser(ctx, "USR-staff", "USR-staff", &models.UpdateUserInput{
			Role: strPtr(models.RoleAdmin),
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("admin cambia rol y sucursal", func(t *testing.T) {
		_, svc := newUserFixture(t)

		updated, err := svc.UpdateUser(ctx, "USR-staff", "USR-admin", &models.UpdateUserInput{
			Role:     strPtr(models.RoleSupervisor),
			BranchID: strPtr("BRN-main"),
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleSupervisor, updated.Role)
	})

	t.Run("editar a otro sin rol es forbidden", func(t *testing.T) {
		_, svc := newUserFixture(t)

		_, err := svc.UpdateUser(ctx, "USR-admin", "USR-staff", &models.UpdateUserInput{
			Name: strPtr("hacked"),
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("admin elimina a otro", func(t *testing.T) {
		store, svc := newUserFixture(t)

		require.NoError(t, svc.DeleteUser(ctx, "USR-staff", "USR-admin"))

		stored, _ := store.GetUserByID(ctx, "USR-staff")
		assert.Nil(t, stored)
	})

	t.Run("admin no se elimina a sí mismo", func(t *testing.T) {
		_, svc := newUserFixture(t)

		err := svc.DeleteUser(ctx, "USR-admin", "USR-admin")
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("staff no elimina", func(t *testing.T) {
		_, svc := newUserFixture(t)

		err := svc.DeleteUser(ctx, "USR-admin", "USR-staff")
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})
}
