package services

import (
	"context"
	"testing"

	"inventory-service/internal/apperrors"
	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogFixture(t *testing.T) (*memStore, *fakeCache, CatalogService) {
	t.Helper()

	store := newMemStore()
	store.addBranch(&models.Branch{ID: "BRN-main", Name: "Bodega Central"})
	store.addUser(&models.User{ID: "USR-admin", Name: "ana", Role: models.RoleAdmin})
	store.addUser(&models.User{ID: "USR-staff", Name: "sofia", Role: models.RoleStaff, BranchID: strPtr("BRN-main")})

	cache := &fakeCache{}
	svc := NewCatalogService(store, store, store, cache, "BRN-main", zap.NewNop())
	return store, cache, svc
}

func TestBranchCRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("admin crea y renombra", func(t *testing.T) {
		_, _, svc := newCatalogFixture(t)

		branch, err := svc.CreateBranch(ctx, "USR-admin", &models.BranchInput{Name: "Sucursal Sur"})
		require.NoError(t, err)
		assert.NotEmpty(t, branch.ID)

		renamed, err := svc.UpdateBranch(ctx, branch.ID, "USR-admin", &models.BranchInput{Name: "Sucursal Sureste"})
		require.NoError(t, err)
		assert.Equal(t, "Sucursal Sureste", renamed.Name)
	})

	t.Run("staff no administra sucursales", func(t *testing.T) {
		_, _, svc := newCatalogFixture(t)

		_, err := svc.CreateBranch(ctx, "USR-staff", &models.BranchInput{Name: "Pirata"})
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("la bodega central no se elimina", func(t *testing.T) {
		_, _, svc := newCatalogFixture(t)

		err := svc.DeleteBranch(ctx, "BRN-main", "USR-admin")
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestItemCRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("crear y editar metadata", func(t *testing.T) {
		_, cache, svc := newCatalogFixture(t)

		item, err := svc.CreateItem(ctx, "USR-admin", &models.ItemInput{
			ID:       "cement",
			BranchID: "BRN-main",
			NameEn:   "Cement bag",
			MinQty:   2,
			BaseQty:  10,
			UnitCost: 4.5,
		})
		require.NoError(t, err)
		assert.Equal(t, 10, item.BaseQty)

		updated, err := svc.UpdateItem(ctx, "cement", "BRN-main", "USR-admin", &models.UpdateItemInput{
			NameEn: strPtr("Cement bag 25kg"),
			MinQty: intPtr(4),
		})
		require.NoError(t, err)
		assert.Equal(t, "Cement bag 25kg", updated.NameEn)
		assert.Equal(t, 4, updated.MinQty)
		assert.Equal(t, 10, updated.BaseQty, "la cantidad no se edita por catálogo")
		assert.Contains(t, cache.invalidated, itemKey("cement", "BRN-main"))
	})

	t.Run("duplicado en la misma sucursal es conflict", func(t *testing.T) {
		_, _, svc := newCatalogFixture(t)

		input := &models.ItemInput{ID: "cement", BranchID: "BRN-main", NameEn: "Cement bag"}
		_, err := svc.CreateItem(ctx, "USR-admin", input)
		require.NoError(t, err)

		_, err = svc.CreateItem(ctx, "USR-admin", input)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("sucursal inexistente", func(t *testing.T) {
		_, _, svc := newCatalogFixture(t)

		_, err := svc.CreateItem(ctx, "USR-admin", &models.ItemInput{
			ID: "cement", BranchID: "BRN-ghost", NameEn: "Cement bag",
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("mismo id en otra sucursal convive", func(t *testing.T) {
		_, _, svc := newCatalogFixture(t)

		_, err := svc.CreateBranch(ctx, "USR-admin", &models.BranchInput{Name: "Norte"})
		require.NoError(t, err)
		branches, err := svc.ListBranches(ctx)
		require.NoError(t, err)
		require.Len(t, branches, 2)

		var north string
		for _, b := range branches {
			if b.ID != "BRN-main" {
				north = b.ID
			}
		}

		_, err = svc.CreateItem(ctx, "USR-admin", &models.ItemInput{ID: "cement", BranchID: "BRN-main", NameEn: "Cement bag"})
		require.NoError(t, err)
		_, err = svc.CreateItem(ctx, "USR-admin", &models.ItemInput{ID: "cement", BranchID: north, NameEn: "Cement bag"})
		require.NoError(t, err)
	})
}

func intPtr(n int) *int { return &n }
