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

func newStockFixture(t *testing.T) (*memStore, *fakeCache, StockService) {
	t.Helper()

	store := newMemStore()
	store.addBranch(&models.Branch{ID: "BRN-main", Name: "Bodega Central"})
	store.addUser(&models.User{ID: "USR-admin", Name: "ana", Role: models.RoleAdmin})
	store.addUser(&models.User{ID: "USR-staff", Name: "sofia", Role: models.RoleStaff, BranchID: strPtr("BRN-main")})
	store.addItem(&models.Item{ID: "paint", BranchID: "BRN-main", NameEn: "Paint bucket", MinQty: 3, BaseQty: 8})

	cache := &fakeCache{}
	svc := NewStockService(store, store, store, store, cache, zap.NewNop())
	return store, cache, svc
}

func TestRegisterMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("entrada incrementa y queda en el libro", func(t *testing.T) {
		store, cache, svc := newStockFixture(t)

		movement, item, err := svc.RegisterMovement(ctx, "USR-admin", &models.MovementInput{
			ItemID:   "paint",
			BranchID: "BRN-main",
			Type:     models.MovementIn,
			Qty:      4,
			Note:     "compra a proveedor",
		})
		require.NoError(t, err)

		assert.Equal(t, 12, item.BaseQty)
		assert.Equal(t, models.MovementIn, movement.Type)
		assert.Equal(t, "USR-admin", movement.UserID)
		assert.Len(t, store.movements, 1)
		assert.Contains(t, cache.invalidated, itemKey("paint", "BRN-main"))
	})

	t.Run("salida descuenta", func(t *testing.T) {
		store, _, svc := newStockFixture(t)

		_, item, err := svc.RegisterMovement(ctx, "USR-admin", &models.MovementInput{
			ItemID:   "paint",
			BranchID: "BRN-main",
			Type:     models.MovementOut,
			Qty:      8,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, item.BaseQty)

		stored, _ := store.GetItem(ctx, "paint", "BRN-main")
		assert.Equal(t, 0, stored.BaseQty)
	})

	t.Run("salida mayor al stock se rechaza completa", func(t *testing.T) {
		store, _, svc := newStockFixture(t)

		_, _, err := svc.RegisterMovement(ctx, "USR-admin", &models.MovementInput{
			ItemID:   "paint",
			BranchID: "BRN-main",
			Type:     models.MovementOut,
			Qty:      9,
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindInsufficientStock))

		// Ni stock ni libro cambiaron
		stored, _ := store.GetItem(ctx, "paint", "BRN-main")
		assert.Equal(t, 8, stored.BaseQty)
		assert.Empty(t, store.movements)
	})

	t.Run("staff no registra movimientos directos", func(t *testing.T) {
		_, _, svc := newStockFixture(t)

		_, _, err := svc.RegisterMovement(ctx, "USR-staff", &models.MovementInput{
			ItemID:   "paint",
			BranchID: "BRN-main",
			Type:     models.MovementIn,
			Qty:      1,
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("articulo inexistente", func(t *testing.T) {
		_, _, svc := newStockFixture(t)

		_, _, err := svc.RegisterMovement(ctx, "USR-admin", &models.MovementInput{
			ItemID:   "ghost",
			BranchID: "BRN-main",
			Type:     models.MovementIn,
			Qty:      1,
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestGetStock(t *testing.T) {
	ctx := context.Background()

	t.Run("consulta existente", func(t *testing.T) {
		_, _, svc := newStockFixture(t)

		item, err := svc.GetStock(ctx, "paint", "BRN-main")
		require.NoError(t, err)
		assert.Equal(t, 8, item.BaseQty)
	})

	t.Run("registro inexistente es not found", func(t *testing.T) {
		_, _, svc := newStockFixture(t)

		_, err := svc.GetStock(ctx, "paint", "BRN-ghost")
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestListLowStock(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newStockFixture(t)

	store.addItem(&models.Item{ID: "nails", BranchID: "BRN-main", NameEn: "Nails box", MinQty: 5, BaseQty: 5})
	store.addItem(&models.Item{ID: "glue", BranchID: "BRN-main", NameEn: "Glue", MinQty: 2, BaseQty: 1})

	low, err := svc.ListLowStock(ctx, "BRN-main")
	require.NoError(t, err)

	ids := make([]string, 0, len(low))
	for _, item := range low {
		ids = append(ids, item.ID)
	}
	assert.ElementsMatch(t, []string{"nails", "glue"}, ids, "bajo mínimo incluye la igualdad")
}

func TestListMovementsFilter(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newStockFixture(t)

	store.movements = []*models.Movement{
		{ID: "MOV-1", ItemID: "paint", BranchID: "BRN-main", Type: models.MovementIn, Qty: 1},
		{ID: "MOV-2", ItemID: "paint", BranchID: "BRN-main", Type: models.MovementOut, Qty: 1},
		{ID: "MOV-3", ItemID: "paint", BranchID: "BRN-north", Type: models.MovementIn, Qty: 1},
	}

	branch := "BRN-main"
	kind := models.MovementIn
	movements, err := svc.ListMovements(ctx, &models.MovementFilter{BranchID: &branch, Type: &kind})
	require.NoError(t, err)

	require.Len(t, movements, 1)
	assert.Equal(t, "MOV-1", movements[0].ID)
}
