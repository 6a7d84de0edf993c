package services

import (
	"context"
	"encoding/json"
	"testing"

	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// budgetLister / vehicleLister mínimos para el snapshot.
type fakeBudgets struct{ budgets []*models.Budget }

func (f fakeBudgets) List(_ context.Context) ([]*models.Budget, error) { return f.budgets, nil }

type fakeVehicles struct{ vehicles []*models.Vehicle }

func (f fakeVehicles) List(_ context.Context) ([]*models.Vehicle, error) { return f.vehicles, nil }

func TestSnapshotEmptyCollectionsAreArrays(t *testing.T) {
	store := newMemStore()
	svc := NewExportService(store, store, store, store, store, fakeBudgets{}, fakeVehicles{}, zap.NewNop())

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"branches":[]`)
	assert.Contains(t, text, `"movements":[]`)
	assert.Contains(t, text, `"requests":[]`)
	assert.NotContains(t, text, "null")
}

func TestSnapshotIncludesAllCollections(t *testing.T) {
	store := newMemStore()
	store.addBranch(&models.Branch{ID: "BRN-main", Name: "Bodega Central"})
	store.addUser(&models.User{ID: "USR-admin", Name: "ana", Role: models.RoleAdmin})
	store.addItem(&models.Item{ID: "cement", BranchID: "BRN-main", NameEn: "Cement bag", BaseQty: 10})
	store.addRequest(&models.Request{ID: "REQ-1", ItemID: "cement", Qty: 1, FromBranchID: "BRN-main", ToBranchID: "BRN-north", Status: models.RequestPending})
	store.movements = append(store.movements, &models.Movement{ID: "MOV-1", ItemID: "cement", BranchID: "BRN-main", Type: models.MovementIn, Qty: 10})

	svc := NewExportService(store, store, store, store, store, fakeBudgets{}, fakeVehicles{}, zap.NewNop())

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Len(t, snapshot.Branches, 1)
	assert.Len(t, snapshot.Users, 1)
	assert.Len(t, snapshot.Items, 1)
	assert.Len(t, snapshot.Movements, 1)
	assert.Len(t, snapshot.Requests, 1)
	assert.Empty(t, snapshot.Budgets)
	assert.Empty(t, snapshot.Vehicles)
}
