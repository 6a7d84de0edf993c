package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"github.com/lib/pq"
)

// memStore implementación en memoria de los repositories, con la misma
// semántica transaccional que la versión Postgres: RunTransfer trabaja
// sobre una copia y solo publica los cambios si fn no falla.
type memStore struct {
	mu        sync.Mutex
	users     map[string]*models.User
	branches  map[string]*models.Branch
	items     map[string]*models.Item
	requests  map[string]*models.Request
	movements []*models.Movement
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*models.User),
		branches: make(map[string]*models.Branch),
		items:    make(map[string]*models.Item),
		requests: make(map[string]*models.Request),
	}
}

func itemKey(id, branchID string) string {
	return id + "|" + branchID
}

func (m *memStore) addUser(u *models.User) *models.User {
	m.users[u.ID] = u
	return u
}

func (m *memStore) addBranch(b *models.Branch) *models.Branch {
	m.branches[b.ID] = b
	return b
}

func (m *memStore) addItem(i *models.Item) *models.Item {
	m.items[itemKey(i.ID, i.BranchID)] = i
	return i
}

func (m *memStore) addRequest(r *models.Request) *models.Request {
	m.requests[r.ID] = r
	return r
}

// --- UserRepository ---

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	for _, existing := range m.users {
		if strings.EqualFold(existing.Name, user.Name) {
			return errDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return m.users[id], nil
}

func (m *memStore) GetUserByName(_ context.Context, name string) (*models.User, error) {
	for _, user := range m.users {
		if strings.EqualFold(user.Name, name) {
			return user, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, user := range m.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateUser(_ context.Context, user *models.User) error {
	for _, existing := range m.users {
		if existing.ID != user.ID && strings.EqualFold(existing.Name, user.Name) {
			return errDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

// --- BranchRepository ---

func (m *memStore) CreateBranch(_ context.Context, branch *models.Branch) error {
	m.branches[branch.ID] = branch
	return nil
}

func (m *memStore) GetBranchByID(_ context.Context, id string) (*models.Branch, error) {
	return m.branches[id], nil
}

func (m *memStore) ListBranches(_ context.Context) ([]*models.Branch, error) {
	var out []*models.Branch
	for _, branch := range m.branches {
		out = append(out, branch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateBranch(_ context.Context, branch *models.Branch) error {
	m.branches[branch.ID] = branch
	return nil
}

func (m *memStore) DeleteBranch(_ context.Context, id string) error {
	delete(m.branches, id)
	return nil
}

// --- ItemRepository ---

func (m *memStore) CreateItem(_ context.Context, item *models.Item) error {
	key := itemKey(item.ID, item.BranchID)
	if _, ok := m.items[key]; ok {
		return errDuplicate
	}
	m.items[key] = item
	return nil
}

func (m *memStore) GetItem(_ context.Context, id, branchID string) (*models.Item, error) {
	return m.items[itemKey(id, branchID)], nil
}

func (m *memStore) ListItemsByBranch(_ context.Context, branchID string) ([]*models.Item, error) {
	var out []*models.Item
	for _, item := range m.items {
		if item.BranchID == branchID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memStore) ListLowStock(_ context.Context, branchID string) ([]*models.Item, error) {
	var out []*models.Item
	for _, item := range m.items {
		if item.BranchID == branchID && item.BaseQty <= item.MinQty {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memStore) UpdateItemMeta(_ context.Context, item *models.Item) error {
	m.items[itemKey(item.ID, item.BranchID)] = item
	return nil
}

func (m *memStore) DeleteItem(_ context.Context, id, branchID string) error {
	delete(m.items, itemKey(id, branchID))
	return nil
}

func (m *memStore) ListAllItems(_ context.Context) ([]*models.Item, error) {
	var out []*models.Item
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

// --- MovementRepository ---

func (m *memStore) CreateMovement(_ context.Context, movement *models.Movement) error {
	m.movements = append(m.movements, movement)
	return nil
}

func (m *memStore) ListMovements(_ context.Context, filter *models.MovementFilter) ([]*models.Movement, error) {
	var out []*models.Movement
	for _, mv := range m.movements {
		if filter != nil {
			if filter.BranchID != nil && mv.BranchID != *filter.BranchID {
				continue
			}
			if filter.ItemID != nil && mv.ItemID != *filter.ItemID {
				continue
			}
			if filter.Type != nil && mv.Type != *filter.Type {
				continue
			}
		}
		out = append(out, mv)
	}
	return out, nil
}

// --- RequestRepository ---

func (m *memStore) CreateRequest(_ context.Context, request *models.Request) error {
	m.requests[request.ID] = request
	return nil
}

func (m *memStore) GetRequestByID(_ context.Context, id string) (*models.Request, error) {
	return m.requests[id], nil
}

func (m *memStore) ListRequestsByStatus(_ context.Context, status string) ([]*models.Request, error) {
	var out []*models.Request
	for _, r := range m.requests {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListRequestsByBranch(_ context.Context, branchID string) ([]*models.Request, error) {
	var out []*models.Request
	for _, r := range m.requests {
		if r.ToBranchID == branchID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListAllRequests(_ context.Context) ([]*models.Request, error) {
	var out []*models.Request
	for _, r := range m.requests {
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) UpdateRequest(_ context.Context, request *models.Request) error {
	m.requests[request.ID] = request
	return nil
}

func (m *memStore) DeleteRequest(_ context.Context, id string) error {
	delete(m.requests, id)
	return nil
}

// --- TransferRunner ---

// RunTransfer clona el estado, ejecuta fn sobre la copia y publica los
// cambios solo en commit, igual que la transacción real. El mutex
// cumple el papel del SELECT ... FOR UPDATE: dos transferencias sobre
// el mismo store se serializan.
func (m *memStore) RunTransfer(_ context.Context, fn func(tx repository.TransferTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		items:    make(map[string]*models.Item, len(m.items)),
		requests: make(map[string]*models.Request, len(m.requests)),
	}
	for k, v := range m.items {
		clone := *v
		tx.items[k] = &clone
	}
	for k, v := range m.requests {
		clone := *v
		tx.requests[k] = &clone
	}

	if err := fn(tx); err != nil {
		return err
	}

	m.items = tx.items
	m.requests = tx.requests
	m.movements = append(m.movements, tx.movements...)
	return nil
}

type memTx struct {
	items     map[string]*models.Item
	requests  map[string]*models.Request
	movements []*models.Movement
}

func (t *memTx) GetItemForUpdate(_ context.Context, id, branchID string) (*models.Item, error) {
	return t.items[itemKey(id, branchID)], nil
}

func (t *memTx) CreateItem(_ context.Context, item *models.Item) error {
	key := itemKey(item.ID, item.BranchID)
	if _, ok := t.items[key]; ok {
		return errDuplicate
	}
	t.items[key] = item
	return nil
}

func (t *memTx) SetItemQty(_ context.Context, id, branchID string, qty int) error {
	item, ok := t.items[itemKey(id, branchID)]
	if !ok {
		return fmt.Errorf("no item record found for %s in branch %s", id, branchID)
	}
	item.BaseQty = qty
	return nil
}

func (t *memTx) AppendMovement(_ context.Context, movement *models.Movement) error {
	t.movements = append(t.movements, movement)
	return nil
}

func (t *memTx) SaveRequest(_ context.Context, request *models.Request) error {
	current, ok := t.requests[request.ID]
	if !ok {
		return fmt.Errorf("no request record found for id %s", request.ID)
	}
	// Misma transición condicional que el UPDATE real: una solicitud
	// ya entregada no admite otra escritura.
	if current.Status == models.RequestDelivered {
		return repository.ErrRequestClosed
	}
	clone := *request
	t.requests[request.ID] = &clone
	return nil
}

// errDuplicate imita la violación de unicidad que reporta Postgres,
// para que IsUniqueViolation lo reconozca igual que en producción.
var errDuplicate = &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}

// fakeCache implementa StockCache y registra las invalidaciones.
type fakeCache struct {
	invalidated []string
}

func (f *fakeCache) GetItem(_ context.Context, _, _ string) *models.Item { return nil }

func (f *fakeCache) SetItem(_ context.Context, _ *models.Item) error { return nil }

func (f *fakeCache) InvalidateItem(_ context.Context, itemID, branchID string) error {
	f.invalidated = append(f.invalidated, itemKey(itemID, branchID))
	return nil
}
