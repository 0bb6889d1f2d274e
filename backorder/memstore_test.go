package backorder

import (
	"context"
	"sort"
	"sync"

	"bitbucket.org/mmdatafocus/backorder_backend/models"
	"bitbucket.org/mmdatafocus/backorder_backend/utils"
)

// memState is an in-memory database. Update works on a copy and swaps it in only
// when fn succeeds, which gives the same all-or-nothing behaviour as a transaction.
type memState struct {
	orders        map[int]models.Order
	lines         map[int]models.OrderLine
	purchaseLines map[int]models.PurchaseLine
	purchases     map[int]models.Purchase
	transfers     map[int]models.InventoryTransfer
	events        []models.TransferStatusChanged
}

func newMemState() *memState {
	return &memState{
		orders:        map[int]models.Order{},
		lines:         map[int]models.OrderLine{},
		purchaseLines: map[int]models.PurchaseLine{},
		purchases:     map[int]models.Purchase{},
		transfers:     map[int]models.InventoryTransfer{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = v
	}
	for k, v := range s.purchaseLines {
		c.purchaseLines[k] = v
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	c.events = append(c.events, s.events...)
	return c
}

type memStore struct {
	mu         sync.Mutex
	state      *memState
	failEvents error
	failList   error
}

func newMemStore() *memStore {
	return &memStore{state: newMemState()}
}

func (m *memStore) View(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, m.repos(m.state))
}

func (m *memStore) Update(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	work := m.state.clone()
	if err := fn(ctx, m.repos(work)); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memStore) repos(s *memState) Repositories {
	r := &memRepo{state: s, store: m}
	return Repositories{Lines: r, Purchases: r, Transfers: r, Events: r}
}

type memRepo struct {
	state *memState
	store *memStore
}

func (r *memRepo) GetOrderLine(ctx context.Context, id int) (*models.OrderLine, error) {
	l, ok := r.state.lines[id]
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	return &l, nil
}

func (r *memRepo) backorderLines(filter func(models.OrderLine) bool) ([]models.OrderLine, error) {
	if r.store.failList != nil {
		return nil, r.store.failList
	}
	var out []models.OrderLine
	for _, l := range r.state.lines {
		if !l.IsBackorder || r.state.orders[l.OrderId].CurrentStatus != models.OrderStatusOpen {
			continue
		}
		if filter(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) ListPendingPurchaseLines(ctx context.Context) ([]models.OrderLine, error) {
	return r.backorderLines(func(l models.OrderLine) bool { return l.PurchaseLineId == nil })
}

func (r *memRepo) ListBackorderLines(ctx context.Context) ([]models.OrderLine, error) {
	return r.backorderLines(func(models.OrderLine) bool { return true })
}

func (r *memRepo) ListOrders(ctx context.Context, ids []int) ([]models.Order, error) {
	var out []models.Order
	for _, id := range ids {
		if o, ok := r.state.orders[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memRepo) ListPurchaseLines(ctx context.Context, ids []int) ([]models.PurchaseLine, error) {
	var out []models.PurchaseLine
	for _, id := range ids {
		if pl, ok := r.state.purchaseLines[id]; ok {
			out = append(out, pl)
		}
	}
	return out, nil
}

func (r *memRepo) ListPurchases(ctx context.Context, ids []int) ([]models.Purchase, error) {
	var out []models.Purchase
	for _, id := range ids {
		if p, ok := r.state.purchases[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) ListTransfersForOrders(ctx context.Context, orderIds []int) ([]models.InventoryTransfer, error) {
	wanted := map[int]bool{}
	for _, id := range orderIds {
		wanted[id] = true
	}
	var out []models.InventoryTransfer
	for _, t := range r.state.transfers {
		if t.OrderId != nil && wanted[*t.OrderId] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memRepo) FindTransfers(ctx context.Context, orderId int, productVariantId int) ([]models.InventoryTransfer, error) {
	var out []models.InventoryTransfer
	for _, t := range r.state.transfers {
		if t.OrderId != nil && *t.OrderId == orderId && t.ProductVariantId == productVariantId {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memRepo) LockTransfer(ctx context.Context, id int) (*models.InventoryTransfer, error) {
	t, ok := r.state.transfers[id]
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	return &t, nil
}

func (r *memRepo) SaveTransferStatus(ctx context.Context, id int, status models.TransferStatus, notes string) error {
	t, ok := r.state.transfers[id]
	if !ok {
		return utils.ErrorRecordNotFound
	}
	t.CurrentStatus = status
	t.Notes = notes
	r.state.transfers[id] = t
	return nil
}

func (r *memRepo) TransferStatusChanged(ctx context.Context, event models.TransferStatusChanged) error {
	if r.store.failEvents != nil {
		return r.store.failEvents
	}
	r.state.events = append(r.state.events, event)
	return nil
}
