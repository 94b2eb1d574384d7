package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"kal-storefront/internal/domain"

	"github.com/pkg/errors"
)

// MemoryStore implements every repository in process. It backs local runs
// without Postgres or Redis, and the HTTP tests.
type MemoryStore struct {
	mu       sync.RWMutex
	items    []domain.CatalogItem
	settings domain.StoreSettings
	orders   map[string]*storedOrder
	carts    map[string]domain.Cart
	sequence int64

	popularity map[string]*domain.ItemPopularity
	statuses   map[domain.OrderStatus]int64
}

type storedOrder struct {
	order domain.Order
	qr    []byte
	seq   int64
}

// NewMemoryStore returns a store seeded with the default menu and settings.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:      domain.DefaultMenu(),
		settings:   domain.DefaultSettings(),
		orders:     map[string]*storedOrder{},
		carts:      map[string]domain.Cart{},
		popularity: map[string]*domain.ItemPopularity{},
		statuses:   map[domain.OrderStatus]int64{},
	}
}

func (m *MemoryStore) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]domain.CatalogItem, len(m.items))
	copy(items, m.items)
	return items, nil
}

func (m *MemoryStore) GetItem(ctx context.Context, id string) (*domain.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (m *MemoryStore) SaveItem(ctx context.Context, item *domain.CatalogItem) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i] = *item
			return false, nil
		}
	}
	m.items = append(m.items, *item)
	return true, nil
}

func (m *MemoryStore) DeleteItem(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MemoryStore) UpdateItemImage(ctx context.Context, id, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].ImageURL = imageURL
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (m *MemoryStore) GetSettings(ctx context.Context) (domain.StoreSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

func (m *MemoryStore) SaveSettings(ctx context.Context, settings domain.StoreSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
	return nil
}

func (m *MemoryStore) LoadCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.carts[sessionID]
	if !ok {
		return domain.NewCart(sessionID), nil
	}
	cart := stored
	cart.Lines = stored.Snapshot()
	return &cart, nil
}

func (m *MemoryStore) SaveCart(ctx context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *cart
	stored.Lines = cart.Snapshot()
	m.carts[cart.SessionID] = stored
	return nil
}

func (m *MemoryStore) DeleteCart(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

func (m *MemoryStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.orders[order.ID]; exists {
		return errors.Wrapf(domain.ErrDuplicateOrder, "order %s", order.ID)
	}
	m.sequence++
	stored := *order
	stored.Items = make([]domain.CartLine, len(order.Items))
	copy(stored.Items, order.Items)
	m.orders[order.ID] = &storedOrder{order: stored, seq: m.sequence}
	return nil
}

func (m *MemoryStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return stored.snapshot(), nil
}

func (m *MemoryStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.sortedOrders()
	orders := make([]domain.Order, 0, len(stored))
	for _, entry := range stored {
		orders = append(orders, *entry.snapshot())
	}
	return orders, nil
}

func (m *MemoryStore) LatestOrderForSession(ctx context.Context, sessionID string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, entry := range m.sortedOrders() {
		if entry.order.SessionID == sessionID {
			return entry.snapshot(), nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (m *MemoryStore) UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if stored.order.Status != from {
		return errors.Wrapf(domain.ErrInvalidTransition, "order %s is no longer %s", id, from)
	}
	stored.order.Status = to
	stored.order.UpdatedAt = at
	return nil
}

func (m *MemoryStore) SaveQRCode(ctx context.Context, id string, qr []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	stored.qr = qr
	return nil
}

func (m *MemoryStore) GetQRCode(ctx context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return stored.qr, nil
}

func (m *MemoryStore) RecordItems(ctx context.Context, lines []domain.EventLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range lines {
		entry, ok := m.popularity[line.ItemID]
		if !ok {
			entry = &domain.ItemPopularity{ItemID: line.ItemID}
			m.popularity[line.ItemID] = entry
		}
		entry.Name = line.Name
		entry.Quantity += int64(line.Quantity)
	}
	return nil
}

func (m *MemoryStore) RecordStatus(ctx context.Context, previous, current domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if previous != "" {
		m.statuses[previous]--
	}
	m.statuses[current]++
	return nil
}

func (m *MemoryStore) TopItems(ctx context.Context, limit int) ([]domain.ItemPopularity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	top := make([]domain.ItemPopularity, 0, len(m.popularity))
	for _, entry := range m.popularity {
		top = append(top, *entry)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Quantity != top[j].Quantity {
			return top[i].Quantity > top[j].Quantity
		}
		return top[i].ItemID < top[j].ItemID
	})
	if limit >= 0 && len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

func (m *MemoryStore) StatusCounts(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[domain.OrderStatus]int64, len(m.statuses))
	for status, n := range m.statuses {
		counts[status] = n
	}
	return counts, nil
}

// sortedOrders returns orders newest first. Callers hold m.mu.
func (m *MemoryStore) sortedOrders() []*storedOrder {
	sorted := make([]*storedOrder, 0, len(m.orders))
	for _, entry := range m.orders {
		sorted = append(sorted, entry)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].seq > sorted[j].seq })
	return sorted
}

func (s *storedOrder) snapshot() *domain.Order {
	order := s.order
	order.Items = make([]domain.CartLine, len(s.order.Items))
	copy(order.Items, s.order.Items)
	return &order
}
