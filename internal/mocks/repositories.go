package mocks

import (
	"context"
	"time"

	"kal-storefront/internal/domain"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type CatalogRepository struct {
	mock.Mock
}

func NewCatalogRepository(t testingT) *CatalogRepository {
	m := &CatalogRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CatalogRepository) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	ret := _m.Called(ctx)
	var r0 []domain.CatalogItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.CatalogItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) GetItem(ctx context.Context, id string) (*domain.CatalogItem, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.CatalogItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.CatalogItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) SaveItem(ctx context.Context, item *domain.CatalogItem) (bool, error) {
	ret := _m.Called(ctx, item)
	return ret.Bool(0), ret.Error(1)
}

func (_m *CatalogRepository) DeleteItem(ctx context.Context, id string) (int64, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *CatalogRepository) UpdateItemImage(ctx context.Context, id, imageURL string) error {
	ret := _m.Called(ctx, id, imageURL)
	return ret.Error(0)
}

type SettingsRepository struct {
	mock.Mock
}

func NewSettingsRepository(t testingT) *SettingsRepository {
	m := &SettingsRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *SettingsRepository) GetSettings(ctx context.Context) (domain.StoreSettings, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(domain.StoreSettings), ret.Error(1)
}

func (_m *SettingsRepository) SaveSettings(ctx context.Context, settings domain.StoreSettings) error {
	ret := _m.Called(ctx, settings)
	return ret.Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t testingT) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	ret := _m.Called(ctx, order)
	return ret.Error(0)
}

func (_m *OrderRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	ret := _m.Called(ctx)
	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) LatestOrderForSession(ctx context.Context, sessionID string) (*domain.Order, error) {
	ret := _m.Called(ctx, sessionID)
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) error {
	ret := _m.Called(ctx, id, from, to, at)
	return ret.Error(0)
}

func (_m *OrderRepository) SaveQRCode(ctx context.Context, id string, qr []byte) error {
	ret := _m.Called(ctx, id, qr)
	return ret.Error(0)
}

func (_m *OrderRepository) GetQRCode(ctx context.Context, id string) ([]byte, error) {
	ret := _m.Called(ctx, id)
	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

type CartRepository struct {
	mock.Mock
}

func NewCartRepository(t testingT) *CartRepository {
	m := &CartRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CartRepository) LoadCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	ret := _m.Called(ctx, sessionID)
	var r0 *domain.Cart
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Cart)
	}
	return r0, ret.Error(1)
}

func (_m *CartRepository) SaveCart(ctx context.Context, cart *domain.Cart) error {
	ret := _m.Called(ctx, cart)
	return ret.Error(0)
}

func (_m *CartRepository) DeleteCart(ctx context.Context, sessionID string) error {
	ret := _m.Called(ctx, sessionID)
	return ret.Error(0)
}

type StatsStore struct {
	mock.Mock
}

func NewStatsStore(t testingT) *StatsStore {
	m := &StatsStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *StatsStore) RecordItems(ctx context.Context, lines []domain.EventLine) error {
	ret := _m.Called(ctx, lines)
	return ret.Error(0)
}

func (_m *StatsStore) RecordStatus(ctx context.Context, previous, current domain.OrderStatus) error {
	ret := _m.Called(ctx, previous, current)
	return ret.Error(0)
}

func (_m *StatsStore) TopItems(ctx context.Context, limit int) ([]domain.ItemPopularity, error) {
	ret := _m.Called(ctx, limit)
	var r0 []domain.ItemPopularity
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.ItemPopularity)
	}
	return r0, ret.Error(1)
}

func (_m *StatsStore) StatusCounts(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	ret := _m.Called(ctx)
	var r0 map[domain.OrderStatus]int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[domain.OrderStatus]int64)
	}
	return r0, ret.Error(1)
}
