package service

import (
	"context"
	"time"

	"kal-storefront/internal/domain"
)

type CatalogRepository interface {
	ListItems(ctx context.Context) ([]domain.CatalogItem, error)
	GetItem(ctx context.Context, id string) (*domain.CatalogItem, error)
	SaveItem(ctx context.Context, item *domain.CatalogItem) (bool, error)
	DeleteItem(ctx context.Context, id string) (int64, error)
	UpdateItemImage(ctx context.Context, id, imageURL string) error
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (domain.StoreSettings, error)
	SaveSettings(ctx context.Context, settings domain.StoreSettings) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	LatestOrderForSession(ctx context.Context, sessionID string) (*domain.Order, error)
	// UpdateOrderStatus moves the order from one status to another and fails
	// with domain.ErrInvalidTransition when the stored status is no longer from.
	UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) error
	SaveQRCode(ctx context.Context, id string, qr []byte) error
	GetQRCode(ctx context.Context, id string) ([]byte, error)
}

type CartRepository interface {
	LoadCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	SaveCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}

type StatsStore interface {
	RecordItems(ctx context.Context, lines []domain.EventLine) error
	RecordStatus(ctx context.Context, previous, current domain.OrderStatus) error
	TopItems(ctx context.Context, limit int) ([]domain.ItemPopularity, error)
	StatusCounts(ctx context.Context) (map[domain.OrderStatus]int64, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type Notifier interface {
	NotifyOrder(ctx context.Context, webhookURL string, order *domain.Order) error
}

type Completer interface {
	Complete(ctx context.Context, systemInstruction, message string) (string, error)
}

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

type TaskRunner interface {
	Submit(task Task) bool
}

type CartServiceInterface interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Add(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, sessionID, itemID string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, delta int) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type OrderServiceInterface interface {
	Preview(ctx context.Context, sessionID string, details domain.OrderDetails) (*Preview, error)
	Checkout(ctx context.Context, sessionID string, details domain.OrderDetails) (*Receipt, error)
	Transition(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Current(ctx context.Context, sessionID string) (*domain.Order, error)
	QRCode(ctx context.Context, id string) ([]byte, error)
}

type CatalogServiceInterface interface {
	List(ctx context.Context, category domain.Category) ([]domain.CatalogItem, error)
	Highlights(ctx context.Context) ([]domain.CatalogItem, error)
	Get(ctx context.Context, id string) (*domain.CatalogItem, error)
	Save(ctx context.Context, item *domain.CatalogItem) (bool, error)
	Delete(ctx context.Context, id string) error
	UpdateImage(ctx context.Context, id, imageURL string) error
}

type SettingsServiceInterface interface {
	Get(ctx context.Context) (domain.StoreSettings, error)
	Public(ctx context.Context) (domain.PublicSettings, error)
	Update(ctx context.Context, settings domain.StoreSettings) (domain.StoreSettings, error)
}

type AssistantServiceInterface interface {
	Ask(ctx context.Context, message string) (Reply, error)
}

type StatsServiceInterface interface {
	Stats(ctx context.Context) (*domain.OrderStats, error)
}
