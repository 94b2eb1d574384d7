package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategorySkewers  Category = "Espetinhos Premium"
	CategoryPortions Category = "Porções Especiais"
	CategoryDrinks   Category = "Bebidas Geladas"
	CategorySides    Category = "Acompanhamentos"
)

var Categories = []Category{CategorySkewers, CategoryPortions, CategoryDrinks, CategorySides}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type CatalogItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	ImageURL    string          `json:"image_url"`
	Popular     bool            `json:"popular"`
}

type MenuLayout string

const (
	LayoutStandard MenuLayout = "standard"
	LayoutMinimal  MenuLayout = "minimal"
)

func (l MenuLayout) Valid() bool {
	return l == LayoutStandard || l == LayoutMinimal
}

type StoreSettings struct {
	ContactNumber        string          `json:"contact_number"`
	PaymentKey           string          `json:"payment_key"`
	MenuLayout           MenuLayout      `json:"menu_layout"`
	DeliveryFee          decimal.Decimal `json:"delivery_fee"`
	AssistantInstruction string          `json:"assistant_instruction"`
	WebhookURL           string          `json:"webhook_url"`
}

// PublicSettings is the subset of StoreSettings a customer may read.
type PublicSettings struct {
	ContactNumber string          `json:"contact_number"`
	PaymentKey    string          `json:"payment_key"`
	MenuLayout    MenuLayout      `json:"menu_layout"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
}

func (s StoreSettings) Public() PublicSettings {
	return PublicSettings{
		ContactNumber: s.ContactNumber,
		PaymentKey:    s.PaymentKey,
		MenuLayout:    s.MenuLayout,
		DeliveryFee:   s.DeliveryFee,
	}
}

const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
)

type EventLine struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type OrderEvent struct {
	Type           string          `json:"type"`
	OrderID        string          `json:"order_id"`
	Status         OrderStatus     `json:"status"`
	PreviousStatus OrderStatus     `json:"previous_status,omitempty"`
	Lines          []EventLine     `json:"lines,omitempty"`
	Total          decimal.Decimal `json:"total"`
	Timestamp      time.Time       `json:"timestamp"`
}

type ItemPopularity struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

type OrderStats struct {
	OrdersByStatus map[OrderStatus]int64 `json:"orders_by_status"`
	TopItems       []ItemPopularity      `json:"top_items"`
	CatalogSize    int                   `json:"catalog_size"`
}
