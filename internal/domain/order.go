package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart         = errors.New("cannot place an order with an empty cart")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrUnknownStatus     = errors.New("unknown order status")
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusFinished  OrderStatus = "finished"
	StatusCanceled  OrderStatus = "canceled"
)

var OrderStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusFinished, StatusCanceled}

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPreparing, StatusCanceled},
	StatusPreparing: {StatusReady, StatusCanceled},
	StatusReady:     {StatusFinished, StatusCanceled},
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusFinished || s == StatusCanceled
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	Complement   string `json:"complement"`
}

type OrderDetails struct {
	CustomerName   string         `json:"customer_name"`
	CustomerPhone  string         `json:"customer_phone"`
	DeliveryMethod DeliveryMethod `json:"delivery_method"`
	TableNumber    string         `json:"table_number"`
	Address        Address        `json:"address"`
	PaymentMethod  PaymentMethod  `json:"payment_method"`
	NeedChange     bool           `json:"need_change"`
	ChangeFor      string         `json:"change_for"`
	Observations   string         `json:"observations"`
}

// Order is immutable after placement except for Status and UpdatedAt.
type Order struct {
	ID          string              `json:"id"`
	SessionID   string              `json:"-"`
	Customer    OrderDetails        `json:"customer"`
	Items       []CartLine          `json:"items"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	DeliveryFee decimal.NullDecimal `json:"delivery_fee"`
	Total       decimal.Decimal     `json:"total"`
	Status      OrderStatus         `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func NewOrder(id, sessionID string, details OrderDetails, lines []CartLine, deliveryFee decimal.Decimal, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]CartLine, len(lines))
	copy(items, lines)

	subtotal := decimal.Zero
	for _, line := range items {
		subtotal = subtotal.Add(line.Total())
	}

	order := &Order{
		ID:        id,
		SessionID: sessionID,
		Customer:  details,
		Items:     items,
		Subtotal:  subtotal,
		Total:     subtotal,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if details.DeliveryMethod == MethodDelivery && deliveryFee.IsPositive() {
		order.DeliveryFee = decimal.NewNullDecimal(deliveryFee)
		order.Total = subtotal.Add(deliveryFee)
	}
	return order, nil
}

// Transition replaces the status when the move is allowed by the transition table.
func (o *Order) Transition(to OrderStatus, now time.Time) error {
	if !to.Valid() {
		return errors.Wrapf(ErrUnknownStatus, "status %q", to)
	}
	if !CanTransition(o.Status, to) {
		return errors.Wrapf(ErrInvalidTransition, "%s -> %s", o.Status, to)
	}
	o.Status = to
	o.UpdatedAt = now
	return nil
}

func (o *Order) Event(eventType string, previous OrderStatus, at time.Time) OrderEvent {
	lines := make([]EventLine, 0, len(o.Items))
	for _, line := range o.Items {
		lines = append(lines, EventLine{ItemID: line.Item.ID, Name: line.Item.Name, Quantity: line.Quantity})
	}
	return OrderEvent{
		Type:           eventType,
		OrderID:        o.ID,
		Status:         o.Status,
		PreviousStatus: previous,
		Lines:          lines,
		Total:          o.Total,
		Timestamp:      at,
	}
}
