package checkout

import (
	"kal-storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// Quote adds the store delivery fee when the order goes out for delivery.
func Quote(subtotal decimal.Decimal, method domain.DeliveryMethod, fee decimal.Decimal) Totals {
	totals := Totals{Subtotal: subtotal, DeliveryFee: decimal.Zero, Total: subtotal}
	if method == domain.MethodDelivery && fee.IsPositive() {
		totals.DeliveryFee = fee
		totals.Total = subtotal.Add(fee)
	}
	return totals
}
