package checkout

import (
	"testing"

	"kal-storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	subtotal := decimal.RequireFromString("45.00")
	fee := decimal.RequireFromString("5")

	testCases := []struct {
		name      string
		method    domain.DeliveryMethod
		fee       decimal.Decimal
		wantFee   string
		wantTotal string
	}{
		{name: "delivery adds fee", method: domain.MethodDelivery, fee: fee, wantFee: "5", wantTotal: "50"},
		{name: "table has no fee", method: domain.MethodTable, fee: fee, wantFee: "0", wantTotal: "45"},
		{name: "pickup has no fee", method: domain.MethodPickup, fee: fee, wantFee: "0", wantTotal: "45"},
		{name: "zero fee", method: domain.MethodDelivery, fee: decimal.Zero, wantFee: "0", wantTotal: "45"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			totals := Quote(subtotal, testCase.method, testCase.fee)
			assert.True(t, decimal.RequireFromString(testCase.wantFee).Equal(totals.DeliveryFee))
			assert.True(t, decimal.RequireFromString(testCase.wantTotal).Equal(totals.Total))
			assert.True(t, subtotal.Equal(totals.Subtotal))
		})
	}
}
