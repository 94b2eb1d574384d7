package checkout

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyAmount      = errors.New("amount is empty")
	ErrUnparsableAmount = errors.New("amount is not a number")
)

// ParseAmount reads a currency amount typed by a customer. Anything other than
// digits, '.' and ',' is dropped; the last separator is the decimal point and
// earlier ones are treated as grouping ("R$ 1.234,56" -> 1234.56).
func ParseAmount(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	var digits strings.Builder
	lastSep := -1
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '.' || r == ',':
			lastSep = digits.Len()
		}
	}
	cleaned := digits.String()
	if cleaned == "" {
		return decimal.Zero, errors.Wrapf(ErrUnparsableAmount, "%q", raw)
	}
	if lastSep >= 0 && lastSep < len(cleaned) {
		whole := cleaned[:lastSep]
		if whole == "" {
			whole = "0"
		}
		cleaned = whole + "." + cleaned[lastSep:]
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrUnparsableAmount, "%q", raw)
	}
	return amount, nil
}

// ChangeDue is the change to bring when the customer pays changeFor.
func ChangeDue(changeFor string, total decimal.Decimal) (decimal.Decimal, error) {
	paid, err := ParseAmount(changeFor)
	if err != nil {
		return decimal.Zero, err
	}
	return paid.Sub(total), nil
}
