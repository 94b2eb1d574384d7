// Package checkout holds the pure rules that gate order submission.
package checkout

import (
	"fmt"
	"sort"
	"strings"

	"kal-storefront/internal/domain"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrInvalidCheckout = errors.New("invalid checkout details")

type Problem string

const (
	ProblemMissing      Problem = "missing"
	ProblemUnparsable   Problem = "unparsable"
	ProblemInsufficient Problem = "insufficient"
	ProblemUnsupported  Problem = "unsupported"
)

// Result lists every invalid field of a checkout form. CartEmpty short-circuits
// field validation entirely.
type Result struct {
	CartEmpty bool                     `json:"cart_empty"`
	Problems  map[domain.Field]Problem `json:"problems"`
	ChangeFor decimal.NullDecimal      `json:"-"`
	Total     decimal.Decimal          `json:"-"`
}

func (r Result) Valid() bool {
	return !r.CartEmpty && len(r.Problems) == 0
}

func (r Result) Fields() []domain.Field {
	fields := make([]domain.Field, 0, len(r.Problems))
	for field := range r.Problems {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// BlockingMessage is shown before submission when the cash note does not cover the total.
func (r Result) BlockingMessage() string {
	if r.Problems[domain.FieldChangeFor] != ProblemInsufficient || !r.ChangeFor.Valid {
		return ""
	}
	return fmt.Sprintf("O valor para troco (R$ %s) deve ser maior que o total do pedido (R$ %s).",
		r.ChangeFor.Decimal.StringFixed(2), r.Total.StringFixed(2))
}

// Err returns nil for a valid result, otherwise an error wrapping ErrInvalidCheckout.
func (r Result) Err() error {
	if r.CartEmpty {
		return domain.ErrEmptyCart
	}
	if len(r.Problems) == 0 {
		return nil
	}
	parts := make([]string, 0, len(r.Problems))
	for _, field := range r.Fields() {
		parts = append(parts, string(field)+" "+string(r.Problems[field]))
	}
	return errors.Wrap(ErrInvalidCheckout, strings.Join(parts, ", "))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Validate checks details against the order total. It has no side effects and
// reports every failing rule at once.
func Validate(details domain.OrderDetails, total decimal.Decimal, cartNonEmpty bool) Result {
	result := Result{Problems: map[domain.Field]Problem{}, Total: total}
	if !cartNonEmpty {
		result.CartEmpty = true
		return result
	}

	for _, field := range []domain.Field{domain.FieldCustomerName, domain.FieldCustomerPhone} {
		if blank(details.FieldValue(field)) {
			result.Problems[field] = ProblemMissing
		}
	}

	if details.DeliveryMethod.Valid() {
		for _, field := range details.DeliveryMethod.RequiredFields() {
			if blank(details.FieldValue(field)) {
				result.Problems[field] = ProblemMissing
			}
		}
	} else {
		result.Problems[domain.FieldDeliveryMethod] = ProblemUnsupported
	}

	if !details.PaymentMethod.Valid() {
		result.Problems[domain.FieldPaymentMethod] = ProblemUnsupported
	} else if details.PaymentMethod.AcceptsChange() && details.NeedChange {
		paid, err := ParseAmount(details.ChangeFor)
		switch {
		case errors.Is(err, ErrEmptyAmount):
			result.Problems[domain.FieldChangeFor] = ProblemMissing
		case err != nil:
			result.Problems[domain.FieldChangeFor] = ProblemUnparsable
		default:
			result.ChangeFor = decimal.NewNullDecimal(paid)
			if paid.LessThan(total) {
				result.Problems[domain.FieldChangeFor] = ProblemInsufficient
			}
		}
	}

	return result
}
