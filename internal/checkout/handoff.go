package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"kal-storefront/internal/domain"
)

const separator = "----------------------------------\n"

// HandoffMessage renders the order summary sent to the store over the messaging app.
func HandoffMessage(order *domain.Order) string {
	customer := order.Customer
	var b strings.Builder

	b.WriteString("*🔥 NOVO PEDIDO - KAL DO ESPETINHO 🔥*\n\n")
	fmt.Fprintf(&b, "*Pedido:* #%s\n", order.ID)
	fmt.Fprintf(&b, "*Cliente:* %s\n", customer.CustomerName)
	if customer.CustomerPhone != "" {
		fmt.Fprintf(&b, "*Telefone:* %s\n", customer.CustomerPhone)
	}
	if customer.DeliveryMethod == domain.MethodTable {
		fmt.Fprintf(&b, "*Tipo:* %s %s\n\n", customer.DeliveryMethod.Label(), customer.TableNumber)
	} else {
		fmt.Fprintf(&b, "*Tipo:* %s\n\n", customer.DeliveryMethod.Label())
	}

	b.WriteString("*🛒 ITENS DO PEDIDO:*\n")
	for _, line := range order.Items {
		fmt.Fprintf(&b, "▪️ %dx %s - R$ %s\n", line.Quantity, line.Item.Name, line.Total().StringFixed(2))
	}

	if order.DeliveryFee.Valid {
		fmt.Fprintf(&b, "\nSubtotal: R$ %s\n", order.Subtotal.StringFixed(2))
		fmt.Fprintf(&b, "Taxa de entrega: R$ %s\n", order.DeliveryFee.Decimal.StringFixed(2))
		fmt.Fprintf(&b, "*💰 TOTAL: R$ %s*\n", order.Total.StringFixed(2))
	} else {
		fmt.Fprintf(&b, "\n*💰 TOTAL: R$ %s*\n", order.Total.StringFixed(2))
	}
	b.WriteString(separator)

	if customer.DeliveryMethod == domain.MethodDelivery {
		address := customer.Address
		b.WriteString("*📍 ENDEREÇO DE ENTREGA:*\n")
		fmt.Fprintf(&b, "%s, %s\n", address.Street, address.Number)
		fmt.Fprintf(&b, "Bairro: %s\n", address.Neighborhood)
		if address.Complement != "" {
			fmt.Fprintf(&b, "Comp: %s\n", address.Complement)
		}
		b.WriteString(separator)
	}

	b.WriteString("*💳 FORMA DE PAGAMENTO:*\n")
	b.WriteString(customer.PaymentMethod.Label())
	if customer.PaymentMethod == domain.PayCash {
		if customer.NeedChange {
			paid, err := ParseAmount(customer.ChangeFor)
			if err == nil {
				fmt.Fprintf(&b, "\n⚠️ *Precisa de troco para:* R$ %s", paid.StringFixed(2))
				fmt.Fprintf(&b, "\n👉 *Levar de troco:* R$ %s", paid.Sub(order.Total).StringFixed(2))
			}
		} else {
			b.WriteString("\n(Não precisa de troco)")
		}
	}

	if strings.TrimSpace(customer.Observations) != "" {
		fmt.Fprintf(&b, "\n%s*📝 OBSERVAÇÕES:*\n%s", separator, customer.Observations)
	}
	return b.String()
}

// HandoffLink builds the wa.me deep link carrying message to number.
func HandoffLink(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + encoded
}
