package domain

// Field identifies a checkout form field that can fail validation.
type Field string

const (
	FieldCustomerName   Field = "customer_name"
	FieldCustomerPhone  Field = "customer_phone"
	FieldDeliveryMethod Field = "delivery_method"
	FieldTableNumber    Field = "table_number"
	FieldStreet         Field = "address.street"
	FieldNumber         Field = "address.number"
	FieldNeighborhood   Field = "address.neighborhood"
	FieldPaymentMethod  Field = "payment_method"
	FieldChangeFor      Field = "change_for"
)

type DeliveryMethod string

const (
	MethodTable    DeliveryMethod = "table"
	MethodDelivery DeliveryMethod = "delivery"
	MethodPickup   DeliveryMethod = "pickup"
)

func (m DeliveryMethod) Valid() bool {
	switch m {
	case MethodTable, MethodDelivery, MethodPickup:
		return true
	}
	return false
}

// RequiredFields lists the fields that only this method makes mandatory.
func (m DeliveryMethod) RequiredFields() []Field {
	switch m {
	case MethodTable:
		return []Field{FieldTableNumber}
	case MethodDelivery:
		return []Field{FieldStreet, FieldNumber, FieldNeighborhood}
	}
	return nil
}

func (m DeliveryMethod) Label() string {
	switch m {
	case MethodTable:
		return "🍽️ Mesa"
	case MethodDelivery:
		return "🛵 Entrega"
	case MethodPickup:
		return "🏪 Retirada no Local"
	}
	return string(m)
}

type PaymentMethod string

const (
	PayPix        PaymentMethod = "pix"
	PayCreditCard PaymentMethod = "credit_card"
	PayDebitCard  PaymentMethod = "debit_card"
	PayCash       PaymentMethod = "cash"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PayPix, PayCreditCard, PayDebitCard, PayCash:
		return true
	}
	return false
}

// AcceptsChange reports whether a change-for amount is meaningful.
func (p PaymentMethod) AcceptsChange() bool {
	return p == PayCash
}

func (p PaymentMethod) Label() string {
	switch p {
	case PayPix:
		return "✅ PIX"
	case PayCreditCard:
		return "💳 Cartão de Crédito"
	case PayDebitCard:
		return "💳 Cartão de Débito"
	case PayCash:
		return "💵 Dinheiro"
	}
	return string(p)
}

// FieldValue returns the raw form value for a field of d.
func (d OrderDetails) FieldValue(f Field) string {
	switch f {
	case FieldCustomerName:
		return d.CustomerName
	case FieldCustomerPhone:
		return d.CustomerPhone
	case FieldTableNumber:
		return d.TableNumber
	case FieldStreet:
		return d.Address.Street
	case FieldNumber:
		return d.Address.Number
	case FieldNeighborhood:
		return d.Address.Neighborhood
	case FieldChangeFor:
		return d.ChangeFor
	case FieldDeliveryMethod:
		return string(d.DeliveryMethod)
	case FieldPaymentMethod:
		return string(d.PaymentMethod)
	}
	return ""
}
