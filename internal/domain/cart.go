package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartLine struct {
	Item     CatalogItem `json:"item"`
	Quantity int         `json:"quantity"`
}

func (l CartLine) Total() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds at most one line per item id and never a line with quantity below 1.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewCart(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Lines: []CartLine{}}
}

func (c *Cart) indexOf(itemID string) int {
	for i, line := range c.Lines {
		if line.Item.ID == itemID {
			return i
		}
	}
	return -1
}

// AddItem increments the existing line for item.ID or appends a new one.
// Quantities below 1 count as 1.
func (c *Cart) AddItem(item CatalogItem, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if i := c.indexOf(item.ID); i >= 0 {
		c.Lines[i].Quantity += quantity
		return
	}
	c.Lines = append(c.Lines, CartLine{Item: item, Quantity: quantity})
}

func (c *Cart) RemoveItem(itemID string) {
	if i := c.indexOf(itemID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// UpdateQuantity applies delta to the line quantity. A result below 1 leaves
// the line untouched; RemoveItem is the only way to drop a line.
func (c *Cart) UpdateQuantity(itemID string, delta int) bool {
	i := c.indexOf(itemID)
	if i < 0 {
		return false
	}
	next := c.Lines[i].Quantity + delta
	if next <= 0 {
		return false
	}
	c.Lines[i].Quantity = next
	return true
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Total())
	}
	return total
}

func (c *Cart) Count() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Clear() {
	c.Lines = []CartLine{}
}

func (c *Cart) Snapshot() []CartLine {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return lines
}
