package domain

type Cart struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
}

type CartItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

// TotalQuantity sums line item quantities. A nil cart or missing
// items slice counts as zero items.
func (c *Cart) TotalQuantity() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Recalculate refreshes per-line subtotals and the cart total from
// quantities and unit prices. Used between optimistic local edits and
// the next authoritative fetch; the server remains the source of truth.
func (c *Cart) Recalculate() {
	if c == nil {
		return
	}
	total := 0.0
	for i := range c.Items {
		c.Items[i].Subtotal = float64(c.Items[i].Quantity) * c.Items[i].UnitPrice
		total += c.Items[i].Subtotal
	}
	c.TotalAmount = total
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
