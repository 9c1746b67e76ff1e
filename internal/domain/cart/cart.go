package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// CatalogItem is what a menu source hands to the cart on add.
type CatalogItem struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Image string
}

type LineItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int64           `json:"quantity"`
}

func (l LineItem) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// Cart holds the line items of one session. Lines keep the order in which
// they were first added and there is at most one line per catalog id.
type Cart struct {
	mu    sync.Mutex
	key   string
	items []LineItem

	totalsValid bool
	totalItems  int64
	subtotal    decimal.Decimal
}

func New(key string) *Cart {
	return &Cart{key: key}
}

func (c *Cart) Key() string {
	return c.key
}

func (c *Cart) Add(item CatalogItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(item.ID); i >= 0 {
		c.items[i].Quantity++
	} else {
		price := item.Price
		if price.IsNegative() {
			price = decimal.Zero
		}
		c.items = append(c.items, LineItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    price,
			Image:    item.Image,
			Quantity: 1,
		})
	}
	c.totalsValid = false
}

func (c *Cart) Remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(id)
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line.
func (c *Cart) UpdateQuantity(id int64, quantity int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.remove(id)
		return
	}
	if i := c.indexOf(id); i >= 0 {
		c.items[i].Quantity = quantity
		c.totalsValid = false
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.totalsValid = false
}

// Items returns a copy of the lines.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

func (c *Cart) TotalItems() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.computeTotals()
	return c.totalItems
}

func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.computeTotals()
	return c.subtotal
}

// Contents is a consistent view of a cart's lines and totals.
type Contents struct {
	Items      []LineItem
	TotalItems int64
	Subtotal   decimal.Decimal
}

// Contents copies the lines and their totals under one lock.
func (c *Cart) Contents() Contents {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.computeTotals()
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return Contents{Items: items, TotalItems: c.totalItems, Subtotal: c.subtotal}
}

// Restore replaces the contents with lines loaded from a snapshot. Lines
// with a non-positive quantity are dropped and repeated ids are merged.
func (c *Cart) Restore(lines []LineItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if l.Price.IsNegative() {
			l.Price = decimal.Zero
		}
		if i := c.indexOf(l.ID); i >= 0 {
			c.items[i].Quantity += l.Quantity
			continue
		}
		c.items = append(c.items, l)
	}
	c.totalsValid = false
}

func (c *Cart) remove(id int64) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.totalsValid = false
}

func (c *Cart) indexOf(id int64) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) computeTotals() {
	if c.totalsValid {
		return
	}
	var count int64
	sum := decimal.Zero
	for _, l := range c.items {
		count += l.Quantity
		sum = sum.Add(l.Total())
	}
	c.totalItems = count
	c.subtotal = sum
	c.totalsValid = true
}
