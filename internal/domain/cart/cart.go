package cart

import "github.com/example/nova-commerce/internal/domain/catalog"

// Cart is an ordered list of lines, unique by LineKey, every quantity >= 1.
type Cart struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	lines   []Line
}

func New(id, ownerID string) *Cart {
	return &Cart{ID: id, OwnerID: ownerID}
}

func (c *Cart) find(key LineKey) int {
	for i, l := range c.lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

// AddItem increments the matching line or appends a new line with
// quantity 1. It returns the resulting line.
func (c *Cart) AddItem(p catalog.Product, sel Selection) Line {
	if i := c.find(KeyOf(p.ID, sel)); i >= 0 {
		c.lines[i].Quantity++
		return c.lines[i].Clone()
	}
	line := Line{
		Product:          p.Clone(),
		Quantity:         1,
		SelectedVariants: sel.Clone(),
	}
	c.lines = append(c.lines, line)
	return line.Clone()
}

// SetQuantity sets the line quantity; q < 1 removes the line.
// It reports whether a matching line existed.
func (c *Cart) SetQuantity(key LineKey, q int) bool {
	i := c.find(key)
	if i < 0 {
		return false
	}
	if q < 1 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return true
	}
	c.lines[i].Quantity = q
	return true
}

// RemoveLine reports whether a matching line existed.
func (c *Cart) RemoveLine(key LineKey) bool {
	i := c.find(key)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns deep copies in insertion order.
func (c *Cart) Lines() []Line {
	return CloneLines(c.lines)
}

// Count is the sum of quantities.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) clone() *Cart {
	return &Cart{ID: c.ID, OwnerID: c.OwnerID, lines: CloneLines(c.lines)}
}
