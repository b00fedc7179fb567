// Package cart holds the in-memory selection a customer builds before
// submitting an order. Pure aggregation logic, no network access.
package cart

import (
	"tableside/internal/app/core"
	"tableside/internal/domain/dto"
	"tableside/internal/domain/models"
)

// Line is one selected menu item. At most one line exists per menu item id.
type Line struct {
	Item     models.MenuItem
	Quantity int
	Note     string
}

func (l Line) Subtotal() int64 {
	return l.Item.Price * int64(l.Quantity)
}

// Cart keeps lines in insertion order. Insertion order only matters for
// display, never for correctness.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(itemID string) int {
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			return i
		}
	}
	return -1
}

// Add merges into an existing line for the same item id by summing
// quantities, else appends a new line.
func (c *Cart) Add(item models.MenuItem, quantity int) error {
	if quantity < 1 {
		return core.Validationf("quantity must be a positive integer: %d", quantity)
	}
	if !item.Available {
		return core.Validationf("menu item %q is not available", item.Name)
	}
	if i := c.find(item.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		return nil
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: quantity})
	return nil
}

// SetQuantity replaces the line's quantity exactly. Zero or negative removes
// the line.
func (c *Cart) SetQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.Remove(itemID)
		return
	}
	if i := c.find(itemID); i >= 0 {
		c.lines[i].Quantity = quantity
	}
}

// Remove is a no-op if the item is absent.
func (c *Cart) Remove(itemID string) {
	if i := c.find(itemID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// SetNote is a no-op if the item is absent. An empty string clears the note.
func (c *Cart) SetNote(itemID, note string) {
	if i := c.find(itemID); i >= 0 {
		c.lines[i].Note = note
	}
}

// Clear empties all lines. Idempotent.
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Total is the cart-local sum in whole currency units. It is never the total
// of a submitted order; that comes from the collaborator.
func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// ItemCount is the sum of all line quantities, used for badge displays.
func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Submission builds the order-creation item payload from the current lines.
func (c *Cart) Submission() []dto.OrderItemRequest {
	items := make([]dto.OrderItemRequest, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, dto.OrderItemRequest{
			MenuItemID: l.Item.ID,
			Quantity:   l.Quantity,
			Note:       l.Note,
		})
	}
	return items
}
