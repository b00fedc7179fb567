package cart

import (
	"testing"

	"tableside/internal/app/core"
	"tableside/internal/domain/models"
)

func item(id, name string, price int64) models.MenuItem {
	return models.MenuItem{ID: id, Name: name, Price: price, Available: true}
}

func TestAdd_MergesSameItem(t *testing.T) {
	c := New()
	margherita := item("m1", "Margherita", 500)

	if err := c.Add(margherita, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Add(margherita, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Errorf("expected merged quantity 3, got %d", lines[0].Quantity)
	}
	if c.ItemCount() != 3 {
		t.Errorf("expected item count 3, got %d", c.ItemCount())
	}
}

func TestAdd_RejectsInvalidQuantity(t *testing.T) {
	c := New()
	for _, qty := range []int{0, -1, -100} {
		if err := c.Add(item("m1", "Margherita", 500), qty); !core.IsValidation(err) {
			t.Errorf("quantity %d: expected validation error, got %v", qty, err)
		}
	}
	if !c.Empty() {
		t.Error("expected cart to remain empty after rejected adds")
	}
}

func TestAdd_RejectsUnavailableItem(t *testing.T) {
	c := New()
	unavailable := models.MenuItem{ID: "m9", Name: "Seasonal Soup", Price: 700}

	if err := c.Add(unavailable, 1); !core.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestTotal(t *testing.T) {
	c := New()
	c.Add(item("m1", "Margherita", 500), 3)
	c.Add(item("m2", "Lasagna", 1200), 1)

	if got := c.Total(); got != 2700 {
		t.Errorf("expected total 2700, got %d", got)
	}

	c.SetQuantity("m1", 0)
	if got := c.Total(); got != 1200 {
		t.Errorf("expected total 1200 after zeroing first item, got %d", got)
	}
}

func TestTotal_EmptyCart(t *testing.T) {
	if got := New().Total(); got != 0 {
		t.Errorf("expected 0 for empty cart, got %d", got)
	}
}

func TestSetQuantity_ReplacesExactly(t *testing.T) {
	c := New()
	c.Add(item("m1", "Margherita", 500), 5)
	c.SetQuantity("m1", 2)

	if got := c.Lines()[0].Quantity; got != 2 {
		t.Errorf("expected quantity 2, got %d", got)
	}
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	c := New()
	c.Add(item("m1", "Margherita", 500), 2)
	c.SetQuantity("m1", 0)

	if !c.Empty() {
		t.Error("expected empty cart after setting quantity to zero")
	}
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	c := New()
	c.Add(item("m1", "Margherita", 500), 1)
	c.Remove("no-such-item")

	if len(c.Lines()) != 1 {
		t.Error("removing an absent item must not touch other lines")
	}
}

func TestSetNote(t *testing.T) {
	c := New()
	c.Add(item("m1", "Margherita", 500), 1)

	c.SetNote("m1", "no basil")
	if got := c.Lines()[0].Note; got != "no basil" {
		t.Errorf("expected note %q, got %q", "no basil", got)
	}

	c.SetNote("m1", "")
	if got := c.Lines()[0].Note; got != "" {
		t.Errorf("expected cleared note, got %q", got)
	}

	// absent item is a no-op
	c.SetNote("no-such-item", "extra cheese")
	if len(c.Lines()) != 1 {
		t.Error("setting a note on an absent item must not create a line")
	}
}

func TestClear_Idempotent(t *testing.T) {
	c := New()
	c.Add(item("m1", "Margherita", 500), 1)
	c.Clear()
	c.Clear()

	if !c.Empty() || c.ItemCount() != 0 {
		t.Error("expected empty cart after clear")
	}
}

// The cart never holds two lines with the same item id, and ItemCount always
// equals the sum of line quantities, across mixed mutation sequences.
func TestNoDuplicateLines(t *testing.T) {
	c := New()
	a := item("a", "Bruschetta", 300)
	b := item("b", "Tiramisu", 450)

	c.Add(a, 1)
	c.Add(b, 2)
	c.Add(a, 4)
	c.SetQuantity("b", 1)
	c.Remove("a")
	c.Add(a, 2)

	seen := map[string]bool{}
	sum := 0
	for _, l := range c.Lines() {
		if seen[l.Item.ID] {
			t.Fatalf("duplicate line for item %q", l.Item.ID)
		}
		seen[l.Item.ID] = true
		sum += l.Quantity
	}
	if c.ItemCount() != sum {
		t.Errorf("ItemCount %d does not match summed quantities %d", c.ItemCount(), sum)
	}
}

func TestSubmission_PreservesOrderAndNotes(t *testing.T) {
	c := New()
	c.Add(item("m2", "Lasagna", 1200), 1)
	c.Add(item("m1", "Margherita", 500), 2)
	c.SetNote("m1", "well done")

	items := c.Submission()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].MenuItemID != "m2" || items[1].MenuItemID != "m1" {
		t.Errorf("expected insertion order m2,m1, got %s,%s", items[0].MenuItemID, items[1].MenuItemID)
	}
	if items[1].Note != "well done" {
		t.Errorf("expected note on second item, got %q", items[1].Note)
	}
}
