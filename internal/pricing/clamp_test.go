package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAppendDiscountClampsToHeadroom(t *testing.T) {
	c := &calc{
		subtotal: decimal.NewFromInt(10),
		headroom: decimal.NewFromInt(10),
	}

	c.appendDiscount("A", "first", decimal.NewFromInt(8))
	if len(c.discounts) != 1 || !c.discounts[0].Amount.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected first discount of 8, got %+v", c.discounts)
	}

	// exceeds the remaining headroom of 2: reduced, not rejected
	c.appendDiscount("B", "second", decimal.NewFromInt(5))
	if len(c.discounts) != 2 || c.discounts[1].Amount.StringFixed(2) != "2.00" {
		t.Fatalf("expected second discount clamped to 2.00, got %+v", c.discounts)
	}

	// no headroom left: the line is dropped entirely
	c.appendDiscount("C", "third", decimal.NewFromInt(1))
	if len(c.discounts) != 2 {
		t.Fatalf("expected third discount dropped, got %+v", c.discounts)
	}
	if !c.headroom.IsZero() {
		t.Fatalf("expected zero headroom, got %s", c.headroom)
	}
}

func TestAppendDiscountDropsNonPositive(t *testing.T) {
	c := &calc{
		subtotal: decimal.NewFromInt(10),
		headroom: decimal.NewFromInt(10),
	}
	c.appendDiscount("A", "zero", decimal.Zero)
	c.appendDiscount("B", "rounds to zero", decimal.NewFromFloat(0.004))
	if len(c.discounts) != 0 {
		t.Fatalf("expected no discounts, got %+v", c.discounts)
	}
}
