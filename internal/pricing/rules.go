package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/customer"
)

// Discount line codes.
const (
	CodeVIP5        = "VIP5"
	CodePercent10   = "PERCENT10"
	CodeB3P2        = "B3P2"
	CodeThreshold30 = "THRESHOLD30"
)

var (
	vipRate        = decimal.New(5, -2)  // 0.05
	percent10Rate  = decimal.New(10, -2) // 0.10
	thresholdFloor = decimal.NewFromInt(500)
	thresholdValue = decimal.NewFromInt(30)
)

// ruleVIP applies the 5% VIP discount once per calculation, unless the
// SUPPRESS_VIP coupon blocks it.
func ruleVIP(c *calc) {
	if c.tier != customer.TierVIP || c.coupon == CouponSuppressVIP {
		return
	}
	c.appendDiscount(CodeVIP5, "VIP 5% off subtotal", c.subtotal.Mul(vipRate))
}

// ruleCoupon applies the monetary or shipping effect of the coupon.
// SUPPRESS_VIP only guards ruleVIP and grants nothing here.
func ruleCoupon(c *calc) {
	switch c.coupon {
	case CouponPercent10:
		c.appendDiscount(CodePercent10, "Coupon 10% off subtotal", c.subtotal.Mul(percent10Rate))
	case CouponFreeShipping:
		c.freeShipping = true
	}
}

// ruleBundle implements buy-3-pay-2 for apparel. Units are expanded from
// line quantities in the order lines were added, grouped into consecutive
// triplets; the cheapest unit of each complete triplet becomes a discount
// line. Leftover units (count mod 3) get nothing. Grouping is by arrival
// order, not by price, so results are order-sensitive.
func ruleBundle(c *calc) {
	var units []decimal.Decimal
	for _, line := range c.lines {
		if line.category != catalog.CategoryApparel {
			continue
		}
		for i := 0; i < line.Qty; i++ {
			units = append(units, line.UnitPrice)
		}
	}
	for i := 0; i+3 <= len(units); i += 3 {
		cheapest := units[i]
		for _, price := range units[i+1 : i+3] {
			if price.LessThan(cheapest) {
				cheapest = price
			}
		}
		c.appendDiscount(CodeB3P2, "Buy 3 pay 2: cheapest apparel unit free", cheapest)
	}
}

// ruleThreshold applies the flat discount once the undiscounted original
// subtotal reaches the floor.
func ruleThreshold(c *calc) {
	if c.subtotal.LessThan(thresholdFloor) {
		return
	}
	c.appendDiscount(CodeThreshold30, "Flat discount for subtotal >= 500", thresholdValue)
}
