package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// Coupon is one of the fixed recognized coupon codes.
type Coupon string

const (
	// CouponNone means no coupon was supplied.
	CouponNone Coupon = ""
	// CouponPercent10 grants 10% off the subtotal.
	CouponPercent10 Coupon = "PERCENT10"
	// CouponFreeShipping zeroes the shipping fee. It produces no discount
	// line; shipping is accounted separately from the subtotal.
	CouponFreeShipping Coupon = "FREE_SHIPPING"
	// CouponSuppressVIP blocks the VIP discount and grants nothing itself.
	CouponSuppressVIP Coupon = "SUPPRESS_VIP"
)

// ErrInvalidCoupon is returned for codes outside the recognized set.
// Unrecognized codes are rejected, never silently ignored.
var ErrInvalidCoupon = errors.New("invalid coupon")

// ParseCoupon resolves a raw code to a Coupon. Empty input and the literal
// "NONE" mean no coupon. Matching is case-insensitive.
func ParseCoupon(raw string) (Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	switch code {
	case "", "NONE":
		return CouponNone, nil
	case string(CouponPercent10):
		return CouponPercent10, nil
	case string(CouponFreeShipping):
		return CouponFreeShipping, nil
	case string(CouponSuppressVIP):
		return CouponSuppressVIP, nil
	default:
		return CouponNone, fmt.Errorf("%w: %q", ErrInvalidCoupon, raw)
	}
}
