// Package checkout holds the checkout domain: coupon pricing and the
// hosted-checkout session payload.
package checkout

import (
	"math"
	"strings"
)

// Coupon is a percentage discount code.
type Coupon struct {
	Code    string
	Percent float64
	Active  bool
}

// Static coupon table. Codes are matched case-insensitively.
var coupons = map[string]Coupon{
	"SAVE10": {Code: "SAVE10", Percent: 10, Active: true},
	"SAVE20": {Code: "SAVE20", Percent: 20, Active: true},
	"SAVE50": {Code: "SAVE50", Percent: 50, Active: true},
}

// LookupCoupon returns the active coupon for code, if any. Surrounding
// whitespace is ignored and matching is case-insensitive.
func LookupCoupon(code string) (Coupon, bool) {
	c, ok := coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok || !c.Active {
		return Coupon{}, false
	}
	return c, true
}

// Discount returns the discount for an amount, rounded to the nearest unit.
func (c Coupon) Discount(amount float64) float64 {
	return math.Round(amount * c.Percent / 100)
}

// Pricing describes the resolved amounts for one checkout.
type Pricing struct {
	OriginalAmount float64
	DiscountAmount float64
	FinalAmount    float64
	CouponApplied  string
}

// Price applies the coupon identified by code to amount. Unknown or
// inactive codes leave the amount untouched. The final amount never goes
// below zero.
func Price(amount float64, code string) Pricing {
	p := Pricing{OriginalAmount: amount, FinalAmount: amount}

	c, ok := LookupCoupon(code)
	if !ok {
		return p
	}

	p.DiscountAmount = c.Discount(amount)
	p.FinalAmount = max(0, amount-p.DiscountAmount)
	p.CouponApplied = c.Code
	return p
}
