package checkout

import (
	"fmt"
	"math"
	"strings"
)

// Customer is the caller-provided customer data.
type Customer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SessionPayload is the request body for the hosted checkout endpoint.
type SessionPayload struct {
	Customer     SessionCustomer `json:"customer"`
	ShoppingCart ShoppingCart    `json:"shoppingCart"`
}

// SessionCustomer is the gateway's shape for customer data.
type SessionCustomer struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// ShoppingCart holds the line items billed by the session.
type ShoppingCart struct {
	LineItems []LineItem `json:"lineItems"`
}

// LineItem is a single cart entry. Price is in cents.
type LineItem struct {
	Name    string `json:"name"`
	Price   int64  `json:"price"`
	UnitQty int    `json:"unitQty"`
}

// BuildSessionPayload assembles the gateway payload for a priced checkout.
// The line-item name embeds the coupon code and discount when one applied.
func BuildSessionPayload(p Pricing, cust Customer) SessionPayload {
	first, last := splitName(cust.Name)

	name := "Checkout payment"
	if p.CouponApplied != "" {
		name = fmt.Sprintf("Checkout payment (coupon %s applied: -%.2f)", p.CouponApplied, p.DiscountAmount)
	}

	return SessionPayload{
		Customer: SessionCustomer{
			Email:     cust.Email,
			FirstName: first,
			LastName:  last,
		},
		ShoppingCart: ShoppingCart{
			LineItems: []LineItem{{
				Name:    name,
				Price:   int64(math.Round(p.FinalAmount * 100)),
				UnitQty: 1,
			}},
		},
	}
}

// splitName splits a full name into first and last at the first space.
func splitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	first, last, _ = strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}
