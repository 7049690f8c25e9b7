package checkout

import (
	"strings"
	"testing"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		full  string
		first string
		last  string
	}{
		{"Ada Lovelace", "Ada", "Lovelace"},
		{"Ada", "Ada", ""},
		{"Ada Byron Lovelace", "Ada", "Byron Lovelace"},
		{"  Ada Lovelace  ", "Ada", "Lovelace"},
		{"", "", ""},
	}

	for _, tt := range tests {
		first, last := splitName(tt.full)
		if first != tt.first || last != tt.last {
			t.Errorf("splitName(%q) = (%q, %q), want (%q, %q)", tt.full, first, last, tt.first, tt.last)
		}
	}
}

func TestBuildSessionPayload(t *testing.T) {
	pricing := Price(100, "SAVE20")
	payload := BuildSessionPayload(pricing, Customer{Email: "ada@example.com", Name: "Ada Lovelace"})

	if payload.Customer.Email != "ada@example.com" {
		t.Errorf("Customer.Email = %q", payload.Customer.Email)
	}
	if payload.Customer.FirstName != "Ada" || payload.Customer.LastName != "Lovelace" {
		t.Errorf("Customer name = (%q, %q), want (Ada, Lovelace)", payload.Customer.FirstName, payload.Customer.LastName)
	}

	if len(payload.ShoppingCart.LineItems) != 1 {
		t.Fatalf("got %d line items, want 1", len(payload.ShoppingCart.LineItems))
	}
	item := payload.ShoppingCart.LineItems[0]
	if item.Price != 8000 {
		t.Errorf("LineItem.Price = %d cents, want 8000", item.Price)
	}
	if item.UnitQty != 1 {
		t.Errorf("LineItem.UnitQty = %d, want 1", item.UnitQty)
	}
	if !strings.Contains(item.Name, "SAVE20") || !strings.Contains(item.Name, "20.00") {
		t.Errorf("LineItem.Name = %q, want coupon code and discount embedded", item.Name)
	}
}

func TestBuildSessionPayloadNoCoupon(t *testing.T) {
	payload := BuildSessionPayload(Price(49.99, ""), Customer{})

	item := payload.ShoppingCart.LineItems[0]
	if item.Price != 4999 {
		t.Errorf("LineItem.Price = %d cents, want 4999", item.Price)
	}
	if strings.Contains(item.Name, "coupon") {
		t.Errorf("LineItem.Name = %q, want no coupon mention", item.Name)
	}
}
