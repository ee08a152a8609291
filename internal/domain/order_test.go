package domain

import "testing"

func validOrder() Order {
	return Order{
		Subtotal:    9600,
		Tax:         768,
		Shipping:    1000,
		TotalAmount: 11368,
		Items: []OrderItem{
			{ProductID: "p1", Name: "Canvas Tote", UnitPriceCents: 4800, Quantity: 2, SubtotalCents: 9600},
		},
	}
}

func TestOrderValidate(t *testing.T) {
	if err := validOrder().Validate(); err != nil {
		t.Fatalf("valid order rejected: %v", err)
	}
}

func TestOrderValidateRoundingTolerance(t *testing.T) {
	o := validOrder()
	o.TotalAmount = 11369
	if err := o.Validate(); err != nil {
		t.Fatalf("one-cent drift should be tolerated: %v", err)
	}
	o.TotalAmount = 11370
	if err := o.Validate(); err == nil {
		t.Fatal("two-cent drift should be rejected")
	}
}

func TestOrderValidateNegativeAmounts(t *testing.T) {
	o := validOrder()
	o.Tax = -1
	if err := o.Validate(); err == nil {
		t.Fatal("negative tax should be rejected")
	}
}

func TestOrderValidateLineSum(t *testing.T) {
	o := validOrder()
	o.Items[0].SubtotalCents = 4800
	o.Items[0].Quantity = 1
	if err := o.Validate(); err == nil {
		t.Fatal("line subtotals not summing to order subtotal should be rejected")
	}
}

func TestOrderValidateItemFields(t *testing.T) {
	o := validOrder()
	o.Items[0].Quantity = 0
	if err := o.Validate(); err == nil {
		t.Fatal("zero quantity should be rejected")
	}

	o = validOrder()
	o.Items[0].SubtotalCents = 9601
	if err := o.Validate(); err == nil {
		t.Fatal("line subtotal mismatch should be rejected")
	}
}
