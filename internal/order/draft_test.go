package order

import (
	"testing"

	"github.com/brokermobile/broker-client/internal/model"
)

func TestValidate(t *testing.T) {
	valid := NewDraft().WithQuantity("10")

	t.Run("market order with a quantity is valid", func(t *testing.T) {
		if errs := Validate(valid); errs != nil {
			t.Errorf("Validate() = %v, want nil", errs)
		}
	})

	t.Run("quantity", func(t *testing.T) {
		cases := []struct {
			quantity string
			ok       bool
		}{
			{"1", true},
			{"10", true},
			{"100", true},
			{"", false},
			{"0", false},
			{"01", false},
			{"-5", false},
			{"1.5", false},
			{"ten", false},
		}
		for _, tc := range cases {
			errs := Validate(valid.WithQuantity(tc.quantity))
			if got := errs[FieldQuantity] == ""; got != tc.ok {
				t.Errorf("quantity %q: valid = %v, want %v (%v)", tc.quantity, got, tc.ok, errs)
			}
		}
	})

	t.Run("limit orders require a price with at most two decimals", func(t *testing.T) {
		limit := valid.WithType(model.Limit)

		if errs := Validate(limit); errs[FieldPrice] == "" {
			t.Error("missing limit price passed validation")
		}

		cases := []struct {
			price string
			ok    bool
		}{
			{"50", true},
			{"50.5", true},
			{"50.55", true},
			{"0.99", true},
			{"50.555", false},
			{"", false},
			{"-50", false},
			{"abc", false},
			{".5", false},
		}
		for _, tc := range cases {
			errs := Validate(limit.WithPrice(tc.price))
			if got := errs[FieldPrice] == ""; got != tc.ok {
				t.Errorf("price %q: valid = %v, want %v", tc.price, got, tc.ok)
			}
		}
	})

	t.Run("market orders ignore the price field", func(t *testing.T) {
		if errs := Validate(valid.WithPrice("not-a-price")); errs != nil {
			t.Errorf("Validate() = %v, want nil: market suppresses price validation", errs)
		}
	})

	t.Run("amount mode validates the amount instead of the quantity", func(t *testing.T) {
		amount := NewDraft().WithAmountMode(true)

		if errs := Validate(amount); errs[FieldTotalAmount] == "" {
			t.Error("missing amount passed validation")
		}
		if errs := Validate(amount); errs[FieldQuantity] != "" {
			t.Error("quantity required in amount mode")
		}

		if errs := Validate(amount.WithTotalAmount("1000.50")); errs != nil {
			t.Errorf("Validate() = %v, want nil", errs)
		}
		if errs := Validate(amount.WithTotalAmount("1000.505")); errs[FieldTotalAmount] == "" {
			t.Error("three decimals passed validation")
		}
	})
}

func TestBlurTotalAmount(t *testing.T) {
	t.Run("derives a whole-share quantity", func(t *testing.T) {
		d := NewDraft().WithAmountMode(true).WithTotalAmount("1000").BlurTotalAmount(50)
		if d.Quantity != "20" {
			t.Errorf("Quantity = %q, want %q", d.Quantity, "20")
		}
	})

	t.Run("rounds down to the floor", func(t *testing.T) {
		d := NewDraft().WithAmountMode(true).WithTotalAmount("999.99").BlurTotalAmount(50)
		if d.Quantity != "19" {
			t.Errorf("Quantity = %q, want %q", d.Quantity, "19")
		}
	})

	t.Run("overwrites a previously entered quantity", func(t *testing.T) {
		d := NewDraft().WithQuantity("3").WithAmountMode(true).WithTotalAmount("1000").BlurTotalAmount(50)
		if d.Quantity != "20" {
			t.Errorf("Quantity = %q, want the derived %q", d.Quantity, "20")
		}
	})

	t.Run("no-op without a positive amount and price", func(t *testing.T) {
		base := NewDraft().WithQuantity("3").WithAmountMode(true)

		for name, d := range map[string]Draft{
			"zero price":     base.WithTotalAmount("1000").BlurTotalAmount(0),
			"empty amount":   base.BlurTotalAmount(50),
			"zero amount":    base.WithTotalAmount("0").BlurTotalAmount(50),
			"invalid amount": base.WithTotalAmount("abc").BlurTotalAmount(50),
		} {
			if d.Quantity != "3" {
				t.Errorf("%s: Quantity = %q, want untouched %q", name, d.Quantity, "3")
			}
		}
	})

	t.Run("leaving amount mode keeps the derived quantity", func(t *testing.T) {
		d := NewDraft().WithAmountMode(true).WithTotalAmount("1000").BlurTotalAmount(50).WithAmountMode(false)
		if d.Quantity != "20" {
			t.Errorf("Quantity = %q, want %q", d.Quantity, "20")
		}
	})

	t.Run("changing quantity afterwards does not recompute the amount", func(t *testing.T) {
		d := NewDraft().WithAmountMode(true).WithTotalAmount("1000").BlurTotalAmount(50).WithQuantity("7")
		if d.TotalAmount != "1000" {
			t.Errorf("TotalAmount = %q, want untouched %q", d.TotalAmount, "1000")
		}
	})
}

func TestDraftUpdatesAreValues(t *testing.T) {
	base := NewDraft()
	_ = base.WithQuantity("5").WithType(model.Limit)

	if base.Quantity != "" || base.Type != model.Market {
		t.Errorf("field update mutated the original draft: %+v", base)
	}
}
