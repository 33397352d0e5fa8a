// Package order drives one order-entry session: an immutable draft edited
// through reducer-style field updates, pure validation, and a single-flight
// submission flow.
package order

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/brokermobile/broker-client/internal/model"
)

// Field names used in FieldErrors.
const (
	FieldQuantity    = "quantity"
	FieldPrice       = "price"
	FieldTotalAmount = "totalAmount"
)

var (
	_quantityRe = regexp.MustCompile(`^[1-9]\d*$`)
	_moneyRe    = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// Draft is the form state of one order-entry session. Values are kept as
// entered; parsing happens at submit time. Exactly one of quantity and
// total amount is the user-entered driver at any time, the other is
// derived. Each field update returns the next Draft value.
type Draft struct {
	Operation   model.OperationType
	Type        model.OrderType
	Quantity    string
	Price       string
	UseAmount   bool
	TotalAmount string
}

func NewDraft() Draft {
	return Draft{Operation: model.Buy, Type: model.Market}
}

func (d Draft) WithOperation(op model.OperationType) Draft {
	d.Operation = op
	return d
}

func (d Draft) WithType(t model.OrderType) Draft {
	d.Type = t
	return d
}

func (d Draft) WithQuantity(q string) Draft {
	d.Quantity = q
	return d
}

func (d Draft) WithPrice(p string) Draft {
	d.Price = p
	return d
}

func (d Draft) WithTotalAmount(a string) Draft {
	d.TotalAmount = a
	return d
}

// WithAmountMode toggles amount-driven entry. Switching back to
// quantity-driven keeps whatever quantity was last derived.
func (d Draft) WithAmountMode(on bool) Draft {
	d.UseAmount = on
	return d
}

// BlurTotalAmount reconciles the entered amount into a whole-share quantity
// at lastPrice: quantity = floor(amount / price). One-shot: editing the
// quantity afterwards does not recompute the amount, and the derived value
// overwrites any previously entered quantity. No-op unless both amount and
// price are positive.
func (d Draft) BlurTotalAmount(lastPrice float64) Draft {
	amount, err := decimal.NewFromString(d.TotalAmount)
	if err != nil || !amount.IsPositive() || lastPrice <= 0 {
		return d
	}

	price := decimal.NewFromFloat(lastPrice)
	d.Quantity = amount.Div(price).Floor().String()
	return d
}

// FieldErrors maps a field name to a human-readable message.
type FieldErrors map[string]string

// ValidationError blocks a submission before it reaches the network layer.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "order draft is invalid"
}

// Validate applies the submit-time rules to d and returns nil when the
// draft is submittable. Pure: d is never changed. The entry mode decides
// which of quantity and total amount is required; the limit price is
// required iff the order type is LIMIT.
func Validate(d Draft) FieldErrors {
	errs := make(FieldErrors)

	if d.UseAmount {
		switch {
		case d.TotalAmount == "":
			errs[FieldTotalAmount] = "total amount is required"
		case !_moneyRe.MatchString(d.TotalAmount):
			errs[FieldTotalAmount] = "total amount must be a decimal with at most two fractional digits"
		}
	} else {
		switch {
		case d.Quantity == "":
			errs[FieldQuantity] = "quantity is required"
		case !_quantityRe.MatchString(d.Quantity):
			errs[FieldQuantity] = "quantity must be a positive integer"
		}
	}

	if d.Type == model.Limit {
		switch {
		case d.Price == "":
			errs[FieldPrice] = "limit price is required"
		case !_moneyRe.MatchString(d.Price):
			errs[FieldPrice] = "limit price must be a decimal with at most two fractional digits"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
