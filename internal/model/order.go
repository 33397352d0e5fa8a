package model

import "fmt"

type OperationType string

const (
	Buy  OperationType = "BUY"
	Sell OperationType = "SELL"
)

func ParseOperation(s string) (OperationType, error) {
	switch OperationType(s) {
	case Buy, Sell:
		return OperationType(s), nil
	default:
		return "", fmt.Errorf("unknown operation %q", s)
	}
}

type OrderType string

const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
)

func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case Market, Limit:
		return OrderType(s), nil
	default:
		return "", fmt.Errorf("unknown order type %q", s)
	}
}

type OrderStatus string

const (
	Pending  OrderStatus = "PENDING"
	Filled   OrderStatus = "FILLED"
	Rejected OrderStatus = "REJECTED"
)

// OrderRequest is the submission payload. Price is set only for limit
// orders and omitted from the encoding otherwise.
type OrderRequest struct {
	InstrumentID int           `json:"instrument_id"`
	Operation    OperationType `json:"operation"`
	Type         OrderType     `json:"type"`
	Quantity     int           `json:"quantity"`
	Price        *float64      `json:"price,omitempty"`
}

// OrderResult is the broker's answer to a submission. Immutable once
// created.
type OrderResult struct {
	ID     int         `json:"id"`
	Status OrderStatus `json:"status"`
}
