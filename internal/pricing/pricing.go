// Package pricing converts CNY item costs into TWD prices.
//
// All arithmetic is done in decimal so ceilings and 2-place roundings are exact.
package pricing

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/shopspring/decimal"
)

var (
	DefaultRate = decimal.RequireFromString("4.5")
	DefaultFee  = decimal.Zero
)

var one = decimal.NewFromInt(1)

// MaxQuantity caps a single order line.
const MaxQuantity = 100000

// Column limits: order_items.cost_cny is NUMERIC(14,4), orders.total_cost NUMERIC(14,2).
var (
	MaxCost      = decimal.RequireFromString("9999999999.9999")
	maxTotalCost = decimal.RequireFromString("999999999999.99")
	maxAmount    = decimal.NewFromInt(math.MaxInt64)
)

var (
	ErrOutOfRange = errors.New("price is too large")

	errCostNegative = errors.New("cost must not be negative")
	errCostTooLarge = errors.New("cost must be at most " + MaxCost.String())
	errCostScale    = errors.New("cost must have at most 4 decimal places")
)

// Quote is a snapshot of the exchange settings taken when an order is priced.
type Quote struct {
	Rate decimal.Decimal // TWD per CNY
	Fee  decimal.Decimal // service fee fraction, 0.05 = 5%
}

// NewQuote substitutes the defaults for a non-positive rate or a negative fee.
func NewQuote(rate, fee decimal.Decimal) Quote {
	if !rate.IsPositive() {
		rate = DefaultRate
	}
	if fee.IsNegative() {
		fee = DefaultFee
	}
	return Quote{Rate: rate, Fee: fee}
}

func DefaultQuote() Quote { return Quote{Rate: DefaultRate, Fee: DefaultFee} }

// UnitPrice returns ceil(cny * rate * (1 + fee)), or ErrOutOfRange when that does not fit an int64.
func (q Quote) UnitPrice(cny decimal.Decimal) (int64, error) {
	p := cny.Mul(q.Rate).Mul(one.Add(q.Fee)).Ceil()
	if p.GreaterThan(maxAmount) {
		return 0, ErrOutOfRange
	}
	return p.IntPart(), nil
}

// Totals accumulates an order's TWD amount and CNY cost. The cost is rounded to 2 places
// after every addition.
type Totals struct {
	amount int64
	cost   decimal.Decimal
}

// Add folds one line into the totals and leaves them untouched when either would overflow.
func (t *Totals) Add(idx int, price int64, cny decimal.Decimal, qty int) error {
	if price < 0 || qty < 1 {
		return apperr.Validation("item %d: invalid price or quantity", idx+1)
	}
	if price > (math.MaxInt64-t.amount)/int64(qty) {
		return apperr.Validation("item %d: order total is too large", idx+1)
	}
	cost := t.cost.Add(cny.Mul(decimal.NewFromInt(int64(qty)))).Round(2)
	if cost.GreaterThan(maxTotalCost) {
		return apperr.Validation("item %d: order cost is too large", idx+1)
	}
	t.amount += price * int64(qty)
	t.cost = cost
	return nil
}

func (t Totals) Amount() int64 { return t.amount }

func (t Totals) Cost() decimal.Decimal { return t.cost }

var errNotNumeric = errors.New("not a number")

// ParseAmount accepts a JSON number or a numeric JSON string.
func ParseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, errNotNumeric
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, errNotNumeric
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errNotNumeric
	}
	return d, nil
}

// CheckCost reports whether a CNY cost can be stored without rounding.
func CheckCost(cost decimal.Decimal) error {
	switch {
	case cost.IsNegative():
		return errCostNegative
	case cost.GreaterThan(MaxCost):
		return errCostTooLarge
	case !cost.Equal(cost.Round(4)):
		return errCostScale
	}
	return nil
}

// ValidateLine checks one order line; idx is zero-based, messages are one-based.
func ValidateLine(idx int, cost decimal.Decimal, qty int) error {
	if qty < 1 {
		return apperr.Validation("item %d: quantity must be at least 1", idx+1)
	}
	if qty > MaxQuantity {
		return apperr.Validation("item %d: quantity must be at most %d", idx+1, MaxQuantity)
	}
	if err := CheckCost(cost); err != nil {
		return apperr.Validation("item %d: %v", idx+1, err)
	}
	return nil
}
