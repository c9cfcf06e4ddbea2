package pricing

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		cny, rate, fee string
		want           int64
	}{
		{"10", "4.5", "0", 45},
		{"10", "4.6", "0", 46},
		{"10", "4.6", "0.05", 49}, // 48.3
		{"0", "4.5", "0.1", 0},
		{"0.01", "4.5", "0", 1},
		{"99.99", "4.45", "0.03", 459}, // 458.304165
	}
	for _, tt := range tests {
		q := NewQuote(d(tt.rate), d(tt.fee))
		if got, err := q.UnitPrice(d(tt.cny)); err != nil || got != tt.want {
			t.Errorf("UnitPrice(%s @ %s, fee %s) = %d, want %d", tt.cny, tt.rate, tt.fee, got, tt.want)
		}
	}
}

func TestUnitPriceNeverUndercharges(t *testing.T) {
	rates := []string{"4.2", "4.5", "4.63", "5"}
	fees := []string{"0", "0.05", "0.125"}
	for cents := int64(0); cents <= 2000; cents += 7 {
		cny := decimal.New(cents, -2)
		for _, r := range rates {
			for _, f := range fees {
				q := NewQuote(d(r), d(f))
				p, err := q.UnitPrice(cny)
				if err != nil {
					t.Fatal(err)
				}
				price := decimal.NewFromInt(p)
				if price.LessThan(cny.Mul(q.Rate)) {
					t.Fatalf("price %s < cny*rate for cny=%s rate=%s fee=%s", price, cny, r, f)
				}
				exact := cny.Mul(q.Rate).Mul(one.Add(q.Fee))
				if price.Sub(exact).GreaterThanOrEqual(one) {
					t.Fatalf("price %s overshoots %s by a full unit", price, exact)
				}
			}
		}
	}
}

func TestUnitPriceOutOfRange(t *testing.T) {
	if _, err := DefaultQuote().UnitPrice(d("1e20")); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
	if _, err := DefaultQuote().UnitPrice(MaxCost); err != nil {
		t.Fatalf("largest storable cost rejected: %v", err)
	}
}

func TestNewQuoteDefaults(t *testing.T) {
	q := NewQuote(decimal.Zero, d("-1"))
	if !q.Rate.Equal(DefaultRate) || !q.Fee.Equal(DefaultFee) {
		t.Fatalf("got %+v", q)
	}
}

func TestTotalsRoundCostEachStep(t *testing.T) {
	var c Totals
	for i, cost := range []string{"0.333", "0.333", "0.334"} {
		if err := c.Add(i, 1, d(cost), 1); err != nil {
			t.Fatal(err)
		}
	}
	if !c.Cost().Equal(d("1.00")) || c.Amount() != 3 {
		t.Fatalf("totals = %d / %s, want 3 / 1.00", c.Amount(), c.Cost())
	}

	// per-step rounding differs from a single final rounding here
	var step Totals
	_ = step.Add(0, 0, d("0.005"), 1) // 0.01
	_ = step.Add(1, 0, d("0.005"), 1) // 0.02 (0.015 rounds half up)
	if !step.Cost().Equal(d("0.02")) {
		t.Fatalf("step total = %s, want 0.02", step.Cost())
	}
	if final := d("0.005").Add(d("0.005")).Round(2); !final.Equal(d("0.01")) {
		t.Fatalf("sanity: final rounding = %s", final)
	}
}

func TestTotalsRejectOverflow(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		cost  string
		qty   int
		want  string
	}{
		{"amount wraps int64", 5_000_000_000, "0", 2_000_000_000, "item 2: order total is too large"},
		{"amount at the edge", math.MaxInt64 - 99, "0", 1, "item 2: order total is too large"},
		{"cost beyond column", 1, "9999999999.9999", 100, "item 2: order cost is too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Totals
			if err := c.Add(0, 100, d("1"), 1); err != nil {
				t.Fatal(err)
			}
			err := c.Add(1, tt.price, d(tt.cost), tt.qty)
			if !errors.Is(err, apperr.ErrValidation) || err.Error() != tt.want {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
			if c.Amount() != 100 || !c.Cost().Equal(d("1")) {
				t.Fatalf("totals changed on error: %d / %s", c.Amount(), c.Cost())
			}
		})
	}

	var c Totals
	if err := c.Add(0, math.MaxInt64, decimal.Zero, 1); err != nil || c.Amount() != math.MaxInt64 {
		t.Fatalf("exact fit rejected: %v", err)
	}
}

func TestParseAmount(t *testing.T) {
	ok := map[string]string{
		`12.5`:   "12.5",
		`"3.30"`: "3.3",
		` 0 `:    "0",
		`-1`:     "-1",
	}
	for in, want := range ok {
		got, err := ParseAmount(json.RawMessage(in))
		if err != nil {
			t.Fatalf("ParseAmount(%s): %v", in, err)
		}
		if !got.Equal(d(want)) {
			t.Errorf("ParseAmount(%s) = %s, want %s", in, got, want)
		}
	}
	for _, in := range []string{``, `null`, `"abc"`, `true`, `{}`} {
		if _, err := ParseAmount(json.RawMessage(in)); err == nil {
			t.Errorf("ParseAmount(%q) should fail", in)
		}
	}
}

func TestValidateLine(t *testing.T) {
	if err := ValidateLine(0, d("1"), 1); err != nil {
		t.Fatalf("valid line rejected: %v", err)
	}
	if err := ValidateLine(0, d("10.50000"), MaxQuantity); err != nil {
		t.Fatalf("trailing zeros rejected: %v", err)
	}
	tests := []struct {
		cost string
		qty  int
		want string
	}{
		{"1", 0, "item 3: quantity must be at least 1"},
		{"1", MaxQuantity + 1, "item 3: quantity must be at most 100000"},
		{"-0.01", 1, "item 3: cost must not be negative"},
		{"10000000000", 1, "item 3: cost must be at most 9999999999.9999"},
		{"0.00499", 1, "item 3: cost must have at most 4 decimal places"},
	}
	for _, tt := range tests {
		err := ValidateLine(2, d(tt.cost), tt.qty)
		if !errors.Is(err, apperr.ErrValidation) || err.Error() != tt.want {
			t.Errorf("ValidateLine(%s, %d) = %v, want %q", tt.cost, tt.qty, err, tt.want)
		}
	}
}
