package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/runtiger2024/buy1688-sub000/internal/pricing"
	"github.com/shopspring/decimal"
)

type memStore struct {
	m       Map
	upserts int
}

func (s *memStore) All(ctx context.Context) (Map, error) {
	out := Map{}
	for k, v := range s.m {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) Upsert(ctx context.Context, values Map) error {
	s.upserts++
	for k, v := range values {
		s.m[k] = v
	}
	return nil
}

func TestPublicKeepsBankIdentifiersAsStrings(t *testing.T) {
	m := Map{
		KeyExchangeRate: "4.6",
		KeyServiceFee:   "0.05",
		KeyBankCode:     "007",
		KeyBankAccount:  "0012345678",
		KeyBankName:     "First Bank",
	}
	pub := m.Public()
	if pub[KeyExchangeRate] != 4.6 || pub[KeyServiceFee] != 0.05 {
		t.Fatalf("numeric settings not parsed: %v", pub)
	}
	if pub[KeyBankCode] != "007" || pub[KeyBankAccount] != "0012345678" {
		t.Fatalf("bank identifiers lost leading zeros: %v", pub)
	}
}

func TestQuoteDefaults(t *testing.T) {
	q := Map{}.Quote()
	if !q.Rate.Equal(pricing.DefaultRate) || !q.Fee.IsZero() {
		t.Fatalf("got %+v", q)
	}
	q = Map{KeyExchangeRate: "abc", KeyServiceFee: " 0.1 "}.Quote()
	if !q.Rate.Equal(pricing.DefaultRate) || !q.Fee.Equal(decimal.RequireFromString("0.1")) {
		t.Fatalf("got %+v", q)
	}
}

func TestPaymentInstructions(t *testing.T) {
	got := PaymentInstructions(1234, Bank{Name: "First Bank", Code: "007", Account: "0012345678", AccountName: "Buy1688 Ltd"})
	for _, want := range []string{"NT$1234", "First Bank (code 007)", "0012345678", "Buy1688 Ltd"} {
		if !strings.Contains(got, want) {
			t.Errorf("instructions missing %q: %s", want, got)
		}
	}
	if got := PaymentInstructions(50, Bank{Name: "First Bank", Account: "1", AccountName: "X"}); strings.Contains(got, "code") {
		t.Errorf("empty bank code rendered: %s", got)
	}
}

func TestPaymentInstructionsTemplate(t *testing.T) {
	b := Map{
		KeyBankName:            "第一銀行",
		KeyBankAccount:         "0012345678",
		KeyBankAccountName:     "Buy1688",
		KeyPaymentInstructions: "請匯款 NT${{.Total}} 至 {{.BankName}} 帳號 {{.Account}}（戶名 {{.AccountName}}）",
	}.Bank()
	if got, want := PaymentInstructions(880, b), "請匯款 NT$880 至 第一銀行 帳號 0012345678（戶名 Buy1688）"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	b.InstructionsTemplate = "{{.Missing}}"
	if got := PaymentInstructions(880, b); !strings.HasPrefix(got, "Please transfer NT$880") {
		t.Fatalf("broken template should fall back to the default, got %q", got)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("writes only supplied keys", func(t *testing.T) {
		st := &memStore{m: Map{KeyExchangeRate: "4.5", KeyBankName: "Old"}}
		svc := NewService(st)
		got, err := svc.Update(ctx, map[string]any{KeyServiceFee: json.Number("0.05"), KeyBankAccount: "0012"})
		if err != nil {
			t.Fatal(err)
		}
		if got[KeyExchangeRate] != "4.5" || got[KeyBankName] != "Old" || got[KeyServiceFee] != "0.05" || got[KeyBankAccount] != "0012" {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("stores a valid template", func(t *testing.T) {
		st := &memStore{m: Map{}}
		got, err := NewService(st).Update(ctx, map[string]any{KeyPaymentInstructions: "Pay NT${{.Total}}"})
		if err != nil {
			t.Fatal(err)
		}
		if got[KeyPaymentInstructions] != "Pay NT${{.Total}}" {
			t.Fatalf("got %v", got)
		}
	})

	tests := []struct {
		name   string
		values map[string]any
	}{
		{"empty", map[string]any{}},
		{"unknown key", map[string]any{"theme": "dark"}},
		{"zero rate", map[string]any{KeyExchangeRate: float64(0)}},
		{"negative fee", map[string]any{KeyServiceFee: "-0.1"}},
		{"non numeric rate", map[string]any{KeyExchangeRate: "four"}},
		{"object value", map[string]any{KeyBankName: map[string]any{}}},
		{"template syntax", map[string]any{KeyPaymentInstructions: "NT${{.Total"}},
		{"template unknown field", map[string]any{KeyPaymentInstructions: "{{.Amount}}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &memStore{m: Map{}}
			_, err := NewService(st).Update(ctx, tt.values)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if st.upserts != 0 {
				t.Fatal("store written despite validation failure")
			}
		})
	}
}
