package settings

import (
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/runtiger2024/buy1688-sub000/internal/pricing"
	"github.com/shopspring/decimal"
)

const (
	KeyExchangeRate    = "exchange_rate"
	KeyServiceFee      = "service_fee"
	KeyBankName        = "bank_name"
	KeyBankCode        = "bank_code"
	KeyBankAccount     = "bank_account"
	KeyBankAccountName = "bank_account_name"

	KeyPaymentInstructions = "payment_instructions_template"
)

// Bank identifiers keep leading zeros, so they are never exposed as numbers.
var stringOnly = map[string]bool{
	KeyBankName:        true,
	KeyBankCode:        true,
	KeyBankAccount:     true,
	KeyBankAccountName: true,

	KeyPaymentInstructions: true,
}

var known = map[string]bool{
	KeyExchangeRate:    true,
	KeyServiceFee:      true,
	KeyBankName:        true,
	KeyBankCode:        true,
	KeyBankAccount:     true,
	KeyBankAccountName: true,

	KeyPaymentInstructions: true,
}

// Map is the raw key/value settings table.
type Map map[string]string

// Public returns the settings with numeric-looking values converted to numbers.
func (m Map) Public() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if !stringOnly[k] {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				out[k] = f
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Quote builds the pricing snapshot, falling back to defaults for missing values.
func (m Map) Quote() pricing.Quote {
	rate, err := decimal.NewFromString(strings.TrimSpace(m[KeyExchangeRate]))
	if err != nil {
		rate = pricing.DefaultRate
	}
	fee, err := decimal.NewFromString(strings.TrimSpace(m[KeyServiceFee]))
	if err != nil {
		fee = pricing.DefaultFee
	}
	return pricing.NewQuote(rate, fee)
}

type Bank struct {
	Name        string `json:"bank_name"`
	Code        string `json:"bank_code,omitempty"`
	Account     string `json:"bank_account"`
	AccountName string `json:"bank_account_name"`

	// InstructionsTemplate overrides DefaultPaymentInstructions when set.
	InstructionsTemplate string `json:"-"`
}

func (m Map) Bank() Bank {
	return Bank{
		Name:        m[KeyBankName],
		Code:        m[KeyBankCode],
		Account:     m[KeyBankAccount],
		AccountName: m[KeyBankAccountName],

		InstructionsTemplate: m[KeyPaymentInstructions],
	}
}

// Snapshot is what order creation reads from settings in one go.
type Snapshot struct {
	Quote pricing.Quote
	Bank  Bank
}

func (m Map) Snapshot() Snapshot {
	return Snapshot{Quote: m.Quote(), Bank: m.Bank()}
}

// DefaultPaymentInstructions is the transfer text used until an admin stores
// payment_instructions_template. Fields: Total, BankName, BankCode, Account, AccountName.
const DefaultPaymentInstructions = `Please transfer NT${{.Total}} to {{.BankName}}{{with .BankCode}} (code {{.}}){{end}}, ` +
	`account {{.Account}}, account name {{.AccountName}}. ` +
	`After paying, submit the last 5 digits of the account you transferred from.`

var defaultInstructions = template.Must(parseInstructions(DefaultPaymentInstructions))

type instructionData struct {
	Total       int64
	BankName    string
	BankCode    string
	Account     string
	AccountName string
}

// parseInstructions also executes the template once so unknown fields fail here, not per order.
func parseInstructions(text string) (*template.Template, error) {
	t, err := template.New("payment_instructions").Parse(text)
	if err != nil {
		return nil, err
	}
	if err := t.Execute(io.Discard, instructionData{}); err != nil {
		return nil, err
	}
	return t, nil
}

// PaymentInstructions renders the offline bank transfer text for an order total. A broken
// custom template falls back to the default text.
func PaymentInstructions(total int64, b Bank) string {
	data := instructionData{Total: total, BankName: b.Name, BankCode: b.Code, Account: b.Account, AccountName: b.AccountName}
	var out strings.Builder
	if b.InstructionsTemplate != "" {
		if t, err := parseInstructions(b.InstructionsTemplate); err == nil && t.Execute(&out, data) == nil {
			return out.String()
		}
		out.Reset()
	}
	_ = defaultInstructions.Execute(&out, data)
	return out.String()
}
