package orders

import (
	"encoding/json"
	"time"

	"github.com/runtiger2024/buy1688-sub000/internal/settings"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeStandard Type = "STANDARD"
	TypeAssist   Type = "ASSIST"
)

type PaymentMethod string

const PaymentOfflineTransfer PaymentMethod = "OFFLINE_TRANSFER"

type Order struct {
	ID                     int64           `json:"id"`
	CustomerID             int64           `json:"customer_id"`
	CustomerEmail          string          `json:"customer_email"`
	Items                  []Item          `json:"items"`
	TotalAmount            int64           `json:"total_amount"`
	TotalCost              decimal.Decimal `json:"total_cost"`
	Status                 Status          `json:"status"`
	PaymentStatus          PaymentStatus   `json:"payment_status"`
	PaymentMethod          PaymentMethod   `json:"payment_method"`
	PaymentReference       string          `json:"payment_reference,omitempty"`
	OrderType              Type            `json:"order_type"`
	ShareToken             string          `json:"share_token"`
	OperatorID             *int64          `json:"operator_id"`
	WarehouseID            *int64          `json:"warehouse_id"`
	Notes                  string          `json:"notes"`
	DomesticTrackingNumber string          `json:"domestic_tracking_number"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// Item fields are copied at creation time and never change afterwards.
type Item struct {
	ID          int64           `json:"id"`
	ProductID   *int64          `json:"product_id"`
	Name        string          `json:"name"`
	Spec        string          `json:"spec"`
	ExternalURL string          `json:"external_url"`
	Price       int64           `json:"price"`
	CostCNY     decimal.Decimal `json:"cost_cny"`
	Quantity    int             `json:"quantity"`
}

type StandardLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateStandardRequest struct {
	Items []StandardLine `json:"items"`
	Notes string         `json:"notes"`
}

// AssistLine.CostCNY accepts a JSON number or a numeric string.
type AssistLine struct {
	URL      string          `json:"url"`
	Name     string          `json:"name"`
	Spec     string          `json:"spec"`
	CostCNY  json.RawMessage `json:"cost_cny"`
	Quantity int             `json:"quantity"`
}

type CreateAssistRequest struct {
	WarehouseID *int64       `json:"warehouse_id"`
	Notes       string       `json:"notes"`
	Items       []AssistLine `json:"items"`
}

type Created struct {
	Order               Order  `json:"order"`
	PaymentInstructions string `json:"payment_instructions"`
}

// Patch is a partial update; nil fields are left untouched. OperatorID 0 unassigns.
type Patch struct {
	Status                 *Status        `json:"status"`
	PaymentStatus          *PaymentStatus `json:"payment_status"`
	Notes                  *string        `json:"notes"`
	OperatorID             *int64         `json:"operator_id"`
	DomesticTrackingNumber *string        `json:"domestic_tracking_number"`
	PaymentReference       *string        `json:"-"`
}

func (p Patch) empty() bool {
	return p.Status == nil && p.PaymentStatus == nil && p.Notes == nil &&
		p.OperatorID == nil && p.DomesticTrackingNumber == nil && p.PaymentReference == nil
}

type ListFilter struct {
	CustomerID    *int64
	OperatorID    *int64
	Status        *Status
	PaymentStatus *PaymentStatus
}

// SharedOrder is the public view behind a share token. It carries no customer identity,
// operator, payment reference or cost data.
type SharedOrder struct {
	ID                     int64         `json:"id"`
	OrderType              Type          `json:"order_type"`
	Status                 Status        `json:"status"`
	PaymentStatus          PaymentStatus `json:"payment_status"`
	PaymentMethod          PaymentMethod `json:"payment_method"`
	TotalAmount            int64         `json:"total_amount"`
	Items                  []SharedItem  `json:"items"`
	DomesticTrackingNumber string        `json:"domestic_tracking_number,omitempty"`
	CreatedAt              time.Time     `json:"created_at"`
	Bank                   settings.Bank `json:"bank"`
	PaymentInstructions    string        `json:"payment_instructions,omitempty"`
}

type SharedItem struct {
	Name        string `json:"name"`
	Spec        string `json:"spec,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

func shareView(o Order, bank settings.Bank) SharedOrder {
	v := SharedOrder{
		ID:                     o.ID,
		OrderType:              o.OrderType,
		Status:                 o.Status,
		PaymentStatus:          o.PaymentStatus,
		PaymentMethod:          o.PaymentMethod,
		TotalAmount:            o.TotalAmount,
		Items:                  make([]SharedItem, 0, len(o.Items)),
		DomesticTrackingNumber: o.DomesticTrackingNumber,
		CreatedAt:              o.CreatedAt,
		Bank:                   bank,
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, SharedItem{
			Name: it.Name, Spec: it.Spec, ExternalURL: it.ExternalURL, Price: it.Price, Quantity: it.Quantity,
		})
	}
	if o.PaymentStatus == PaymentUnpaid {
		v.PaymentInstructions = settings.PaymentInstructions(o.TotalAmount, bank)
	}
	return v
}
