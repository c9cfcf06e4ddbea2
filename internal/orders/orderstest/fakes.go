// Package orderstest provides in-memory implementations of the orders ports for tests.
package orderstest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/runtiger2024/buy1688-sub000/internal/catalog"
	"github.com/runtiger2024/buy1688-sub000/internal/logger"
	"github.com/runtiger2024/buy1688-sub000/internal/notify"
	"github.com/runtiger2024/buy1688-sub000/internal/orders"
	"github.com/runtiger2024/buy1688-sub000/internal/settings"
	"github.com/runtiger2024/buy1688-sub000/internal/warehouses"
)

// MemStore is an orders.Store kept in memory. Orders are copied in and out.
type MemStore struct {
	mu      sync.Mutex
	orders  map[int64]orders.Order
	next    int64
	Updates []orders.Patch
}

func NewMemStore() *MemStore {
	return &MemStore{orders: map[int64]orders.Order{}}
}

func (m *MemStore) Create(_ context.Context, o orders.Order) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	o.ID = m.next
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	items := make([]orders.Item, len(o.Items))
	for i, it := range o.Items {
		it.ID = o.ID*100 + int64(i) + 1
		items[i] = it
	}
	o.Items = items
	m.orders[o.ID] = o
	return o, nil
}

func (m *MemStore) Get(_ context.Context, id int64) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return orders.Order{}, apperr.NotFound("order %d not found", id)
	}
	return o, nil
}

func (m *MemStore) GetByShareToken(_ context.Context, token string) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ShareToken == token {
			return o, nil
		}
	}
	return orders.Order{}, apperr.NotFound("order not found")
}

func (m *MemStore) List(_ context.Context, f orders.ListFilter) ([]orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []orders.Order
	for _, o := range m.orders {
		switch {
		case f.CustomerID != nil && o.CustomerID != *f.CustomerID:
		case f.OperatorID != nil && (o.OperatorID == nil || *o.OperatorID != *f.OperatorID):
		case f.Status != nil && o.Status != *f.Status:
		case f.PaymentStatus != nil && o.PaymentStatus != *f.PaymentStatus:
		default:
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MemStore) Update(_ context.Context, id int64, p orders.Patch) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return orders.Order{}, apperr.NotFound("order %d not found", id)
	}
	m.Updates = append(m.Updates, p)
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.PaymentStatus != nil {
		o.PaymentStatus = *p.PaymentStatus
	}
	if p.Notes != nil {
		o.Notes = *p.Notes
	}
	if p.OperatorID != nil {
		if *p.OperatorID == 0 {
			o.OperatorID = nil
		} else {
			v := *p.OperatorID
			o.OperatorID = &v
		}
	}
	if p.DomesticTrackingNumber != nil {
		o.DomesticTrackingNumber = *p.DomesticTrackingNumber
	}
	if p.PaymentReference != nil {
		o.PaymentReference = *p.PaymentReference
	}
	o.UpdatedAt = time.Now().UTC()
	m.orders[id] = o
	return o, nil
}

// Count returns the number of stored orders.
func (m *MemStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// Put stores o as is, for setting up a state.
func (m *MemStore) Put(o orders.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID > m.next {
		m.next = o.ID
	}
	m.orders[o.ID] = o
}

type Products map[int64]catalog.Product

func (p Products) LookupForOrder(_ context.Context, ids []int64) (map[int64]catalog.Product, error) {
	out := map[int64]catalog.Product{}
	for _, id := range ids {
		if prod, ok := p[id]; ok {
			out[id] = prod
		}
	}
	return out, nil
}

type Warehouses map[int64]warehouses.Warehouse

func (w Warehouses) Get(_ context.Context, id int64) (warehouses.Warehouse, error) {
	wh, ok := w[id]
	if !ok {
		return warehouses.Warehouse{}, apperr.NotFound("warehouse %d not found", id)
	}
	return wh, nil
}

// Settings serves a settings.Map that tests may change between calls.
type Settings struct {
	mu sync.Mutex
	m  settings.Map
}

func NewSettings(m settings.Map) *Settings { return &Settings{m: m} }

func (s *Settings) Set(k, v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[k] = v
}

func (s *Settings) Snapshot(context.Context) (settings.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Snapshot(), nil
}

// Staff lists active staff ids.
type Staff map[int64]bool

func (s Staff) IsActiveStaff(_ context.Context, id int64) (bool, error) { return s[id], nil }

type MemIdempotency struct {
	mu   sync.Mutex
	keys map[string]int64
}

func (m *MemIdempotency) Lookup(_ context.Context, customerID int64, key string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.keys[fmt.Sprintf("%d:%s", customerID, key)]
	return id, ok, nil
}

func (m *MemIdempotency) Remember(_ context.Context, customerID int64, key string, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys == nil {
		m.keys = map[string]int64{}
	}
	m.keys[fmt.Sprintf("%d:%s", customerID, key)] = orderID
	return nil
}

// Recorder is a notify.Notifier that keeps every notification it receives.
type Recorder struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *Recorder) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *Recorder) Sent() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}

func (r *Recorder) Count(kind notify.Kind) int {
	n := 0
	for _, s := range r.Sent() {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// Fixture wires an orders.Service to in-memory ports.
type Fixture struct {
	Service     *orders.Service
	Store       *MemStore
	Products    Products
	Warehouses  Warehouses
	Settings    *Settings
	Staff       Staff
	Idempotency *MemIdempotency
	Notifier    *Recorder
}

// DefaultSettings: rate 4.5, no fee, a complete bank account.
func DefaultSettings() settings.Map {
	return settings.Map{
		settings.KeyExchangeRate:    "4.5",
		settings.KeyServiceFee:      "0",
		settings.KeyBankName:        "First Bank",
		settings.KeyBankCode:        "007",
		settings.KeyBankAccount:     "0123456789",
		settings.KeyBankAccountName: "Buy1688 Ltd",
	}
}

func NewFixture() *Fixture {
	f := &Fixture{
		Store:       NewMemStore(),
		Products:    Products{},
		Warehouses:  Warehouses{},
		Settings:    NewSettings(DefaultSettings()),
		Staff:       Staff{},
		Idempotency: &MemIdempotency{},
		Notifier:    &Recorder{},
	}
	tokens := 0
	f.Service = orders.NewService(orders.Deps{
		Store:       f.Store,
		Products:    f.Products,
		Warehouses:  f.Warehouses,
		Settings:    f.Settings,
		Staff:       f.Staff,
		Idempotency: f.Idempotency,
		Notifier:    f.Notifier,
		Log:         logger.Discard(),
		NewToken: func() string {
			tokens++
			return fmt.Sprintf("share-%d", tokens)
		},
	})
	return f
}
