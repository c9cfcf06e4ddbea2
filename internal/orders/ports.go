package orders

import (
	"context"

	"github.com/runtiger2024/buy1688-sub000/internal/catalog"
	"github.com/runtiger2024/buy1688-sub000/internal/settings"
	"github.com/runtiger2024/buy1688-sub000/internal/warehouses"
)

// Store persists orders. Create writes the order and its items atomically.
type Store interface {
	Create(ctx context.Context, o Order) (Order, error)
	Get(ctx context.Context, id int64) (Order, error)
	GetByShareToken(ctx context.Context, token string) (Order, error)
	List(ctx context.Context, f ListFilter) ([]Order, error)
	Update(ctx context.Context, id int64, p Patch) (Order, error)
}

type ProductLookup interface {
	LookupForOrder(ctx context.Context, ids []int64) (map[int64]catalog.Product, error)
}

type WarehouseLookup interface {
	Get(ctx context.Context, id int64) (warehouses.Warehouse, error)
}

type SettingsReader interface {
	Snapshot(ctx context.Context) (settings.Snapshot, error)
}

type StaffDirectory interface {
	IsActiveStaff(ctx context.Context, id int64) (bool, error)
}

// Idempotency remembers which order a customer's Idempotency-Key produced.
type Idempotency interface {
	Lookup(ctx context.Context, customerID int64, key string) (orderID int64, ok bool, err error)
	Remember(ctx context.Context, customerID int64, key string, orderID int64) error
}
