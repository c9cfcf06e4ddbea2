package orders

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/runtiger2024/buy1688-sub000/internal/auth"
	"github.com/runtiger2024/buy1688-sub000/internal/notify"
	"github.com/runtiger2024/buy1688-sub000/internal/pricing"
	"github.com/runtiger2024/buy1688-sub000/internal/settings"
	"github.com/shopspring/decimal"
)

type Deps struct {
	Store       Store
	Products    ProductLookup
	Warehouses  WarehouseLookup
	Settings    SettingsReader
	Staff       StaffDirectory
	Idempotency Idempotency // optional
	Notifier    notify.Notifier
	Log         *slog.Logger
	NewToken    func() string // defaults to uuid.NewString
}

type Service struct {
	Deps
}

func NewService(d Deps) *Service {
	if d.NewToken == nil {
		d.NewToken = uuid.NewString
	}
	if d.Notifier == nil {
		d.Notifier = notify.Nop{}
	}
	return &Service{Deps: d}
}

// CreateStandard places an order for catalog products. Every product must exist and be
// on sale, otherwise nothing is written.
func (s *Service) CreateStandard(ctx context.Context, customer auth.Claims, req CreateStandardRequest, idemKey string) (Created, error) {
	return s.create(ctx, customer, idemKey, func(snap settings.Snapshot) (Order, error) {
		if len(req.Items) == 0 {
			return Order{}, apperr.Validation("order must contain at least one item")
		}
		ids := make([]int64, 0, len(req.Items))
		for i, l := range req.Items {
			if err := pricing.ValidateLine(i, decimal.Zero, l.Quantity); err != nil {
				return Order{}, err
			}
			ids = append(ids, l.ProductID)
		}
		products, err := s.Products.LookupForOrder(ctx, ids)
		if err != nil {
			return Order{}, err
		}

		o := newOrder(customer, TypeStandard, req.Notes)
		var totals pricing.Totals
		for i, l := range req.Items {
			p, ok := products[l.ProductID]
			if !ok {
				return Order{}, apperr.Validation("item %d: product %d does not exist", i+1, l.ProductID)
			}
			if p.IsArchived {
				return Order{}, apperr.Validation("item %d: product %d (%s) is no longer available", i+1, p.ID, p.Name)
			}
			pid := p.ID
			o.Items = append(o.Items, Item{
				ProductID: &pid,
				Name:      p.Name,
				Price:     p.Price,
				CostCNY:   p.CostCNY,
				Quantity:  l.Quantity,
			})
			if err := totals.Add(i, p.Price, p.CostCNY, l.Quantity); err != nil {
				return Order{}, err
			}
		}
		o.TotalAmount, o.TotalCost = totals.Amount(), totals.Cost()
		return o, nil
	})
}

// CreateAssist places a buy-on-behalf order. Names and costs come from the customer and are
// priced with the current exchange settings.
func (s *Service) CreateAssist(ctx context.Context, customer auth.Claims, req CreateAssistRequest, idemKey string) (Created, error) {
	return s.create(ctx, customer, idemKey, func(snap settings.Snapshot) (Order, error) {
		if len(req.Items) == 0 {
			return Order{}, apperr.Validation("order must contain at least one item")
		}
		if req.WarehouseID != nil {
			if err := s.checkWarehouse(ctx, *req.WarehouseID); err != nil {
				return Order{}, err
			}
		}

		o := newOrder(customer, TypeAssist, req.Notes)
		o.WarehouseID = req.WarehouseID
		var totals pricing.Totals
		for i, l := range req.Items {
			name, url := strings.TrimSpace(l.Name), strings.TrimSpace(l.URL)
			if name == "" {
				return Order{}, apperr.Validation("item %d: name is required", i+1)
			}
			if url == "" {
				return Order{}, apperr.Validation("item %d: url is required", i+1)
			}
			cny, err := pricing.ParseAmount(l.CostCNY)
			if err != nil {
				return Order{}, apperr.Validation("item %d: cost must be a number", i+1)
			}
			if err := pricing.ValidateLine(i, cny, l.Quantity); err != nil {
				return Order{}, err
			}
			price, err := snap.Quote.UnitPrice(cny)
			if err != nil {
				return Order{}, apperr.Validation("item %d: %v", i+1, err)
			}
			o.Items = append(o.Items, Item{
				Name:        name,
				Spec:        strings.TrimSpace(l.Spec),
				ExternalURL: url,
				Price:       price,
				CostCNY:     cny,
				Quantity:    l.Quantity,
			})
			if err := totals.Add(i, price, cny, l.Quantity); err != nil {
				return Order{}, err
			}
		}
		o.TotalAmount, o.TotalCost = totals.Amount(), totals.Cost()
		return o, nil
	})
}

func (s *Service) checkWarehouse(ctx context.Context, id int64) error {
	w, err := s.Warehouses.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Validation("warehouse %d does not exist", id)
	}
	if err != nil {
		return err
	}
	if !w.IsActive {
		return apperr.Validation("warehouse %d is not accepting parcels", id)
	}
	return nil
}

func newOrder(customer auth.Claims, t Type, notes string) Order {
	return Order{
		CustomerID:    customer.UserID,
		CustomerEmail: customer.Email,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		PaymentMethod: PaymentOfflineTransfer,
		OrderType:     t,
		Notes:         strings.TrimSpace(notes),
	}
}

// create runs the shared half of order placement: idempotent replay, settings snapshot,
// persistence and the confirmation notification.
func (s *Service) create(ctx context.Context, customer auth.Claims, idemKey string, build func(settings.Snapshot) (Order, error)) (Created, error) {
	if customer.UserID == 0 {
		return Created{}, apperr.Unauthorized("login required")
	}
	idemKey = strings.TrimSpace(idemKey)
	if idemKey != "" && s.Idempotency != nil {
		if id, ok, err := s.Idempotency.Lookup(ctx, customer.UserID, idemKey); err != nil {
			s.Log.Warn("idempotency lookup failed", slog.Int64("customer_id", customer.UserID), slog.Any("err", err))
		} else if ok {
			return s.replay(ctx, id)
		}
	}

	snap, err := s.Settings.Snapshot(ctx)
	if err != nil {
		return Created{}, err
	}
	o, err := build(snap)
	if err != nil {
		return Created{}, err
	}
	o.ShareToken = s.NewToken()

	o, err = s.Store.Create(ctx, o)
	if err != nil {
		return Created{}, err
	}
	if idemKey != "" && s.Idempotency != nil {
		if err := s.Idempotency.Remember(ctx, customer.UserID, idemKey, o.ID); err != nil {
			s.Log.Warn("idempotency remember failed", slog.Int64("order_id", o.ID), slog.Any("err", err))
		}
	}

	instructions := settings.PaymentInstructions(o.TotalAmount, snap.Bank)
	s.Log.Info("order created",
		slog.Int64("order_id", o.ID), slog.String("type", string(o.OrderType)),
		slog.Int64("customer_id", o.CustomerID), slog.Int64("total_amount", o.TotalAmount))

	n := orderNotification(notify.KindOrderCreated, o)
	n.Name = customer.Name
	n.PaymentInstructions = instructions
	s.Notifier.Notify(ctx, n)

	return Created{Order: o, PaymentInstructions: instructions}, nil
}

func (s *Service) replay(ctx context.Context, id int64) (Created, error) {
	o, err := s.Store.Get(ctx, id)
	if err != nil {
		return Created{}, err
	}
	snap, err := s.Settings.Snapshot(ctx)
	if err != nil {
		return Created{}, err
	}
	return Created{Order: o, PaymentInstructions: settings.PaymentInstructions(o.TotalAmount, snap.Bank)}, nil
}

func orderNotification(kind notify.Kind, o Order) notify.Notification {
	return notify.Notification{
		Kind:          kind,
		To:            o.CustomerEmail,
		OrderID:       o.ID,
		OrderType:     string(o.OrderType),
		ShareToken:    o.ShareToken,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		TotalAmount:   o.TotalAmount,
	}
}
