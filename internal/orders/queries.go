package orders

import (
	"context"
	"strings"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/runtiger2024/buy1688-sub000/internal/auth"
)

func (s *Service) ListMine(ctx context.Context, customer auth.Claims) ([]Order, error) {
	id := customer.UserID
	return s.Store.List(ctx, ListFilter{CustomerID: &id})
}

// ListForOperator returns the orders assigned to the calling staff member.
func (s *Service) ListForOperator(ctx context.Context, actor auth.Claims) ([]Order, error) {
	if !actor.IsStaff() {
		return nil, apperr.Forbidden("staff only")
	}
	id := actor.UserID
	return s.Store.List(ctx, ListFilter{OperatorID: &id})
}

func (s *Service) ListAll(ctx context.Context, actor auth.Claims, f ListFilter) ([]Order, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin only")
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, apperr.Validation("unknown status %q", *f.Status)
	}
	if f.PaymentStatus != nil && !f.PaymentStatus.Valid() {
		return nil, apperr.Validation("unknown payment status %q", *f.PaymentStatus)
	}
	return s.Store.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, actor auth.Claims, id int64) (Order, error) {
	if !actor.IsStaff() {
		return Order{}, apperr.Forbidden("staff only")
	}
	return s.Store.Get(ctx, id)
}

// GetByShareToken is the unauthenticated lookup. Bank details are read fresh, so they follow
// the current settings rather than those in force when the order was placed.
func (s *Service) GetByShareToken(ctx context.Context, token string) (SharedOrder, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SharedOrder{}, apperr.NotFound("order not found")
	}
	o, err := s.Store.GetByShareToken(ctx, token)
	if err != nil {
		return SharedOrder{}, err
	}
	snap, err := s.Settings.Snapshot(ctx)
	if err != nil {
		return SharedOrder{}, err
	}
	return shareView(o, snap.Bank), nil
}
