package orders

import (
	"context"
	"log/slog"
	"strings"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/runtiger2024/buy1688-sub000/internal/auth"
	"github.com/runtiger2024/buy1688-sub000/internal/notify"
)

const maxReferenceLen = 64

// Update applies a staff patch. Fields are independent: a nil field is never written.
// Concurrent updates to one order are not serialised; the last write wins.
func (s *Service) Update(ctx context.Context, actor auth.Claims, id int64, p Patch) (Order, error) {
	if !actor.IsStaff() {
		return Order{}, apperr.Forbidden("staff only")
	}
	p.PaymentReference = nil
	if p.empty() {
		return Order{}, apperr.Validation("nothing to update")
	}
	if p.OperatorID != nil && !actor.IsAdmin() {
		return Order{}, apperr.Forbidden("only admins can assign operators")
	}
	if p.Status != nil && !p.Status.Valid() {
		return Order{}, apperr.Validation("unknown status %q", *p.Status)
	}
	if p.PaymentStatus != nil && !p.PaymentStatus.Valid() {
		return Order{}, apperr.Validation("unknown payment status %q", *p.PaymentStatus)
	}
	if p.OperatorID != nil && *p.OperatorID < 0 {
		return Order{}, apperr.Validation("invalid operator id")
	}

	cur, err := s.Store.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if actor.Role == auth.RoleOperator && (cur.OperatorID == nil || *cur.OperatorID != actor.UserID) {
		return Order{}, apperr.Forbidden("order %d is not assigned to you", id)
	}

	if p.Status != nil {
		switch {
		case *p.Status == cur.Status:
			p.Status = nil
		case !CanTransition(cur.Status, *p.Status):
			return Order{}, apperr.Conflict("order %d cannot move from %s to %s", id, cur.Status, *p.Status)
		}
	}
	if p.PaymentStatus != nil {
		switch {
		case *p.PaymentStatus == cur.PaymentStatus:
			p.PaymentStatus = nil
		case !CanTransitionPayment(cur.PaymentStatus, *p.PaymentStatus):
			return Order{}, apperr.Conflict("order %d payment cannot move from %s to %s", id, cur.PaymentStatus, *p.PaymentStatus)
		}
	}
	if p.OperatorID != nil && *p.OperatorID != 0 {
		ok, err := s.Staff.IsActiveStaff(ctx, *p.OperatorID)
		if err != nil {
			return Order{}, err
		}
		if !ok {
			return Order{}, apperr.Validation("user %d is not an active staff member", *p.OperatorID)
		}
	}
	if p.DomesticTrackingNumber != nil {
		t := strings.TrimSpace(*p.DomesticTrackingNumber)
		p.DomesticTrackingNumber = &t
	}
	if p.empty() {
		return cur, nil
	}

	updated, err := s.Store.Update(ctx, id, p)
	if err != nil {
		return Order{}, err
	}
	s.Log.Info("order updated",
		slog.Int64("order_id", id), slog.Int64("actor_id", actor.UserID),
		slog.String("status", string(updated.Status)), slog.String("payment_status", string(updated.PaymentStatus)))

	switch {
	case p.PaymentStatus != nil && *p.PaymentStatus == PaymentPaid:
		s.Notifier.Notify(ctx, orderNotification(notify.KindPaymentReceived, updated))
	case p.Status != nil || p.PaymentStatus != nil:
		s.Notifier.Notify(ctx, orderNotification(notify.KindStatusUpdated, updated))
	}
	return updated, nil
}

// SubmitPaymentProof records the customer's transfer reference and puts the payment under review.
func (s *Service) SubmitPaymentProof(ctx context.Context, customer auth.Claims, id int64, reference string) (Order, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return Order{}, apperr.Validation("payment reference is required")
	}
	if len(reference) > maxReferenceLen {
		return Order{}, apperr.Validation("payment reference must be at most %d characters", maxReferenceLen)
	}

	cur, err := s.Store.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if cur.CustomerID != customer.UserID {
		return Order{}, apperr.NotFound("order %d not found", id)
	}
	if cur.Status == StatusCancelled {
		return Order{}, apperr.Conflict("order %d is cancelled", id)
	}
	if cur.PaymentStatus != PaymentUnpaid {
		return Order{}, apperr.Conflict("payment for order %d is already %s", id, cur.PaymentStatus)
	}

	review := PaymentPendingReview
	updated, err := s.Store.Update(ctx, id, Patch{PaymentStatus: &review, PaymentReference: &reference})
	if err != nil {
		return Order{}, err
	}
	n := orderNotification(notify.KindPaymentProof, updated)
	n.Name = customer.Name
	n.Reference = reference
	s.Notifier.Notify(ctx, n)
	return updated, nil
}
