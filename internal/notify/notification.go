// Package notify carries customer and staff notifications from the API to the notifier process.
package notify

import (
	"context"
	"encoding/json"
	"time"
)

const TopicNotifications = "notify.events"

const EventNotification = "NotificationRequested"

type Kind string

const (
	KindWelcome         Kind = "user.registered"
	KindOrderCreated    Kind = "order.created"
	KindPaymentReceived Kind = "order.payment_received"
	KindStatusUpdated   Kind = "order.status_updated"
	KindPaymentProof    Kind = "order.payment_proof"
)

type Notification struct {
	Kind                Kind   `json:"kind"`
	To                  string `json:"to,omitempty"`
	Name                string `json:"name,omitempty"`
	OrderID             int64  `json:"order_id,omitempty"`
	OrderType           string `json:"order_type,omitempty"`
	ShareToken          string `json:"share_token,omitempty"`
	Status              string `json:"status,omitempty"`
	PaymentStatus       string `json:"payment_status,omitempty"`
	TotalAmount         int64  `json:"total_amount,omitempty"`
	PaymentInstructions string `json:"payment_instructions,omitempty"`
	Reference           string `json:"reference,omitempty"`
}

// Notifier submits a notification and returns immediately. Delivery failures are logged by the
// implementation and never reported to the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Nop drops every notification.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) {}

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}
