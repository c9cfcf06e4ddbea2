package notify

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkax "github.com/runtiger2024/buy1688-sub000/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
)

type Publisher interface {
	TryPublish(key, value []byte, headers ...kafkago.Header) bool
}

// Dispatcher is the API-side Notifier: it enqueues an envelope on the Kafka producer.
type Dispatcher struct {
	Producer Publisher
	Service  string
	Log      *slog.Logger
}

func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventNotification,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      d.Service,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: correlationID(n),
		Payload:       kafkax.MustMarshal(n),
	}
	ok := d.Producer.TryPublish([]byte(ev.CorrelationID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventNotification)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	if !ok {
		d.Log.Warn("notification dropped, queue unavailable",
			slog.String("kind", string(n.Kind)), slog.Int64("order_id", n.OrderID), slog.String("event_id", ev.EventID))
	}
}

// Partition key keeps all events of one order (or one recipient) in order.
func correlationID(n Notification) string {
	if n.OrderID != 0 {
		return "order:" + strconv.FormatInt(n.OrderID, 10)
	}
	return "to:" + n.To
}
