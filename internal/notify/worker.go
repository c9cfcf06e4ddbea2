package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	kafkax "github.com/runtiger2024/buy1688-sub000/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

// Worker is the notifier-side Kafka handler. Delivery is best effort: every message is
// committed, failures are logged and never retried.
type Worker struct {
	Mailer  Mailer
	Alerter Alerter // optional
	Dedup   Deduper
	BaseURL string
	Log     *slog.Logger
}

func (w *Worker) HandleMessage(ctx context.Context, m kafkago.Message) error {
	var env Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		w.Log.Error("undecodable envelope skipped", slog.Int64("offset", m.Offset), slog.Any("err", err))
		return nil
	}
	if env.EventType != EventNotification {
		return nil
	}

	first, err := w.Dedup.Claim(ctx, env.EventID)
	if err != nil {
		// fail open, a duplicate mail beats a lost one
		w.Log.Warn("dedup unavailable", slog.String("event_id", env.EventID), slog.Any("err", err))
	} else if !first {
		return nil
	}

	n, err := kafkax.UnwrapPayload[Notification](env.Payload)
	if err != nil {
		w.Log.Error("bad notification payload", slog.String("event_id", env.EventID), slog.Any("err", err))
		return nil
	}
	if err := w.Deliver(ctx, n); err != nil {
		w.Log.Error("notification delivery failed",
			slog.String("event_id", env.EventID), slog.String("kind", string(n.Kind)),
			slog.Int64("order_id", n.OrderID), slog.Any("err", err))
	}
	return nil
}

// Deliver sends the email and, for staff-relevant kinds, the chat alert concurrently.
func (w *Worker) Deliver(ctx context.Context, n Notification) error {
	// one channel failing must not cancel the other
	var g errgroup.Group

	if n.To != "" {
		g.Go(func() error {
			subject, body, err := Render(n, w.BaseURL)
			if err != nil {
				return err
			}
			return w.Mailer.Send(ctx, n.To, subject, body)
		})
	}
	if w.Alerter != nil {
		g.Go(func() error {
			text, ok, err := RenderAlert(n)
			if err != nil || !ok {
				return err
			}
			return w.Alerter.Alert(ctx, text)
		})
	}
	return g.Wait()
}
