package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/volleyball-tournament/models"
	"github.com/nats-io/nats.go"
)

// NATSRelay publishes live events on a NATS subject and feeds everything
// received on that subject into the local hub, so every API instance serves
// the same stream. The instance that published an event receives it back
// through its own subscription.
type NATSRelay struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	subject string
	hub     *Hub
	logger  *slog.Logger
}

func NewNATSRelay(natsURL, subject string, hub *Hub, logger *slog.Logger) (*NATSRelay, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("volleyball-tournament"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", slog.Any("error", err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	r := &NATSRelay{nc: nc, subject: subject, hub: hub, logger: logger}
	r.sub, err = nc.Subscribe(subject, func(msg *nats.Msg) {
		if !json.Valid(msg.Data) {
			logger.Warn("Ignoring malformed NATS event", slog.String("subject", msg.Subject))
			return
		}
		hub.Broadcast(msg.Data)
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	if err = nc.Flush(); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to flush NATS subscription: %w", err)
	}

	return r, nil
}

// Publish sends event to all instances. If NATS rejects the message the
// event is still delivered to local clients.
func (r *NATSRelay) Publish(ctx context.Context, event models.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to marshal live event", slog.String("type", event.Type), slog.Any("error", err))
		return
	}
	if err = r.nc.Publish(r.subject, data); err != nil {
		r.logger.WarnContext(ctx, "Failed to publish to NATS, delivering locally",
			slog.String("type", event.Type),
			slog.Any("error", err),
		)
		r.hub.Broadcast(data)
	}
}

func (r *NATSRelay) Close() error {
	if r.sub != nil {
		_ = r.sub.Unsubscribe()
	}
	return r.nc.Drain()
}
