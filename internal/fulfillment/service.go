// Package fulfillment applies order status changes coming from the
// warehouse side back onto visitors' order lists.
package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/session"
	"github.com/juju/loggo"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

var logger = loggo.GetLogger("storefront.fulfillment")

type Sessions interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

type Service struct {
	Sessions    Sessions
	Redis       *redis.Client
	ServiceName string
}

// HandleStatusChanged is installed as the consumer handler. A returned error
// leaves the message uncommitted so it is fetched again.
func (s *Service) HandleStatusChanged(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// a poison message would otherwise block the partition
		logger.Errorf("dropping undecodable message at offset %d: %v", m.Offset, err)
		return nil
	}
	if env.EventType != orders.EventOrderStatusChanged {
		return nil
	}

	dkey := redisx.DedupKey(s.ServiceName, env.EventID)
	seen, err := redisx.Exists(ctx, s.Redis, dkey)
	if err != nil {
		return fmt.Errorf("dedup lookup: %w", err)
	}
	if seen {
		logger.Debugf("event %s already applied", env.EventID)
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		logger.Errorf("event %s: %v", env.EventID, err)
		return nil
	}

	if err := s.apply(ctx, p); err != nil {
		return err
	}

	if err := s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err(); err != nil {
		logger.Warningf("marking event %s applied: %v", env.EventID, err)
	}
	return nil
}

func (s *Service) apply(ctx context.Context, p orders.OrderStatusChangedPayload) error {
	sess, err := s.Sessions.Get(ctx, p.SessionID)
	if errors.Is(err, session.ErrEmptyID) {
		logger.Warningf("status change for %s has no session", p.OrderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session %s: %w", p.SessionID, err)
	}

	err = sess.Orders.UpdateOrderStatus(ctx, p.OrderID, p.Status)
	switch {
	case errors.Is(err, orders.ErrUnknownStatus), errors.Is(err, orders.ErrIllegalTransition):
		logger.Warningf("session %s order %s: %v", p.SessionID, p.OrderID, err)
		return nil
	case err != nil:
		return fmt.Errorf("update %s: %w", p.OrderID, err)
	}
	logger.Infof("session %s order %s -> %s", p.SessionID, p.OrderID, p.Status)
	return nil
}
