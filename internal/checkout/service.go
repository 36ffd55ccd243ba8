// Package checkout turns a visitor's cart into a placed order.
package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ariefcatur/go-storefront/internal/cart"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/juju/clock"
	"github.com/juju/loggo"
	"github.com/shopspring/decimal"
	kafkago "github.com/segmentio/kafka-go"
)

var logger = loggo.GetLogger("storefront.checkout")

type Cart interface {
	Items() []cart.Item
	Drain(ctx context.Context) []cart.Item
}

type OrderBook interface {
	AddOrder(ctx context.Context, o orders.Order)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	clock       clock.Clock
	delay       time.Duration
	publisher   Publisher
	serviceName string

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService builds a checkout that waits delay before finalizing each
// order. publisher may be nil.
func NewService(clk clock.Clock, delay time.Duration, publisher Publisher, serviceName string) *Service {
	return &Service{
		clock:       clk,
		delay:       delay,
		publisher:   publisher,
		serviceName: serviceName,
		inFlight:    make(map[string]struct{}),
	}
}

// Quote prices the current cart contents without placing anything.
func (s *Service) Quote(c Cart, m ShippingMethod) Quote {
	return Price(subtotal(c.Items()), m)
}

// PlaceOrder empties the cart into a pending order and announces it. The
// order holds the cart contents as of the end of the delay. Only one
// checkout per session runs at a time.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, c Cart, book OrderBook, req Request) (orders.Order, error) {
	req, err := req.normalize()
	if err != nil {
		return orders.Order{}, err
	}

	if !s.acquire(sessionID) {
		return orders.Order{}, ErrCheckoutInProgress
	}
	defer s.release(sessionID)

	if len(c.Items()) == 0 {
		return orders.Order{}, ErrEmptyCart
	}

	if s.delay > 0 {
		select {
		case <-s.clock.After(s.delay):
		case <-ctx.Done():
			return orders.Order{}, fmt.Errorf("place order: %w", ctx.Err())
		}
	}

	// the cart may have changed while we waited; order what it holds now
	items := c.Drain(ctx)
	if len(items) == 0 {
		return orders.Order{}, ErrEmptyCart
	}
	order := s.buildOrder(sessionID, items, req)
	book.AddOrder(ctx, order)
	logger.Infof("session %s placed %s total=%s", sessionID, order.ID, order.TotalAmount)

	s.announce(sessionID, order)
	return order, nil
}

func (s *Service) buildOrder(sessionID string, items []cart.Item, req Request) orders.Order {
	now := s.clock.Now().UTC()
	quote := Price(subtotal(items), req.ShippingMethod)

	lines := make([]orders.LineItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, orders.LineItem{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	customerID := req.CustomerID
	if customerID == "" {
		customerID = sessionID
	}

	return orders.Order{
		ID:              fmt.Sprintf("ORD-%d", now.UnixMilli()),
		CustomerID:      customerID,
		Status:          orders.StatusPending,
		TotalAmount:     quote.Total,
		ShippingAddress: req.shippingAddress(),
		BillingAddress:  req.billingAddress(),
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   orders.PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
		Notes:           req.Notes,
		ShippingMethod:  string(req.ShippingMethod),
		Subtotal:        &quote.Subtotal,
		ShippingCost:    &quote.Shipping,
		Tax:             &quote.Tax,
		Items:           lines,
	}
}

func (s *Service) announce(sessionID string, o orders.Order) {
	if s.publisher == nil {
		return
	}
	env, err := orders.NewEnvelope(orders.EventOrderPlaced, s.serviceName, o.ID, o.CreatedAt, orders.OrderPlacedPayload{
		SessionID:     sessionID,
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   o.TotalAmount,
		Items:         o.Items,
	})
	if err != nil {
		logger.Errorf("building %s event for %s: %v", orders.EventOrderPlaced, o.ID, err)
		return
	}
	s.publisher.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(env), kafkax.EventHeaders(orders.EventOrderPlaced)...)
}

func (s *Service) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *Service) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

func subtotal(items []cart.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
