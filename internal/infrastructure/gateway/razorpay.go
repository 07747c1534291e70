// Package gateway adapts the Razorpay SDK to the ports.PaymentGateway
// interface. The SDK itself is context-unaware, so every call runs through a
// deadline-bounded wrapper.
package gateway

import (
	"context"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-backend/internal/api/metrics"
	"github.com/clinichq/clinic-backend/internal/core/ports"
)

const defaultCallTimeout = 10 * time.Second

// RazorpayGateway is the production ports.PaymentGateway implementation.
type RazorpayGateway struct {
	client  *razorpay.Client
	keyID   string
	timeout time.Duration
	logger  zerolog.Logger
}

func NewRazorpayGateway(keyID, keySecret string, timeout time.Duration, logger zerolog.Logger) *RazorpayGateway {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &RazorpayGateway{
		client:  razorpay.NewClient(keyID, keySecret),
		keyID:   keyID,
		timeout: timeout,
		logger:  logger,
	}
}

func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// CreateOrder registers an order for amount in minor currency units with
// automatic payment capture.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]any) (*ports.GatewayOrder, error) {
	start := time.Now()
	defer func() {
		metrics.GatewayRequestDuration.WithLabelValues("create_order").Observe(time.Since(start).Seconds())
	}()

	data := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"notes":           notes,
		"payment_capture": 1,
	}

	body, err := g.call(ctx, func() (map[string]interface{}, error) {
		return g.client.Order.Create(data, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("create order: gateway response missing order id")
	}

	order := &ports.GatewayOrder{ID: id, Amount: amount, Currency: currency}
	if a, ok := body["amount"].(float64); ok {
		order.Amount = int64(a)
	}
	if c, ok := body["currency"].(string); ok {
		order.Currency = c
	}

	g.logger.Debug().Str("order_id", order.ID).Int64("amount", order.Amount).Msg("gateway order created")
	return order, nil
}

// FetchPayment retrieves a captured payment's details.
func (g *RazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*ports.GatewayPayment, error) {
	start := time.Now()
	defer func() {
		metrics.GatewayRequestDuration.WithLabelValues("fetch_payment").Observe(time.Since(start).Seconds())
	}()

	body, err := g.call(ctx, func() (map[string]interface{}, error) {
		return g.client.Payment.Fetch(paymentID, nil, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch payment: %w", err)
	}

	payment := &ports.GatewayPayment{}
	if a, ok := body["amount"].(float64); ok {
		payment.Amount = int64(a)
	}
	if c, ok := body["currency"].(string); ok {
		payment.Currency = c
	}
	if s, ok := body["status"].(string); ok {
		payment.Status = s
	}
	if m, ok := body["method"].(string); ok {
		payment.Method = m
	}
	return payment, nil
}

type callResult struct {
	body map[string]interface{}
	err  error
}

// call bounds an SDK invocation by the configured timeout and the caller's
// context. The SDK request cannot be cancelled mid-flight; on deadline the
// result is abandoned and the goroutine drains into the buffered channel.
func (g *RazorpayGateway) call(ctx context.Context, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	ch := make(chan callResult, 1)
	go func() {
		body, err := fn()
		ch <- callResult{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.body, res.err
	}
}
