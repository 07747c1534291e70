package ports

import "context"

// GatewayOrder is the remote gateway's view of a created payment order.
type GatewayOrder struct {
	ID       string
	Amount   int64 // minor currency units
	Currency string
}

// GatewayPayment is the remote gateway's view of a captured payment.
type GatewayPayment struct {
	Amount   int64 // minor currency units
	Currency string
	Status   string
	Method   string
}

// PaymentGateway abstracts the remote payment processor (Razorpay). All calls
// must honour ctx cancellation and deadlines.
type PaymentGateway interface {
	// CreateOrder registers a new order for amount in minor currency units.
	// notes are opaque metadata attached to the order.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]any) (*GatewayOrder, error)
	// FetchPayment retrieves the details of a captured payment.
	FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
	// KeyID returns the public API key the client needs to drive the
	// gateway's checkout flow.
	KeyID() string
}
