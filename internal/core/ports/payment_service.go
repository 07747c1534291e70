package ports

import "context"

// CreateOrderInput carries the parameters for creating a gateway order.
type CreateOrderInput struct {
	AppointmentID string
	Amount        float64 // major currency units
	Currency      string  // defaults to INR
}

// CreateOrderResult is returned after the gateway order is created and the
// order reference persisted on the appointment.
type CreateOrderResult struct {
	OrderID       string
	Amount        int64 // minor currency units, as registered with the gateway
	Currency      string
	KeyID         string // public key for the client-side checkout
	AppointmentID string
	PatientName   string
}

// VerifyPaymentInput carries the gateway callback identifiers and signature.
type VerifyPaymentInput struct {
	AppointmentID string
	OrderID       string
	PaymentID     string
	Signature     string
}

// PaymentDetailsData mirrors the gateway's payment record; nil when the
// best-effort enrichment fetch failed.
type PaymentDetailsData struct {
	Amount   float64 `json:"amount"` // major currency units
	Currency string  `json:"currency"`
	Status   string  `json:"status"`
	Method   string  `json:"method"`
}

// VerifyPaymentResult reports the committed payment state. DetailsAvailable is
// false when verification succeeded but the enrichment fetch did not.
type VerifyPaymentResult struct {
	AppointmentID    string
	Status           string
	PaymentID        string
	IsPaid           bool
	PatientName      string
	Date             string
	DetailsAvailable bool
	Details          *PaymentDetailsData
}

// PaymentStatusResult projects the stored payment fields of an appointment.
type PaymentStatusResult struct {
	AppointmentID string
	Amount        float64
	IsPaid        bool
	PaymentID     string
	Status        string
	PatientName   string
	Date          string
}

// PaymentService defines the payment workflow operations.
type PaymentService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	// VerifyPayment authenticates the gateway callback by recomputing the
	// order|payment HMAC before any state change is applied.
	VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*VerifyPaymentResult, error)
	GetPaymentDetails(ctx context.Context, appointmentID string) (*PaymentStatusResult, error)
	CheckPaymentStatus(ctx context.Context, appointmentID string) (*PaymentStatusResult, error)
}
