package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-backend/internal/api/metrics"
	"github.com/clinichq/clinic-backend/internal/core/domain"
	"github.com/clinichq/clinic-backend/internal/core/ports"
)

const (
	defaultCurrency = "INR"

	// enrichment fetch after a committed verification is strictly best-effort
	// and must not hold the response hostage.
	detailsFetchTimeout = 5 * time.Second
)

// VerificationGuard records verified payment references so that callback
// replays are answered idempotently (Redis-backed in production).
type VerificationGuard interface {
	IsVerified(ctx context.Context, paymentID string) (bool, error)
	MarkVerified(ctx context.Context, paymentID string) error
}

// PaymentService implements order creation and callback verification against
// the remote gateway.
type PaymentService struct {
	repo      ports.AppointmentRepository
	gateway   ports.PaymentGateway
	guard     VerificationGuard
	keySecret string
	logger    zerolog.Logger
}

func NewPaymentService(
	repo ports.AppointmentRepository,
	gateway ports.PaymentGateway,
	guard VerificationGuard,
	keySecret string,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		repo:      repo,
		gateway:   gateway,
		guard:     guard,
		keySecret: keySecret,
		logger:    logger,
	}
}

// CreateOrder registers a gateway order for a confirmed, unpaid appointment
// and persists the order reference. The gateway call happens before any local
// mutation, so a remote failure leaves the appointment untouched.
func (s *PaymentService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	if input.Amount <= 0 {
		return nil, domain.ValidationErrors{"amount": "valid amount is required"}
	}

	appt, err := s.repo.FindByID(ctx, input.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt.IsPaid {
		return nil, domain.ErrAlreadyPaid
	}
	if appt.Status != domain.StatusConfirmed {
		return nil, domain.ErrNotConfirmable
	}

	currency := strings.ToUpper(input.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	minorUnits := int64(input.Amount * 100)
	order, err := s.gateway.CreateOrder(ctx, minorUnits, currency, "receipt_"+appt.ID, map[string]any{
		"appointment_id":   appt.ID,
		"patient_name":     appt.PatientName,
		"patient_email":    appt.PatientEmail,
		"service_type":     appt.ServiceType,
		"appointment_date": appt.Date,
	})
	if err != nil {
		metrics.PaymentFailuresTotal.WithLabelValues("gateway_error").Inc()
		s.logger.Error().Err(err).Str("appointment_id", appt.ID).Msg("gateway order creation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}

	if _, err := s.repo.SetOrder(ctx, appt.ID, order.ID, input.Amount); err != nil {
		return nil, err
	}

	metrics.PaymentOrdersTotal.Inc()
	s.logger.Info().
		Str("appointment_id", appt.ID).
		Str("order_id", order.ID).
		Int64("amount_minor", order.Amount).
		Msg("payment order created")

	return &ports.CreateOrderResult{
		OrderID:       order.ID,
		Amount:        order.Amount,
		Currency:      order.Currency,
		KeyID:         s.gateway.KeyID(),
		AppointmentID: appt.ID,
		PatientName:   appt.PatientName,
	}, nil
}

// VerifyPayment authenticates a gateway callback. The signature is recomputed
// locally and compared in constant time before any state is trusted; a
// mismatch never mutates the appointment. Only after the verified state is
// committed does a best-effort detail fetch run; its failure degrades the
// response, never the payment state.
func (s *PaymentService) VerifyPayment(ctx context.Context, input ports.VerifyPaymentInput) (*ports.VerifyPaymentResult, error) {
	appt, err := s.repo.FindByID(ctx, input.AppointmentID)
	if err != nil {
		return nil, err
	}

	// A signature is only proof that the gateway saw this (order, payment)
	// pair. When the appointment carries the order reference persisted at
	// creation, the callback must name that same order.
	if appt.OrderID != "" && appt.OrderID != input.OrderID {
		metrics.PaymentFailuresTotal.WithLabelValues("order_mismatch").Inc()
		s.logger.Warn().
			Str("appointment_id", input.AppointmentID).
			Str("order_id", input.OrderID).
			Msg("payment order does not belong to appointment")
		return nil, fmt.Errorf("%w: order does not belong to appointment", domain.ErrInvalidSignature)
	}

	expected := computeSignature(input.OrderID, input.PaymentID, s.keySecret)
	if !hmac.Equal([]byte(expected), []byte(input.Signature)) {
		metrics.PaymentFailuresTotal.WithLabelValues("invalid_signature").Inc()
		s.logger.Warn().
			Str("appointment_id", input.AppointmentID).
			Str("order_id", input.OrderID).
			Msg("payment signature mismatch")
		return nil, domain.ErrInvalidSignature
	}

	replay := false
	if s.guard != nil {
		seen, err := s.guard.IsVerified(ctx, input.PaymentID)
		if err != nil {
			s.logger.Warn().Err(err).Msg("verification guard check failed, processing anyway")
		} else {
			replay = seen
		}
	}

	if !replay {
		appt, err = s.repo.MarkPaid(ctx, input.AppointmentID, input.PaymentID)
		if err != nil {
			return nil, err
		}
		if s.guard != nil {
			if err := s.guard.MarkVerified(ctx, input.PaymentID); err != nil {
				s.logger.Warn().Err(err).Str("payment_id", input.PaymentID).Msg("failed to mark payment verified")
			}
		}
		metrics.PaymentsVerifiedTotal.Inc()
		s.logger.Info().
			Str("appointment_id", appt.ID).
			Str("payment_id", input.PaymentID).
			Msg("payment verified")
	}

	result := &ports.VerifyPaymentResult{
		AppointmentID: appt.ID,
		Status:        string(domain.StatusConfirmed),
		PaymentID:     input.PaymentID,
		IsPaid:        true,
		PatientName:   appt.PatientName,
		Date:          appt.Date,
	}

	// Enrichment only; the payment state above is already committed.
	fetchCtx, cancel := context.WithTimeout(ctx, detailsFetchTimeout)
	defer cancel()
	payment, err := s.gateway.FetchPayment(fetchCtx, input.PaymentID)
	if err != nil {
		metrics.PaymentFailuresTotal.WithLabelValues("details_fetch").Inc()
		s.logger.Warn().Err(err).Str("payment_id", input.PaymentID).Msg("payment detail fetch failed")
		return result, nil
	}

	result.DetailsAvailable = true
	result.Details = &ports.PaymentDetailsData{
		Amount:   float64(payment.Amount) / 100,
		Currency: payment.Currency,
		Status:   payment.Status,
		Method:   payment.Method,
	}
	return result, nil
}

func (s *PaymentService) GetPaymentDetails(ctx context.Context, appointmentID string) (*ports.PaymentStatusResult, error) {
	return s.projectPayment(ctx, appointmentID)
}

func (s *PaymentService) CheckPaymentStatus(ctx context.Context, appointmentID string) (*ports.PaymentStatusResult, error) {
	return s.projectPayment(ctx, appointmentID)
}

func (s *PaymentService) projectPayment(ctx context.Context, appointmentID string) (*ports.PaymentStatusResult, error) {
	appt, err := s.repo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	return &ports.PaymentStatusResult{
		AppointmentID: appt.ID,
		Amount:        appt.Amount,
		IsPaid:        appt.IsPaid,
		PaymentID:     appt.PaymentID,
		Status:        string(appt.Status),
		PatientName:   appt.PatientName,
		Date:          appt.Date,
	}, nil
}

// computeSignature returns hex(HMAC-SHA256(orderID + "|" + paymentID, secret)),
// the gateway's callback signature scheme.
func computeSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
