package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinichq/clinic-backend/internal/core/ports"
	"github.com/clinichq/clinic-backend/internal/infrastructure/config"
	"github.com/clinichq/clinic-backend/pkg/logger"
)

type noopGateway struct{}

func (noopGateway) CreateOrder(context.Context, int64, string, string, map[string]any) (*ports.GatewayOrder, error) {
	return &ports.GatewayOrder{}, nil
}

func (noopGateway) FetchPayment(context.Context, string) (*ports.GatewayPayment, error) {
	return &ports.GatewayPayment{}, nil
}

func (noopGateway) KeyID() string { return "rzp_test_key" }

// newTestRouter wires the full route table against lazy clients. None of the
// requests below reach Mongo or Redis, so the clients never dial.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger.Reset()
	logger.Init(logger.Config{Level: "error", Service: "router-test", Output: io.Discard})

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("building mongo client: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Env:         "development",
		JWTSecret:   "router-test-secret",
		JWTTTL:      time.Hour,
		CORSOrigins: []string{"*"},
	}
	return NewRouter(cfg, client.Database("clinic_test"), rdb, noopGateway{})
}

// The patient checkout routes carry no admin auth: a tokenless request must
// fail on its payload, never with 401. Admin routes keep rejecting the same
// request with 401.
func TestRouter_PaymentCheckoutRoutesArePublic(t *testing.T) {
	e := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"order creation", http.MethodPost, "/api/payments/order", http.StatusBadRequest},
		{"verification", http.MethodPost, "/api/payments/verify", http.StatusBadRequest},
		{"admin listing", http.MethodGet, "/api/appointments", http.StatusUnauthorized},
		{"payment details", http.MethodGet, "/api/payments/pay_123", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("%s %s returned %d, want %d", tc.method, tc.path, rec.Code, tc.want)
			}
		})
	}
}
