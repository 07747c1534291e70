package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Verified payment references are kept long enough to absorb any realistic
// callback replay window.
const verifiedTTL = 7 * 24 * time.Hour

// VerificationGuard records verified payment references in Redis so repeated
// callbacks for the same payment are answered idempotently instead of
// re-running the state transition and gateway fetch.
// Key format: payment:verified:<payment_id>
type VerificationGuard struct {
	client *redis.Client
}

// NewVerificationGuard creates a VerificationGuard wrapping the given client.
func NewVerificationGuard(client *redis.Client) *VerificationGuard {
	return &VerificationGuard{client: client}
}

// IsVerified reports whether this payment reference was already verified.
func (g *VerificationGuard) IsVerified(ctx context.Context, paymentID string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(paymentID)).Result()
	if err != nil {
		return false, fmt.Errorf("verification check: %w", err)
	}
	return n > 0, nil
}

// MarkVerified records a verified payment reference (expires after verifiedTTL).
func (g *VerificationGuard) MarkVerified(ctx context.Context, paymentID string) error {
	return g.client.Set(ctx, g.key(paymentID), "1", verifiedTTL).Err()
}

func (g *VerificationGuard) key(paymentID string) string {
	return "payment:verified:" + paymentID
}
