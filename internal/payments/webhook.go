package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/azursoldev/likes-io/internal/orders"
)

var ErrBadSignature = errors.New("invalid webhook signature")

type callbackPayload struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"` // paid | failed
	Ref     string `json:"ref"`
	Reason  string `json:"reason,omitempty"`
}

// HandleCallback processes a provider webhook: verify the HMAC signature,
// then settle or cancel the referenced order. Replays of an already-settled
// order are acknowledged without effect.
func (s *Service) HandleCallback(ctx context.Context, method Method, signature string, body []byte) error {
	secret, ok := s.Secrets[method]
	if !ok || secret == "" {
		return fmt.Errorf("no webhook secret for %s", method)
	}
	if !VerifySignature(secret, body, signature) {
		return ErrBadSignature
	}

	var p callbackPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return ValidationError("invalid callback body")
	}
	if p.OrderID == "" {
		return ValidationError("missing order_id")
	}

	o, err := s.Orders.Get(ctx, p.OrderID)
	if err != nil {
		return err
	}

	switch p.Status {
	case "paid":
		if o.Status != orders.StatusPendingPayment {
			return nil // replay
		}
		return s.markPaid(ctx, o, p.Ref)
	case "failed":
		if o.Status != orders.StatusPendingPayment {
			return nil
		}
		if err := s.Orders.SetStatus(ctx, o.ID, orders.StatusPendingPayment, orders.StatusCanceled); err != nil {
			return err
		}
		s.cacheStatus(ctx, o.ID, orders.StatusCanceled)
		return nil
	default:
		return ValidationError("unknown callback status")
	}
}

func VerifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(signature))
}
